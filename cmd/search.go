package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/WillyGrv/Wedding-M-W/internal/services"
	"github.com/WillyGrv/Wedding-M-W/internal/shared"
	"github.com/WillyGrv/Wedding-M-W/internal/ui"
	"github.com/urfave/cli/v3"
)

// Search runs the same search the API serves and prints the results.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}

	items, err := r.Searcher().Search(ctx, query, services.ClampLimit(int(cmd.Int("limit"))))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"items": items}, true)
	}

	if len(items) == 0 {
		return r.writePlain("%s\n", ui.Styles.Help("No tracks found."))
	}
	for i, item := range items {
		if err := r.writePlain("%2d. %s - %s %s\n", i+1, strings.Join(item.Artists, ", "), item.Name, ui.Styles.Help(item.URI)); err != nil {
			return err
		}
	}
	return nil
}
