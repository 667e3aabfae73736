package main

import (
	"context"
	"fmt"

	"github.com/WillyGrv/Wedding-M-W/internal/formatter"
	"github.com/WillyGrv/Wedding-M-W/internal/models"
	"github.com/WillyGrv/Wedding-M-W/internal/ui"
	"github.com/urfave/cli/v3"
)

// RequestsList prints requests as a table, or as JSON with --json.
func (r *Runner) RequestsList(ctx context.Context, cmd *cli.Command) error {
	gateway, err := r.Gateway(ctx)
	if err != nil {
		return err
	}

	requests, err := gateway.List(ctx, cmd.String("status"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		if requests == nil {
			requests = []*models.TrackRequest{}
		}
		return r.writeJSON(requests, true)
	}

	if len(requests) == 0 {
		return r.writePlain("%s\n", ui.Styles.Help("No requests yet."))
	}
	return r.writePlain("%s\n%s\n%s\n", ui.Styles.Title("Playlist requests"), ui.Styles.RequestsTable(requests), ui.Styles.Summary(requests))
}

// RequestsConfirm confirms the request given as argument.
func (r *Runner) RequestsConfirm(ctx context.Context, cmd *cli.Command) error {
	gateway, err := r.Gateway(ctx)
	if err != nil {
		return err
	}

	req, err := gateway.Confirm(ctx, cmd.StringArg("uri"))
	if err != nil {
		return err
	}
	return r.writePlain("%s %s confirmed at %s\n", ui.Styles.OK("✓"), req.URI, formatter.FormatMillis(req.ConfirmedAt))
}

// RequestsManualAdded marks the request given as argument as added by hand.
func (r *Runner) RequestsManualAdded(ctx context.Context, cmd *cli.Command) error {
	gateway, err := r.Gateway(ctx)
	if err != nil {
		return err
	}

	req, err := gateway.MarkManualAdded(ctx, cmd.StringArg("uri"))
	if err != nil {
		return err
	}
	return r.writePlain("%s %s marked as added at %s\n", ui.Styles.OK("✓"), req.URI, formatter.FormatMillis(req.ManualAddedAt))
}

// RequestsDelete removes the request given as argument.
func (r *Runner) RequestsDelete(ctx context.Context, cmd *cli.Command) error {
	gateway, err := r.Gateway(ctx)
	if err != nil {
		return err
	}

	uri := cmd.StringArg("uri")
	if err := gateway.Delete(ctx, uri); err != nil {
		return err
	}
	return r.writePlain("%s %s deleted\n", ui.Styles.Warn("✗"), uri)
}

// RequestsExport writes the request list in the chosen format to stdout or --output.
func (r *Runner) RequestsExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	gateway, err := r.Gateway(ctx)
	if err != nil {
		return err
	}

	output := cmd.String("output")
	n, err := gateway.Export(ctx, r.output, output, cmd.String("status"), format)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if output != "" {
		r.logger.Info("export written", "path", output, "format", format, "requests", n)
	}
	return nil
}
