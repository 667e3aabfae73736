package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// TokenStatus attempts one token fetch and prints the cache status as JSON.
func (r *Runner) TokenStatus(ctx context.Context, cmd *cli.Command) error {
	tokens := r.Tokens()
	if tokens.Configured() {
		if _, err := tokens.Token(ctx); err != nil {
			r.logger.Warn("token fetch failed", "error", err)
		}
	}
	return r.writeJSON(tokens.Status(), true)
}
