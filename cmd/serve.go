package main

import (
	"context"

	"github.com/WillyGrv/Wedding-M-W/internal/server"
	"github.com/WillyGrv/Wedding-M-W/internal/shared"
	"github.com/WillyGrv/Wedding-M-W/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP API until the process receives SIGINT or SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}

	store, err := r.Store(ctx)
	if err != nil {
		return err
	}
	gateway, err := r.Gateway(ctx)
	if err != nil {
		return err
	}

	httpLogger := shared.WithLogger(r.logger, "component", "http")
	limiter := server.NewRateLimiter(r.config.Limits, httpLogger)
	go limiter.Run(ctx, 0)

	api := &server.APIHandler{
		Searcher:    r.Searcher(),
		Submissions: tasks.NewSubmissions(store, r.config.Store.StrictURI, shared.WithLogger(r.logger, "component", "submissions")),
		Gateway:     gateway,
		Tokens:      r.Tokens(),
		Limiter:     limiter,
		Logger:      httpLogger,
	}

	r.logger.Info("starting playlistd",
		"store", r.config.Store.Driver,
		"catalog", r.Tokens().Configured(),
		"search_limit", r.config.Limits.Search,
		"mutation_limit", r.config.Limits.Mutation,
		"window", r.config.Limits.Window.Duration,
	)

	srv := server.NewServer(cfg, server.NewAPIRouter(cfg, api, httpLogger), r.logger)
	return srv.Run(ctx)
}
