package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/WillyGrv/Wedding-M-W/internal/models"
	"github.com/WillyGrv/Wedding-M-W/internal/repositories"
	"github.com/WillyGrv/Wedding-M-W/internal/services"
	"github.com/WillyGrv/Wedding-M-W/internal/shared"
	"github.com/WillyGrv/Wedding-M-W/internal/tasks"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The store and searcher are built on first use so commands that need neither (setup config) never touch them.
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer

	store    models.RequestStore
	tokens   *services.TokenCache
	searcher *services.FallbackSearcher
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Store      models.RequestStore
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		store:      opts.Store,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, setupCommand, requestsCommand, searchCommand, tokenCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the config file (defaults when absent), applies environment overrides and sets the log level.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	r.configPath = cmd.String("config")

	if _, err := os.Stat(r.configPath); err == nil {
		config, err := shared.LoadConfig(r.configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
	} else if errors.Is(err, os.ErrNotExist) {
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
	} else {
		return ctx, fmt.Errorf("%w: %v", shared.ErrMissingConfig, err)
	}

	if err := r.config.ApplyEnv(cmd.String("env-file")); err != nil {
		return ctx, err
	}

	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	} else if err := shared.SetLogLevelString(r.logger, r.config.Server.LogLevel); err != nil {
		return ctx, err
	}
	return ctx, nil
}

// Store opens the configured request store once.
func (r *Runner) Store(ctx context.Context) (models.RequestStore, error) {
	if r.store != nil {
		return r.store, nil
	}

	store, err := repositories.Open(ctx, r.config.Store)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("request store opened", "driver", r.config.Store.Driver, "path", r.config.Store.Path)
	r.store = store
	return store, nil
}

// Gateway returns the organizer workflow over the configured store.
func (r *Runner) Gateway(ctx context.Context) (*tasks.AdminGateway, error) {
	store, err := r.Store(ctx)
	if err != nil {
		return nil, err
	}
	return tasks.NewAdminGateway(store, shared.WithLogger(r.logger, "component", "admin")), nil
}

// Searcher builds the catalog searcher with its local fallback. Without credentials only the fallback is used.
func (r *Runner) Searcher() *services.FallbackSearcher {
	if r.searcher != nil {
		return r.searcher
	}

	r.tokens = services.NewTokenCache(r.config.Catalog, r.httpClient)
	r.searcher = &services.FallbackSearcher{
		Fallback: services.NewLocalSearcher(r.config.Fallback.Dataset),
		Logger:   shared.WithLogger(r.logger, "component", "search"),
	}
	if r.tokens.Configured() {
		r.searcher.Primary = services.NewSpotifySearcher(r.config.Catalog, r.tokens, r.httpClient)
	} else {
		r.logger.Warn("catalog credentials not configured, search uses the local dataset only", "dataset", r.config.Fallback.Dataset)
	}
	return r.searcher
}

// Tokens returns the token cache used by [Runner.Searcher].
func (r *Runner) Tokens() *services.TokenCache {
	r.Searcher()
	return r.tokens
}

// Close releases the request store.
func (r *Runner) Close() error {
	if r.store == nil {
		return nil
	}
	err := r.store.Close()
	r.store = nil
	return err
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
