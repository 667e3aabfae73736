package main

import (
	"context"
	"fmt"

	"github.com/WillyGrv/Wedding-M-W/internal/repositories"
	"github.com/WillyGrv/Wedding-M-W/internal/shared"
	"github.com/WillyGrv/Wedding-M-W/internal/ui"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example config to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	if err := shared.CreateConfigFile(r.configPath); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", r.configPath)
	return r.writePlain("%s config written to %s\n", ui.Styles.OK("✓"), r.configPath)
}

// SetupDatabase initializes the request store. For sqlite it runs pending migrations and reports them,
// or with --rollback reverts the most recent one.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Store
	rollback := cmd.Bool("rollback")
	if rollback && cfg.Driver != "sqlite" {
		return fmt.Errorf("%w: --rollback requires the sqlite store driver", shared.ErrInvalidArgument)
	}

	r.logger.Info("initializing request store", "driver", cfg.Driver, "path", cfg.Path)

	if cfg.Driver != "sqlite" {
		store, err := repositories.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		return r.writePlain("%s request store ready at %s\n", ui.Styles.OK("✓"), cfg.Path)
	}

	db, err := shared.NewDatabase(cfg.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	if rollback {
		version, err := shared.RollbackMigration(ctx, db)
		if err != nil {
			return err
		}
		r.logger.Warn("migration rolled back", "version", version, "path", cfg.Path)
		return r.writePlain("%s rolled back migration %04d on %s\n", ui.Styles.Warn("↺"), version, cfg.Path)
	}

	r.logger.Info("running database migrations")
	applied, err := shared.RunMigrationsContext(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", cfg.Path)
	return r.writePlain("%s database ready at %s (%d migrations applied)\n", ui.Styles.OK("✓"), cfg.Path, len(applied))
}
