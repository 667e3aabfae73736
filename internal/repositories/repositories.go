// package repositories provides persistence layer implementations of [models.RequestStore].
package repositories

import (
	"context"
	"fmt"

	"github.com/WillyGrv/Wedding-M-W/internal/models"
	"github.com/WillyGrv/Wedding-M-W/internal/shared"
)

// Open returns the request store selected by cfg.Driver.
//
// The sqlite driver runs pending migrations before returning.
func Open(ctx context.Context, cfg shared.StoreConfig) (models.RequestStore, error) {
	switch cfg.Driver {
	case "", "json":
		return NewJSONRequestRepository(cfg.Path)
	case "sqlite":
		db, err := shared.NewDatabase(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrStorage, err)
		}
		if _, err := shared.RunMigrationsContext(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: %v", shared.ErrStorage, err)
		}
		return NewSQLiteRequestRepository(db), nil
	default:
		return nil, fmt.Errorf("%w: unknown store driver %q", shared.ErrInvalidConfig, cfg.Driver)
	}
}

// checkTransition rejects mutations that would break request invariants:
// uri and ts are immutable, status only moves forward, and timestamps are set once.
func checkTransition(prev, next *models.TrackRequest) error {
	if err := next.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	switch {
	case next.URI != prev.URI:
		return fmt.Errorf("%w: uri is immutable", shared.ErrInvalidInput)
	case next.TS != prev.TS:
		return fmt.Errorf("%w: ts is immutable", shared.ErrInvalidInput)
	case prev.Confirmed() && !next.Confirmed():
		return fmt.Errorf("%w: status cannot return to %s", shared.ErrInvalidInput, models.StatusPending)
	case changedOnce(prev.ConfirmedAt, next.ConfirmedAt):
		return fmt.Errorf("%w: confirmedAt is already set", shared.ErrInvalidInput)
	case changedOnce(prev.ManualAddedAt, next.ManualAddedAt):
		return fmt.Errorf("%w: manualAddedAt is already set", shared.ErrInvalidInput)
	}

	return nil
}

func changedOnce(prev, next *int64) bool {
	return prev != nil && (next == nil || *next != *prev)
}
