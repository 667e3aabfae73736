package tasks

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/WillyGrv/Wedding-M-W/internal/formatter"
	"github.com/WillyGrv/Wedding-M-W/internal/models"
	"github.com/WillyGrv/Wedding-M-W/internal/shared"
	"github.com/charmbracelet/log"
)

// AdminGateway applies organizer actions to the request store.
type AdminGateway struct {
	store  models.RequestStore
	logger *log.Logger
	now    func() time.Time
}

// NewAdminGateway creates a gateway over store. A nil logger discards output.
func NewAdminGateway(store models.RequestStore, logger *log.Logger) *AdminGateway {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &AdminGateway{store: store, logger: logger, now: time.Now}
}

// SetClock replaces the time source used for confirmation and manual-add timestamps.
func (g *AdminGateway) SetClock(now func() time.Time) {
	g.now = now
}

// List returns requests with the given status filter ("" for all).
func (g *AdminGateway) List(ctx context.Context, status string) ([]*models.TrackRequest, error) {
	s, err := models.ParseStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	return g.store.List(ctx, s)
}

// Confirm marks the request confirmed. Confirming twice succeeds and keeps the first confirmedAt.
func (g *AdminGateway) Confirm(ctx context.Context, uri string) (*models.TrackRequest, error) {
	uri, err := requireURI(uri)
	if err != nil {
		return nil, err
	}

	var already bool
	req, err := g.store.Transition(ctx, uri, func(r *models.TrackRequest) error {
		already = r.Confirmed()
		r.Confirm(g.now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !already {
		g.logger.Info("request confirmed", "uri", uri)
	}
	return req, nil
}

// MarkManualAdded records that the organizer added the track to the real playlist. Idempotent.
func (g *AdminGateway) MarkManualAdded(ctx context.Context, uri string) (*models.TrackRequest, error) {
	uri, err := requireURI(uri)
	if err != nil {
		return nil, err
	}

	var already bool
	req, err := g.store.Transition(ctx, uri, func(r *models.TrackRequest) error {
		already = r.ManualAdded()
		r.MarkManualAdded(g.now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !already {
		g.logger.Info("request marked as added", "uri", uri)
	}
	return req, nil
}

// Delete removes the request permanently.
func (g *AdminGateway) Delete(ctx context.Context, uri string) error {
	uri, err := requireURI(uri)
	if err != nil {
		return err
	}

	if err := g.store.Delete(ctx, uri); err != nil {
		return err
	}

	g.logger.Info("request deleted", "uri", uri)
	return nil
}

// Export writes the filtered request list in the given format to w, or to path when set.
func (g *AdminGateway) Export(ctx context.Context, w io.Writer, path, status string, f formatter.Format) (int, error) {
	requests, err := g.List(ctx, status)
	if err != nil {
		return 0, err
	}

	title := "Playlist requests"
	if status != "" {
		title = fmt.Sprintf("Playlist requests (%s)", strings.ToLower(strings.TrimSpace(status)))
	}

	if err := formatter.WriteExport(w, path, f, title, requests); err != nil {
		return 0, err
	}
	return len(requests), nil
}

func requireURI(uri string) (string, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return "", fmt.Errorf("%w: uri", shared.ErrMissingArgument)
	}
	return uri, nil
}
