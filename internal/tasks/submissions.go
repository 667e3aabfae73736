package tasks

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/WillyGrv/Wedding-M-W/internal/models"
	"github.com/WillyGrv/Wedding-M-W/internal/shared"
	"github.com/charmbracelet/log"
)

var trackURIPattern = regexp.MustCompile(`^` + regexp.QuoteMeta(models.TrackURIPrefix) + `[A-Za-z0-9]{1,64}$`)

// Submissions records guest proposals.
type Submissions struct {
	store  models.RequestStore
	strict bool
	logger *log.Logger
	now    func() time.Time
}

// NewSubmissions creates a submission handler. With strict set, only catalog track URIs are accepted.
func NewSubmissions(store models.RequestStore, strict bool, logger *log.Logger) *Submissions {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Submissions{store: store, strict: strict, logger: logger, now: time.Now}
}

// SetClock replaces the time source used for request creation.
func (s *Submissions) SetClock(now func() time.Time) {
	s.now = now
}

// Submit validates uri and records a pending request.
//
// A second submission of the same uri fails with [shared.ErrConflict] and leaves the first untouched.
func (s *Submissions) Submit(ctx context.Context, uri string, track *models.TrackSnapshot, ip string) (*models.TrackRequest, error) {
	uri, err := requireURI(uri)
	if err != nil {
		return nil, err
	}
	if s.strict && !ValidTrackURI(uri) {
		return nil, fmt.Errorf("%w: %q is not a track URI", shared.ErrInvalidInput, uri)
	}

	req := models.NewTrackRequest(uri, track, ip, s.now())
	if err := s.store.Insert(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info("track requested", "uri", uri)
	return req, nil
}

// ValidTrackURI reports whether uri has the form spotify:track:<id>.
func ValidTrackURI(uri string) bool {
	return trackURIPattern.MatchString(uri)
}
