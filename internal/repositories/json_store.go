package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/WillyGrv/Wedding-M-W/internal/models"
	"github.com/WillyGrv/Wedding-M-W/internal/shared"
)

// JSONRequestRepository implements [models.RequestStore] on a single JSON array file.
//
// Every mutation is a full load-modify-save cycle performed while holding mu, so concurrent
// mutations apply in some serial order and none is lost. Saves write a temporary file and
// rename it over the collection, so readers (which do not take mu) always see a complete
// pre- or post-mutation snapshot.
type JSONRequestRepository struct {
	path string
	mu   sync.Mutex
}

// NewJSONRequestRepository opens the collection at path, creating an empty one if it does not exist.
func NewJSONRequestRepository(path string) (*JSONRequestRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create data directory: %v", shared.ErrStorage, err)
	}

	r := &JSONRequestRepository{path: path}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := r.save(nil); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}

	return r, nil
}

// Path returns the collection file location.
func (r *JSONRequestRepository) Path() string {
	return r.path
}

// List returns requests matching status ("" for all) in insertion order.
func (r *JSONRequestRepository) List(ctx context.Context, status models.Status) ([]*models.TrackRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := r.load()
	if err != nil {
		return nil, err
	}

	items := make([]*models.TrackRequest, 0, len(entries))
	for _, e := range entries {
		if status != "" && e.Status != status {
			continue
		}
		items = append(items, e)
	}
	return items, nil
}

// Get returns the request stored under uri.
func (r *JSONRequestRepository) Get(ctx context.Context, uri string) (*models.TrackRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := r.load()
	if err != nil {
		return nil, err
	}

	if i := indexOf(entries, uri); i >= 0 {
		return entries[i], nil
	}
	return nil, fmt.Errorf("%w: %s", shared.ErrNotFound, uri)
}

// Insert appends req, rejecting a uri that is already stored.
func (r *JSONRequestRepository) Insert(ctx context.Context, req *models.TrackRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	return r.mutate(ctx, func(entries []*models.TrackRequest) ([]*models.TrackRequest, error) {
		if indexOf(entries, req.URI) >= 0 {
			return nil, fmt.Errorf("%w: %s", shared.ErrConflict, req.URI)
		}
		return append(entries, req.Clone()), nil
	})
}

// Transition applies fn to the request stored under uri and persists the result.
//
// fn receives a copy; if it returns an error nothing is written.
func (r *JSONRequestRepository) Transition(ctx context.Context, uri string, fn models.Mutator) (*models.TrackRequest, error) {
	var updated *models.TrackRequest

	err := r.mutate(ctx, func(entries []*models.TrackRequest) ([]*models.TrackRequest, error) {
		i := indexOf(entries, uri)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", shared.ErrNotFound, uri)
		}

		next := entries[i].Clone()
		if err := fn(next); err != nil {
			return nil, err
		}
		if err := checkTransition(entries[i], next); err != nil {
			return nil, err
		}

		entries[i] = next
		updated = next.Clone()
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the request stored under uri.
func (r *JSONRequestRepository) Delete(ctx context.Context, uri string) error {
	return r.mutate(ctx, func(entries []*models.TrackRequest) ([]*models.TrackRequest, error) {
		i := indexOf(entries, uri)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", shared.ErrNotFound, uri)
		}
		return append(entries[:i], entries[i+1:]...), nil
	})
}

// Close is a no-op; the file is not held open between operations.
func (r *JSONRequestRepository) Close() error {
	return nil
}

// mutate runs one serialized read-modify-write cycle.
func (r *JSONRequestRepository) mutate(ctx context.Context, fn func([]*models.TrackRequest) ([]*models.TrackRequest, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := r.load()
	if err != nil {
		return err
	}

	next, err := fn(entries)
	if err != nil {
		return err
	}

	return r.save(next)
}

func (r *JSONRequestRepository) load() ([]*models.TrackRequest, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", shared.ErrStorage, r.path, err)
	}

	var entries []*models.TrackRequest
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", shared.ErrStorage, r.path, err)
	}

	for i, e := range entries {
		if e == nil || e.URI == "" {
			return nil, fmt.Errorf("%w: %s: entry %d has no uri", shared.ErrStorage, r.path, i)
		}
		// Entries written before statuses existed carry only uri, ts and ip.
		if e.Status == "" {
			e.Status = models.StatusPending
		}
	}
	return entries, nil
}

func (r *JSONRequestRepository) save(entries []*models.TrackRequest) error {
	if entries == nil {
		entries = []*models.TrackRequest{}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to encode requests: %v", shared.ErrStorage, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), "."+filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file: %v", shared.ErrStorage, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: failed to write requests: %v", shared.ErrStorage, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: failed to sync requests: %v", shared.ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: failed to close temp file: %v", shared.ErrStorage, err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("%w: failed to replace %s: %v", shared.ErrStorage, r.path, err)
	}
	return nil
}

func indexOf(entries []*models.TrackRequest, uri string) int {
	for i, e := range entries {
		if e.URI == uri {
			return i
		}
	}
	return -1
}
