// package models defines the data model for the playlist request service
package models

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Status is the review state of a [TrackRequest].
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
)

// TrackURIPrefix starts every catalog track URI.
const TrackURIPrefix = "spotify:track:"

// ParseStatus validates a status filter. The empty string means "any status".
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return "", nil
	case StatusPending:
		return StatusPending, nil
	case StatusConfirmed:
		return StatusConfirmed, nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}

// TrackSnapshot is display metadata captured at submission time.
type TrackSnapshot struct {
	Name     string   `json:"name,omitempty"`
	Artists  []string `json:"artists,omitempty"`
	Album    string   `json:"album,omitempty"`
	ImageURL string   `json:"imageUrl,omitempty"`
}

// Empty reports whether the snapshot carries no displayable data.
func (s *TrackSnapshot) Empty() bool {
	return s == nil || (s.Name == "" && len(s.Artists) == 0 && s.Album == "" && s.ImageURL == "")
}

// TrackRequest is a guest's song proposal. Timestamps are epoch milliseconds.
type TrackRequest struct {
	URI           string         `json:"uri"`
	Status        Status         `json:"status"`
	TS            int64          `json:"ts"`
	ConfirmedAt   *int64         `json:"confirmedAt,omitempty"`
	ManualAddedAt *int64         `json:"manualAddedAt,omitempty"`
	Track         *TrackSnapshot `json:"track,omitempty"`
	IP            string         `json:"ip,omitempty"`
}

// NewTrackRequest creates a pending request created at now.
func NewTrackRequest(uri string, track *TrackSnapshot, ip string, now time.Time) *TrackRequest {
	if track.Empty() {
		track = nil
	}
	return &TrackRequest{
		URI:    uri,
		Status: StatusPending,
		TS:     now.UnixMilli(),
		Track:  track,
		IP:     ip,
	}
}

// Confirm moves the request to [StatusConfirmed]. The first confirmation time is kept on repeats.
func (r *TrackRequest) Confirm(now time.Time) {
	r.Status = StatusConfirmed
	if r.ConfirmedAt == nil {
		ms := now.UnixMilli()
		r.ConfirmedAt = &ms
	}
}

// MarkManualAdded records when the organizer added the track to the real playlist. Set once.
func (r *TrackRequest) MarkManualAdded(now time.Time) {
	if r.ManualAddedAt == nil {
		ms := now.UnixMilli()
		r.ManualAddedAt = &ms
	}
}

// Confirmed reports whether the request has been confirmed.
func (r *TrackRequest) Confirmed() bool {
	return r.Status == StatusConfirmed
}

// ManualAdded reports whether the organizer marked the track as added.
func (r *TrackRequest) ManualAdded() bool {
	return r.ManualAddedAt != nil
}

// Created returns the creation timestamp as a [time.Time].
func (r *TrackRequest) Created() time.Time {
	return time.UnixMilli(r.TS)
}

// Validate checks if the request's data is valid and returns an error if not.
func (r *TrackRequest) Validate() error {
	if r.URI == "" {
		return fmt.Errorf("uri is required")
	}
	switch r.Status {
	case StatusPending, StatusConfirmed:
	default:
		return fmt.Errorf("invalid status %q", r.Status)
	}
	if r.TS <= 0 {
		return fmt.Errorf("ts is required")
	}
	return nil
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (r *TrackRequest) Clone() *TrackRequest {
	c := *r
	if r.ConfirmedAt != nil {
		v := *r.ConfirmedAt
		c.ConfirmedAt = &v
	}
	if r.ManualAddedAt != nil {
		v := *r.ManualAddedAt
		c.ManualAddedAt = &v
	}
	if r.Track != nil {
		t := *r.Track
		t.Artists = append([]string(nil), r.Track.Artists...)
		c.Track = &t
	}
	return &c
}

// TrackSummary is a normalized search result.
type TrackSummary struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []string `json:"artists"`
	Album      string   `json:"album"`
	ImageURL   string   `json:"imageUrl"`
	PreviewURL string   `json:"previewUrl,omitempty"`
	URI        string   `json:"uri"`
}

// Mutator changes a stored request in place during [RequestStore.Transition].
type Mutator func(*TrackRequest) error

// RequestStore defines persistence for track requests.
//
// Mutations (Insert, Transition, Delete) are totally ordered; List and Get observe a consistent snapshot.
type RequestStore interface {
	List(ctx context.Context, status Status) ([]*TrackRequest, error)              // List returns requests matching status ("" for all) in insertion order
	Get(ctx context.Context, uri string) (*TrackRequest, error)                    // Get returns a single request or shared.ErrNotFound
	Insert(ctx context.Context, req *TrackRequest) error                           // Insert adds a request or fails with shared.ErrConflict
	Transition(ctx context.Context, uri string, fn Mutator) (*TrackRequest, error) // Transition applies fn to an existing request
	Delete(ctx context.Context, uri string) error                                  // Delete removes a request or fails with shared.ErrNotFound
	Close() error                                                                  // Close releases underlying resources
}
