package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/WillyGrv/Wedding-M-W/internal/models"
	"github.com/WillyGrv/Wedding-M-W/internal/shared"
)

// DatasetTrack is one record of the local fallback dataset.
type DatasetTrack struct {
	ID         string   `json:"track_id,omitempty"`
	Name       string   `json:"track_name"`
	Artists    []string `json:"track_artists"`
	Album      string   `json:"track_album,omitempty"`
	ImageURL   string   `json:"track_image,omitempty"`
	PreviewURL string   `json:"track_preview_url,omitempty"`
	URI        string   `json:"track_uri,omitempty"`
}

// Summary normalizes the record to the same shape as catalog results.
func (d DatasetTrack) Summary() models.TrackSummary {
	s := models.TrackSummary{
		ID:         d.ID,
		Name:       d.Name,
		Artists:    append([]string{}, d.Artists...),
		Album:      d.Album,
		ImageURL:   d.ImageURL,
		PreviewURL: d.PreviewURL,
		URI:        d.URI,
	}
	if s.URI == "" && s.ID != "" {
		s.URI = models.TrackURIPrefix + s.ID
	}
	if s.ID == "" {
		s.ID, _ = strings.CutPrefix(s.URI, models.TrackURIPrefix)
	}
	return s
}

func (d DatasetTrack) matches(needle string) bool {
	return strings.Contains(strings.ToLower(d.Name), needle) ||
		strings.Contains(strings.ToLower(strings.Join(d.Artists, ", ")), needle)
}

// LocalSearcher searches a JSON array of [DatasetTrack] on disk.
//
// The file is re-read when its modification time changes.
type LocalSearcher struct {
	path string

	mu      sync.Mutex
	modTime time.Time
	tracks  []DatasetTrack
}

// NewLocalSearcher creates a searcher over the dataset at path. The file is not read until the first search.
func NewLocalSearcher(path string) *LocalSearcher {
	return &LocalSearcher{path: path}
}

func (l *LocalSearcher) Name() string {
	return "local"
}

// Search returns dataset tracks whose name or joined artists contain query, case-insensitively, in file order.
func (l *LocalSearcher) Search(ctx context.Context, query string, limit int) ([]models.TrackSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tracks, err := l.load()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	limit = ClampLimit(limit)

	items := make([]models.TrackSummary, 0, min(limit, len(tracks)))
	for _, t := range tracks {
		if len(items) == limit {
			break
		}
		if t.matches(needle) {
			items = append(items, t.Summary())
		}
	}
	return items, nil
}

func (l *LocalSearcher) load() ([]DatasetTrack, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	info, err := os.Stat(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: dataset %s: %v", shared.ErrStorage, l.path, err)
	}
	if l.tracks != nil && info.ModTime().Equal(l.modTime) {
		return l.tracks, nil
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: dataset %s: %v", shared.ErrStorage, l.path, err)
	}

	var tracks []DatasetTrack
	if err := json.Unmarshal(data, &tracks); err != nil {
		return nil, fmt.Errorf("%w: dataset %s is not a JSON array of tracks: %v", shared.ErrStorage, l.path, err)
	}
	if tracks == nil {
		tracks = []DatasetTrack{}
	}

	l.tracks = tracks
	l.modTime = info.ModTime()
	return tracks, nil
}
