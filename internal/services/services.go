package services

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/WillyGrv/Wedding-M-W/internal/models"
)

const (
	// MinQueryLength is the shortest trimmed query that reaches any backend.
	MinQueryLength = 2
	DefaultLimit   = 10
	MaxLimit       = 50
)

// Searcher answers track search queries.
type Searcher interface {
	// Search returns at most limit tracks matching query, best match first.
	Search(ctx context.Context, query string, limit int) ([]models.TrackSummary, error)

	// Name returns the name of the backend (e.g., "Spotify", "local")
	Name() string
}

// TokenProvider supplies bearer tokens for catalog requests.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// ParseLimit converts a raw limit parameter, falling back to [DefaultLimit] when it is absent or not a number.
func ParseLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultLimit
	}
	return ClampLimit(n)
}

// ClampLimit bounds limit to [1, MaxLimit]; non-positive values become [DefaultLimit].
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// tooShort reports whether a trimmed query is below [MinQueryLength] characters.
func tooShort(query string) bool {
	return utf8.RuneCountInString(query) < MinQueryLength
}
