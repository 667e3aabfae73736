package services

import (
	"context"
	"strings"

	"github.com/WillyGrv/Wedding-M-W/internal/models"
	"github.com/charmbracelet/log"
)

// FallbackSearcher tries Primary and answers from Fallback when Primary is nil or fails.
type FallbackSearcher struct {
	Primary  Searcher
	Fallback Searcher
	Logger   *log.Logger
}

func (f *FallbackSearcher) Name() string {
	if f.Primary == nil {
		return f.Fallback.Name()
	}
	return f.Primary.Name() + "+" + f.Fallback.Name()
}

// Search trims query and clamps limit before contacting any backend.
//
// Queries shorter than [MinQueryLength] return an empty list. Primary failures of any kind are logged and
// never reach the caller; only a Fallback failure is returned.
func (f *FallbackSearcher) Search(ctx context.Context, query string, limit int) ([]models.TrackSummary, error) {
	query = strings.TrimSpace(query)
	if tooShort(query) {
		return []models.TrackSummary{}, nil
	}
	limit = ClampLimit(limit)

	if f.Primary != nil {
		items, err := f.Primary.Search(ctx, query, limit)
		if err == nil {
			return items, nil
		}
		if f.Logger != nil {
			f.Logger.Warn("catalog search failed, using local dataset", "searcher", f.Primary.Name(), "query", query, "error", err)
		}
	}

	return f.Fallback.Search(ctx, query, limit)
}
