package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/WillyGrv/Wedding-M-W/internal/models"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const maxCell = 32

// StatusBadge renders a request's status, with a check mark once it was added by hand.
func (p *Palette) StatusBadge(r *models.TrackRequest) string {
	badge := p.warn.Render(string(r.Status))
	if r.Confirmed() {
		badge = p.ok.Render(string(r.Status))
	}
	if r.ManualAdded() {
		badge += " " + p.ok.Render("✓")
	}
	return badge
}

// RequestsTable renders requests as a bordered table for the organizer.
func (p *Palette) RequestsTable(requests []*models.TrackRequest) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.help).
		Headers("#", "TRACK", "ARTISTS", "STATUS", "REQUESTED", "URI")

	for i, r := range requests {
		name, artists := r.URI, ""
		if r.Track != nil && r.Track.Name != "" {
			name = r.Track.Name
			artists = strings.Join(r.Track.Artists, ", ")
		}

		t.Row(
			fmt.Sprint(i+1),
			truncate(name, maxCell),
			truncate(artists, maxCell),
			p.StatusBadge(r),
			r.Created().Local().Format(time.DateTime),
			r.URI,
		)
	}

	return t.Render()
}

// Summary renders the "N requests (P pending, C confirmed)" line.
func (p *Palette) Summary(requests []*models.TrackRequest) string {
	var confirmed int
	for _, r := range requests {
		if r.Confirmed() {
			confirmed++
		}
	}
	return p.help.Render(fmt.Sprintf("%d requests (%d pending, %d confirmed)", len(requests), len(requests)-confirmed, confirmed))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
