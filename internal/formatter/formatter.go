// package formatter exports track request lists to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/WillyGrv/Wedding-M-W/internal/models"
	"github.com/WillyGrv/Wedding-M-W/internal/shared"
)

// Format names an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
)

// ParseFormat accepts a format name or a common alias ("md", "text").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "json", "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q (csv, markdown, txt, json)", shared.ErrInvalidArgument, s)
	}
}

// Export renders requests in format f.
func Export(f Format, title string, requests []*models.TrackRequest) ([]byte, error) {
	switch f {
	case FormatCSV:
		return ExportToCSV(requests)
	case FormatMarkdown:
		return ExportToMarkdown(title, requests)
	case FormatText:
		return ExportToText(title, requests)
	case FormatJSON:
		return ExportToJSON(requests)
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, f)
	}
}

// WriteExport renders requests and writes them to path, or to w when path is empty.
func WriteExport(w io.Writer, path string, f Format, title string, requests []*models.TrackRequest) error {
	data, err := Export(f, title, requests)
	if err != nil {
		return err
	}

	if path == "" {
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

// ExportToCSV converts requests to CSV with columns: URI, Status, Name, Artists, Album, Requested, Confirmed, ManualAdded
func ExportToCSV(requests []*models.TrackRequest) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"URI", "Status", "Name", "Artists", "Album", "Requested", "Confirmed", "ManualAdded"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range requests {
		name, artists, album := describe(r)
		record := []string{
			r.URI,
			string(r.Status),
			name,
			artists,
			album,
			FormatMillis(&r.TS),
			FormatMillis(r.ConfirmedAt),
			FormatMillis(r.ManualAddedAt),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a checklist: checked items have been added to the real playlist by hand.
func ExportToMarkdown(title string, requests []*models.TrackRequest) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", title)

	confirmed := 0
	for _, r := range requests {
		if r.Confirmed() {
			confirmed++
		}
	}
	fmt.Fprintf(&buf, "**Requests**: %d\n", len(requests))
	fmt.Fprintf(&buf, "**Confirmed**: %d\n\n", confirmed)

	buf.WriteString("## Tracks\n\n")
	for _, r := range requests {
		name, artists, album := describe(r)
		box := " "
		if r.ManualAdded() {
			box = "x"
		}

		albumPart := ""
		if album != "" {
			albumPart = fmt.Sprintf(" (%s)", album)
		}
		fmt.Fprintf(&buf, "- [%s] %s - %s%s `%s` _%s_\n", box, artists, name, albumPart, r.URI, r.Status)
	}

	return buf.Bytes(), nil
}

// ExportToText converts requests to a numbered plain text list
func ExportToText(title string, requests []*models.TrackRequest) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", title)
	fmt.Fprintf(&buf, "Requests: %d\n\n", len(requests))

	for i, r := range requests {
		name, artists, _ := describe(r)
		fmt.Fprintf(&buf, "%d. %s - %s [%s] %s\n", i+1, artists, name, r.Status, r.URI)
	}

	return buf.Bytes(), nil
}

// ExportToJSON renders requests exactly as the store persists them.
func ExportToJSON(requests []*models.TrackRequest) ([]byte, error) {
	if requests == nil {
		requests = []*models.TrackRequest{}
	}
	data, err := json.MarshalIndent(requests, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal requests: %w", err)
	}
	return append(data, '\n'), nil
}

// FormatMillis renders an epoch-millisecond timestamp as RFC 3339 UTC, or "" when unset.
func FormatMillis(ms *int64) string {
	if ms == nil || *ms == 0 {
		return ""
	}
	return time.UnixMilli(*ms).UTC().Format(time.RFC3339)
}

// describe returns display name, artists and album, falling back to the URI when no snapshot was submitted.
func describe(r *models.TrackRequest) (name, artists, album string) {
	if r.Track == nil || r.Track.Name == "" {
		return r.URI, "Unknown artist", ""
	}

	artists = strings.Join(r.Track.Artists, ", ")
	if artists == "" {
		artists = "Unknown artist"
	}
	return r.Track.Name, artists, r.Track.Album
}
