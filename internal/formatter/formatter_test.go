package formatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/WillyGrv/Wedding-M-W/internal/models"
	"github.com/WillyGrv/Wedding-M-W/internal/shared"
	th "github.com/WillyGrv/Wedding-M-W/internal/testing"
)

func sampleRequests() []*models.TrackRequest {
	base := time.Date(2025, 6, 14, 18, 0, 0, 0, time.UTC)

	first := models.NewTrackRequest("spotify:track:111", &models.TrackSnapshot{
		Name:    "Imagine",
		Artists: []string{"John Lennon"},
		Album:   "Imagine",
	}, "10.0.0.1", base)
	first.Confirm(base.Add(time.Hour))
	first.MarkManualAdded(base.Add(2 * time.Hour))

	second := models.NewTrackRequest("spotify:track:222", &models.TrackSnapshot{
		Name:    "Dancing Queen",
		Artists: []string{"ABBA", "Benny Andersson"},
	}, "", base.Add(time.Minute))

	third := models.NewTrackRequest("spotify:track:333", nil, "", base.Add(2*time.Minute))

	return []*models.TrackRequest{first, second, third}
}

func TestExporters(t *testing.T) {
	requests := sampleRequests()

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(requests)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		lines := strings.Split(strings.TrimSpace(output), "\n")
		if len(lines) != 4 {
			t.Fatalf("expected header and 3 rows, got %d lines", len(lines))
		}

		if lines[0] != "URI,Status,Name,Artists,Album,Requested,Confirmed,ManualAdded" {
			t.Errorf("CSV missing headers, got: %s", lines[0])
		}
		if !strings.Contains(lines[1], "2025-06-14T19:00:00Z") {
			t.Errorf("CSV missing confirmation time, got: %s", lines[1])
		}
		if !strings.Contains(lines[2], `"ABBA, Benny Andersson"`) {
			t.Errorf("CSV should quote joined artists, got: %s", lines[2])
		}
		if !strings.HasPrefix(lines[3], "spotify:track:333,pending,spotify:track:333,Unknown artist") {
			t.Errorf("CSV should fall back to the URI, got: %s", lines[3])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown("Wedding Playlist", requests)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Wedding Playlist",
			"**Requests**: 3",
			"**Confirmed**: 1",
			"- [x] John Lennon - Imagine (Imagine) `spotify:track:111` _confirmed_",
			"- [ ] ABBA, Benny Andersson - Dancing Queen `spotify:track:222` _pending_",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText("Wedding Playlist", requests)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "Playlist: Wedding Playlist\nRequests: 3\n\n") {
			t.Errorf("Text missing header, got:\n%s", output)
		}
		if !strings.Contains(output, "2. ABBA, Benny Andersson - Dancing Queen [pending] spotify:track:222") {
			t.Errorf("Text missing second request, got:\n%s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(requests)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded []map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(decoded) != 3 || decoded[0]["uri"] != "spotify:track:111" || decoded[0]["status"] != "confirmed" {
			t.Errorf("unexpected JSON %v", decoded)
		}

		empty, _ := ExportToJSON(nil)
		if strings.TrimSpace(string(empty)) != "[]" {
			t.Errorf("expected empty array, got %s", empty)
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{"MD", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"text", FormatText, false},
		{"", FormatJSON, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestWriteExport(t *testing.T) {
	requests := sampleRequests()

	t.Run("To Writer", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteExport(&buf, "", FormatText, "Wedding", requests); err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if !strings.Contains(buf.String(), "Playlist: Wedding") {
			t.Errorf("unexpected output %s", buf.String())
		}
	})

	t.Run("To File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "requests.csv")
		if err := WriteExport(nil, path, FormatCSV, "Wedding", requests); err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		th.AssertFileExists(t, path)
		if !strings.Contains(th.MustReadFile(t, path), "spotify:track:111") {
			t.Error("export file missing request")
		}
	})

	t.Run("Write Failure", func(t *testing.T) {
		if err := WriteExport(&th.FWriter{}, "", FormatJSON, "Wedding", requests); err == nil {
			t.Error("expected write error")
		}
	})

	t.Run("Unknown Format", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteExport(&buf, "", Format("xml"), "Wedding", requests); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}
