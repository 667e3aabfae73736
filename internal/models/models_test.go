package models

import (
	"testing"
	"time"
)

func TestParseStatus(t *testing.T) {
	tt := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{in: "", want: ""},
		{in: "pending", want: StatusPending},
		{in: " Confirmed ", want: StatusConfirmed},
		{in: "deleted", wantErr: true},
	}

	for _, tc := range tt {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseStatus(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseStatus(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("ParseStatus(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTrackRequest(t *testing.T) {
	created := time.UnixMilli(1_000)

	t.Run("NewTrackRequest", func(t *testing.T) {
		req := NewTrackRequest("spotify:track:1", &TrackSnapshot{}, "::1", created)

		if req.Status != StatusPending || req.TS != 1_000 {
			t.Errorf("unexpected new request: %+v", req)
		}
		if req.Track != nil {
			t.Error("expected empty snapshot to be dropped")
		}
		if err := req.Validate(); err != nil {
			t.Errorf("expected valid request, got %v", err)
		}
	})

	t.Run("Confirm Keeps First Timestamp", func(t *testing.T) {
		req := NewTrackRequest("spotify:track:1", nil, "", created)
		req.Confirm(time.UnixMilli(2_000))
		req.Confirm(time.UnixMilli(3_000))

		if !req.Confirmed() || *req.ConfirmedAt != 2_000 {
			t.Errorf("expected confirmedAt 2000, got %+v", req.ConfirmedAt)
		}
		if req.ManualAdded() {
			t.Error("confirm must not set manualAddedAt")
		}
	})

	t.Run("MarkManualAdded Is Independent Of Status", func(t *testing.T) {
		req := NewTrackRequest("spotify:track:1", nil, "", created)
		req.MarkManualAdded(time.UnixMilli(4_000))
		req.MarkManualAdded(time.UnixMilli(5_000))

		if req.Confirmed() {
			t.Error("manual add must not confirm")
		}
		if *req.ManualAddedAt != 4_000 {
			t.Errorf("expected manualAddedAt 4000, got %d", *req.ManualAddedAt)
		}
	})

	t.Run("Clone Is Deep", func(t *testing.T) {
		req := NewTrackRequest("spotify:track:1", &TrackSnapshot{Name: "Song", Artists: []string{"A"}}, "", created)
		req.Confirm(created)

		c := req.Clone()
		c.Track.Artists[0] = "B"
		*c.ConfirmedAt = 0

		if req.Track.Artists[0] != "A" || *req.ConfirmedAt == 0 {
			t.Error("expected clone mutations not to leak")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		bad := []*TrackRequest{
			{Status: StatusPending, TS: 1},
			{URI: "x", Status: "archived", TS: 1},
			{URI: "x", Status: StatusPending},
		}
		for _, req := range bad {
			if err := req.Validate(); err == nil {
				t.Errorf("expected validation error for %+v", req)
			}
		}
	})
}
