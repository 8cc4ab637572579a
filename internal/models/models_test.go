package models

import (
	"path/filepath"
	"testing"
	"time"
)

func TestTarget(t *testing.T) {
	t.Run("TrackTarget", func(t *testing.T) {
		folder := PlaylistFolder("music", "Road Trip")
		if folder != filepath.Join("music", "Road Trip") {
			t.Errorf("unexpected folder %s", folder)
		}

		target := TrackTarget(folder, Track{Title: "Song: Title?", Artist: "A/B"}, "mp3")
		if target.Stem != "Song Title by AB" {
			t.Errorf("unexpected stem %q", target.Stem)
		}
		if target.Path() != filepath.Join("music", "Road Trip", "Song Title by AB.mp3") {
			t.Errorf("unexpected path %s", target.Path())
		}
	})

	t.Run("PlaylistFolder keeps the raw name", func(t *testing.T) {
		tc := []struct {
			name string
			want string
		}{
			{"Today's Top Hits", filepath.Join("music", "Today's Top Hits")},
			{"Road: Trip?", filepath.Join("music", "Road: Trip?")},
			{"AC/DC", filepath.Join("music", "ACDC")},
			{"..", filepath.Join("music", "untitled")},
		}
		for _, tt := range tc {
			if got := PlaylistFolder("music", tt.name); got != tt.want {
				t.Errorf("PlaylistFolder(%q) = %q, want %q", tt.name, got, tt.want)
			}
		}
	})

	t.Run("Label", func(t *testing.T) {
		if got := (Track{Title: "Song", Artist: "Artist"}).Label(); got != "Song by Artist" {
			t.Errorf("unexpected label %q", got)
		}
	})
}

func TestPersistedTrack(t *testing.T) {
	tc := []struct {
		name    string
		track   *PersistedTrack
		id      string
		wantErr bool
	}{
		{
			name:  "valid",
			track: NewPersistedTrack(1, "spotify", "sp1", Track{Title: "Song", Artist: "Artist"}),
			id:    "id1",
		},
		{
			name:    "missing id",
			track:   NewPersistedTrack(1, "spotify", "sp1", Track{Title: "Song"}),
			wantErr: true,
		},
		{
			name:    "missing service id",
			track:   NewPersistedTrack(1, "spotify", "", Track{Title: "Song"}),
			id:      "id1",
			wantErr: true,
		},
		{
			name:    "missing title",
			track:   NewPersistedTrack(1, "spotify", "sp1", Track{}),
			id:      "id1",
			wantErr: true,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			tt.track.SetID(tt.id)
			err := tt.track.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSyncRun(t *testing.T) {
	t.Run("Lifecycle", func(t *testing.T) {
		run := NewSyncRun(1, "pl1", "Mix")
		run.SetID("run1")
		if run.Status() != SyncPending {
			t.Errorf("expected pending, got %s", run.Status())
		}

		now := time.Now()
		run.Start(now)
		if run.Status() != SyncRunning || run.StartedAt() == nil {
			t.Errorf("expected running with start time")
		}

		run.SetCounts(3, 1, 1, 1)
		run.Finish(SyncCompleted, now.Add(time.Second))
		if err := run.Validate(); err != nil {
			t.Errorf("unexpected validation error: %v", err)
		}
		if run.CompletedAt() == nil || run.Status() != SyncCompleted {
			t.Errorf("expected completed run")
		}
	})

	t.Run("Invalid Counts", func(t *testing.T) {
		run := NewSyncRun(1, "pl1", "Mix")
		run.SetID("run1")
		run.SetCounts(1, 1, 1, 0)
		if err := run.Validate(); err == nil {
			t.Error("expected error when counts exceed total")
		}
	})

	t.Run("Invalid Status", func(t *testing.T) {
		run := NewSyncRun(1, "pl1", "Mix")
		run.SetID("run1")
		run.SetStatus("bogus")
		if err := run.Validate(); err == nil {
			t.Error("expected error for unknown status")
		}
	})
}
