package repositories

import (
	"database/sql"
	"testing"
	"time"

	"github.com/desertthunder/tapedeck/internal/models"
	"github.com/desertthunder/tapedeck/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func sampleTrack(id string) models.Track {
	return models.Track{
		ID:       id,
		Title:    "Test Song",
		Artist:   "Test Artist",
		Album:    "Test Album",
		CoverURL: "https://i.scdn.co/image/" + id,
	}
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "tracks")
		if err != nil {
			t.Fatalf("failed to get sequence: %v", err)
		}
		if got != want {
			t.Errorf("expected %d, got %d", want, got)
		}
	}

	if _, err := NextSequence(db, "missing"); err == nil {
		t.Error("expected error for unknown sequence table")
	}
}

func TestTrackRepository(t *testing.T) {
	t.Run("Create & Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		track := models.NewPersistedTrack(0, "spotify", "spotify123", sampleTrack("spotify123"))

		if err := repo.Create(track); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}

		if track.ID() == "" || track.Sequence() != 1 {
			t.Errorf("expected ID and sequence to be set, got %q/%d", track.ID(), track.Sequence())
		}

		retrieved, err := repo.Get(track.ID())
		if err != nil {
			t.Fatalf("failed to get track: %v", err)
		}

		if retrieved.Track() != sampleTrack("spotify123") {
			t.Errorf("unexpected track %+v", retrieved.Track())
		}
		if retrieved.Sequence() != 1 || retrieved.Service() != "spotify" {
			t.Errorf("unexpected metadata %d %s", retrieved.Sequence(), retrieved.Service())
		}
	})

	t.Run("GetByServiceID", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		if err := repo.Create(models.NewPersistedTrack(0, "spotify", "abc", sampleTrack("abc"))); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}

		retrieved, err := repo.GetByServiceID("spotify", "abc")
		if err != nil {
			t.Fatalf("failed to get track: %v", err)
		}
		if retrieved.CoverURL() != "https://i.scdn.co/image/abc" {
			t.Errorf("unexpected cover url %s", retrieved.CoverURL())
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		track := models.NewPersistedTrack(0, "spotify", "abc", sampleTrack("abc"))
		if err := repo.Create(track); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}

		changed := sampleTrack("abc")
		changed.Album = "Deluxe Edition"
		updated := models.NewPersistedTrack(track.Sequence(), "spotify", "abc", changed)
		updated.SetID(track.ID())

		if err := repo.Update(updated); err != nil {
			t.Fatalf("failed to update track: %v", err)
		}

		retrieved, err := repo.Get(track.ID())
		if err != nil {
			t.Fatalf("failed to get track: %v", err)
		}
		if retrieved.Album() != "Deluxe Edition" {
			t.Errorf("expected updated album, got %s", retrieved.Album())
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		for _, id := range []string{"a", "b", "c"} {
			track := sampleTrack(id)
			if id == "c" {
				track.Artist = "Someone Else"
			}
			if err := repo.Create(models.NewPersistedTrack(0, "spotify", id, track)); err != nil {
				t.Fatalf("failed to create track: %v", err)
			}
		}

		all, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list tracks: %v", err)
		}
		if len(all) != 3 || all[0].ServiceID() != "a" || all[2].ServiceID() != "c" {
			t.Errorf("expected 3 tracks in sequence order, got %d", len(all))
		}

		byArtist, err := repo.List(map[string]any{"artist": "Someone Else"})
		if err != nil {
			t.Fatalf("failed to list tracks: %v", err)
		}
		if len(byArtist) != 1 || byArtist[0].ServiceID() != "c" {
			t.Errorf("expected only track c, got %d", len(byArtist))
		}

		limited, err := repo.List(map[string]any{"service": "spotify", "limit": 2})
		if err != nil {
			t.Fatalf("failed to list tracks: %v", err)
		}
		if len(limited) != 2 {
			t.Errorf("expected 2 tracks, got %d", len(limited))
		}
	})
}

func TestTrackCacheAdapter_CacheTrack(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewTrackRepository(db)
	adapter := NewTrackCacheAdapter(repo)

	if err := adapter.CacheTrack("spotify", "spotify123", sampleTrack("spotify123")); err != nil {
		t.Fatalf("failed to cache track: %v", err)
	}

	if err := adapter.CacheTrack("spotify", "spotify123", sampleTrack("spotify123")); err != nil {
		t.Fatalf("caching duplicate track should not error: %v", err)
	}

	tracks, err := repo.List(map[string]any{"service": "spotify"})
	if err != nil {
		t.Fatalf("failed to list tracks: %v", err)
	}
	if len(tracks) != 1 {
		t.Fatalf("expected a single cached track, got %d", len(tracks))
	}

	renamed := sampleTrack("spotify123")
	renamed.Title = "Test Song (Remastered)"
	if err := adapter.CacheTrack("spotify", "spotify123", renamed); err != nil {
		t.Fatalf("failed to refresh cached track: %v", err)
	}

	retrieved, err := repo.GetByServiceID("spotify", "spotify123")
	if err != nil {
		t.Fatalf("failed to retrieve cached track: %v", err)
	}
	if retrieved.Title() != "Test Song (Remastered)" {
		t.Errorf("expected refreshed title, got %s", retrieved.Title())
	}
	if retrieved.ID() != tracks[0].ID() {
		t.Error("expected refresh to keep the row id")
	}
}

func TestSyncRunRepository(t *testing.T) {
	t.Run("Create & Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSyncRunRepository(db)
		run := models.NewSyncRun(0, "pl1", "Road Trip")
		run.SetCounts(10, 0, 0, 0)
		run.Start(time.Now())

		if err := repo.Create(run); err != nil {
			t.Fatalf("failed to create sync run: %v", err)
		}

		retrieved, err := repo.Get(run.ID())
		if err != nil {
			t.Fatalf("failed to get sync run: %v", err)
		}

		if retrieved.PlaylistID() != "pl1" || retrieved.PlaylistName() != "Road Trip" {
			t.Errorf("unexpected playlist %s %s", retrieved.PlaylistID(), retrieved.PlaylistName())
		}
		if retrieved.Status() != models.SyncRunning || retrieved.Total() != 10 {
			t.Errorf("unexpected status %s total %d", retrieved.Status(), retrieved.Total())
		}
		if retrieved.StartedAt() == nil || retrieved.CompletedAt() != nil {
			t.Error("expected started but not completed")
		}
		if retrieved.ErrorMessage() != "" {
			t.Errorf("expected empty error message, got %q", retrieved.ErrorMessage())
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSyncRunRepository(db)
		run := models.NewSyncRun(0, "pl1", "Road Trip")
		run.SetCounts(4, 0, 0, 0)
		run.Start(time.Now())
		if err := repo.Create(run); err != nil {
			t.Fatalf("failed to create sync run: %v", err)
		}

		run.SetCounts(4, 1, 1, 1)
		run.SetError("context canceled")
		run.Finish(models.SyncCancelled, time.Now())
		if err := repo.Update(run); err != nil {
			t.Fatalf("failed to update sync run: %v", err)
		}

		retrieved, err := repo.Get(run.ID())
		if err != nil {
			t.Fatalf("failed to get sync run: %v", err)
		}
		if retrieved.Status() != models.SyncCancelled || retrieved.CompletedAt() == nil {
			t.Errorf("expected cancelled run with completion time, got %s", retrieved.Status())
		}
		if retrieved.Downloaded() != 1 || retrieved.Skipped() != 1 || retrieved.Failed() != 1 {
			t.Errorf("unexpected counts %d/%d/%d", retrieved.Downloaded(), retrieved.Skipped(), retrieved.Failed())
		}
		if retrieved.ErrorMessage() != "context canceled" {
			t.Errorf("unexpected error message %q", retrieved.ErrorMessage())
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSyncRunRepository(db)
		for _, id := range []string{"pl1", "pl2", "pl1"} {
			run := models.NewSyncRun(0, id, id)
			run.Finish(models.SyncCompleted, time.Now())
			if err := repo.Create(run); err != nil {
				t.Fatalf("failed to create sync run: %v", err)
			}
		}

		all, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list sync runs: %v", err)
		}
		if len(all) != 3 || all[0].Sequence() != 3 {
			t.Errorf("expected newest first, got %d runs", len(all))
		}

		byPlaylist, err := repo.List(map[string]any{"playlist_id": "pl1", "limit": 1})
		if err != nil {
			t.Fatalf("failed to list sync runs: %v", err)
		}
		if len(byPlaylist) != 1 || byPlaylist[0].Sequence() != 3 {
			t.Errorf("expected latest pl1 run, got %d", len(byPlaylist))
		}

		byStatus, err := repo.List(map[string]any{"status": string(models.SyncFailed)})
		if err != nil {
			t.Fatalf("failed to list sync runs: %v", err)
		}
		if len(byStatus) != 0 {
			t.Errorf("expected no failed runs, got %d", len(byStatus))
		}
	})
}
