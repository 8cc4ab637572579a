package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/tapedeck/internal/models"
	"github.com/desertthunder/tapedeck/internal/services"
	"github.com/desertthunder/tapedeck/internal/shared"
)

type fakeSearcher struct {
	hit   *models.Track
	err   error
	calls int
}

func (f *fakeSearcher) SearchTrack(_ context.Context, _ *services.Session, _, _ string) (*models.Track, error) {
	f.calls++
	return f.hit, f.err
}

func TestInventory(t *testing.T) {
	h := newHarness(t, sampleTracks()[:2])
	engine := h.engine()

	target := engine.Target("Road: Trip?", sampleTracks()[0])
	if err := os.MkdirAll(target.Folder, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target.Path(), []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	playlist, items, err := engine.Inventory(context.Background(), validSession(), "pl1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if playlist.Name != "Road: Trip?" || playlist.TrackCount != 2 {
		t.Errorf("unexpected playlist %+v", playlist)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if !items[0].Downloaded || items[0].Name != "Found" || items[0].Artist != "Band" {
		t.Errorf("expected first track downloaded, got %+v", items[0])
	}
	if items[1].Downloaded {
		t.Errorf("expected second track missing, got %+v", items[1])
	}

	if _, _, err := engine.Inventory(context.Background(), services.NewSession(nil), "pl1"); !errors.Is(err, shared.ErrCatalogUnavailable) {
		t.Errorf("expected ErrCatalogUnavailable, got %v", err)
	}
}

func TestDownloadSingle(t *testing.T) {
	t.Run("uses defaults and request sanitizer", func(t *testing.T) {
		h := newHarness(t, nil)
		searcher := &fakeSearcher{}

		res, err := h.engine(WithTrackSearcher(searcher)).DownloadSingle(context.Background(), nil, SingleRequest{
			URL:      "https://youtube.com/watch?v=abc",
			Filename: "My Song!",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := filepath.Join(h.dir, "singles", "My_Song.mp3")
		if res.Path != want || res.Filename != "My_Song.mp3" || res.Skipped {
			t.Errorf("unexpected result %+v", res)
		}
		if _, err := os.Stat(want); err != nil {
			t.Errorf("expected file: %v", err)
		}

		if searcher.calls != 0 {
			t.Error("expected no catalog lookup without a session")
		}
		if len(h.tagger.basic) != 1 {
			t.Fatalf("expected basic tags, got %v", h.tagger.order)
		}
		got := h.tagger.basic[0]
		if got.title != "My Song!" || got.artist != "unknown artist" || got.album != "downloaded single" {
			t.Errorf("unexpected tags %+v", got)
		}
		if len(h.tagger.covers) != 0 {
			t.Error("expected no cover without catalog hit")
		}
	})

	t.Run("enriches from the catalog", func(t *testing.T) {
		h := newHarness(t, nil)
		searcher := &fakeSearcher{hit: &models.Track{Title: "Song", Artist: "Band", Album: "LP", CoverURL: "https://img/c.jpg"}}

		_, err := h.engine(WithTrackSearcher(searcher)).DownloadSingle(context.Background(), validSession(), SingleRequest{
			URL:      "https://youtube.com/watch?v=abc",
			Filename: "Song_Title",
			Author:   "Band",
			Folder:   "b-sides",
		})
		if err != nil {
			t.Fatal(err)
		}

		if searcher.calls != 1 {
			t.Errorf("expected one lookup, got %d", searcher.calls)
		}
		if len(h.tagger.order) != 2 || h.tagger.order[0] != "cover" || h.tagger.order[1] != "basic" {
			t.Fatalf("expected cover then basic, got %v", h.tagger.order)
		}
		got := h.tagger.basic[0]
		if got.title != "Song Title" || got.artist != "Band" || got.album != "LP" {
			t.Errorf("unexpected tags %+v", got)
		}
		if got.path != filepath.Join(h.dir, "b-sides", "Song_Title.mp3") {
			t.Errorf("unexpected path %s", got.path)
		}
	})

	t.Run("lookup failure keeps defaults", func(t *testing.T) {
		h := newHarness(t, nil)
		searcher := &fakeSearcher{err: shared.ErrAPIRequest}

		_, err := h.engine(WithTrackSearcher(searcher)).DownloadSingle(context.Background(), validSession(), SingleRequest{
			URL: "https://youtube.com/watch?v=abc", Filename: "Song", Album: "Mine",
		})
		if err != nil {
			t.Fatal(err)
		}
		if h.tagger.basic[0].album != "Mine" {
			t.Errorf("expected request album, got %+v", h.tagger.basic[0])
		}
	})

	t.Run("existing file is not downloaded again", func(t *testing.T) {
		h := newHarness(t, nil)
		engine := h.engine()
		req := SingleRequest{URL: "https://youtube.com/watch?v=abc", Filename: "Song"}

		if _, err := engine.DownloadSingle(context.Background(), nil, req); err != nil {
			t.Fatal(err)
		}
		res, err := engine.DownloadSingle(context.Background(), nil, req)
		if err != nil {
			t.Fatal(err)
		}
		if !res.Skipped || h.fetcher.Calls() != 1 {
			t.Errorf("expected skip, got %+v after %d fetches", res, h.fetcher.Calls())
		}
	})

	t.Run("fetch failure is returned", func(t *testing.T) {
		h := newHarness(t, nil)
		h.fetcher.fail = map[string]error{"abc": shared.ErrDownload}

		_, err := h.engine().DownloadSingle(context.Background(), nil, SingleRequest{URL: "https://youtube.com/watch?v=abc", Filename: "Song"})
		if !errors.Is(err, shared.ErrDownload) {
			t.Errorf("expected ErrDownload, got %v", err)
		}
		if len(h.tagger.order) != 0 {
			t.Error("expected no tagging")
		}
	})

	t.Run("invalid requests", func(t *testing.T) {
		h := newHarness(t, nil)
		engine := h.engine()

		if _, err := engine.DownloadSingle(context.Background(), nil, SingleRequest{Filename: "x"}); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if _, err := engine.DownloadSingle(context.Background(), nil, SingleRequest{URL: "u", Filename: "?!"}); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestSingleDefaultsFromConfig(t *testing.T) {
	d := SingleDefaultsFromConfig(shared.DownloadConfig{DefaultFolder: "loose"})
	if d.Folder != "loose" || d.Artist != "unknown artist" || d.Album != "downloaded single" {
		t.Errorf("unexpected defaults %+v", d)
	}
}
