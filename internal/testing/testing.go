// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/tapedeck/internal/models"
	"github.com/desertthunder/tapedeck/internal/services"
	"github.com/desertthunder/tapedeck/internal/shared"
	"github.com/desertthunder/tapedeck/internal/tasks"
	"golang.org/x/oauth2"
)

// MockCatalog is a test double for [services.Catalog] serving fixed playlists.
type MockCatalog struct {
	Playlists []models.Playlist
	Tracks    map[string][]models.Track
	Err       error
}

func (m *MockCatalog) lookup(sess *services.Session, playlistID string) (*models.Playlist, error) {
	if !sess.Valid() {
		return nil, errors.Join(shared.ErrCatalogUnavailable, shared.ErrNotAuthenticated)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.Playlists {
		if m.Playlists[i].ID == playlistID {
			return &m.Playlists[i], nil
		}
	}
	return nil, shared.ErrPlaylistNotFound
}

func (m *MockCatalog) Playlist(_ context.Context, sess *services.Session, playlistID string) (*models.Playlist, error) {
	return m.lookup(sess, playlistID)
}

func (m *MockCatalog) FetchAllTracks(_ context.Context, sess *services.Session, playlistID string) ([]models.Track, error) {
	if _, err := m.lookup(sess, playlistID); err != nil {
		return nil, err
	}
	return m.Tracks[playlistID], nil
}

func (m *MockCatalog) UserPlaylists(_ context.Context, sess *services.Session) ([]models.Playlist, error) {
	if !sess.Valid() {
		return nil, errors.Join(shared.ErrCatalogUnavailable, shared.ErrNotAuthenticated)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Playlists, nil
}

// MockIndex is a test double for [services.SearchIndex]. Queries containing a key of Missing return no results.
type MockIndex struct {
	Missing map[string]bool
	Err     error

	mu      sync.Mutex
	queries []string
}

func (m *MockIndex) Search(_ context.Context, query string, limit int) ([]services.SearchResult, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	for title := range m.Missing {
		if strings.Contains(query, title) {
			return nil, nil
		}
	}
	if limit < 1 {
		return nil, nil
	}
	id := strings.ReplaceAll(query, " ", "_")
	return []services.SearchResult{{Title: query, Link: "https://www.youtube.com/watch?v=" + id}}, nil
}

// Queries returns every query seen so far.
func (m *MockIndex) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}

// MockFetcher is a test double for [media.Downloader] that writes a small file at the target path.
type MockFetcher struct {
	Err error

	mu    sync.Mutex
	calls int
}

func (m *MockFetcher) Fetch(_ context.Context, _ string, target models.Target) (time.Duration, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.Err != nil {
		return 0, m.Err
	}
	if err := os.MkdirAll(target.Folder, 0o755); err != nil {
		return 0, err
	}
	if err := os.WriteFile(target.Path(), []byte("ID3audio"), 0o644); err != nil {
		return 0, err
	}
	return 250 * time.Millisecond, nil
}

// Calls returns the number of Fetch calls.
func (m *MockFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockTagger is a no-op test double for [tagger.Tagger].
type MockTagger struct{}

func (MockTagger) WriteBasicTags(string, string, string, string) error { return nil }
func (MockTagger) EmbedCover(context.Context, string, string) error    { return nil }

// Fixture bundles mocks with a [tasks.SyncEngine] writing under a temporary music dir.
type Fixture struct {
	Catalog  *MockCatalog
	Index    *MockIndex
	Fetcher  *MockFetcher
	Engine   *tasks.SyncEngine
	MusicDir string
}

// NewFixture builds a fixture with one playlist "pl1" named "Road Trip" holding the given tracks.
func NewFixture(t *testing.T, tracks ...models.Track) *Fixture {
	t.Helper()
	f := &Fixture{
		Catalog: &MockCatalog{
			Playlists: []models.Playlist{{ID: "pl1", Name: "Road Trip", TrackCount: len(tracks)}},
			Tracks:    map[string][]models.Track{"pl1": tracks},
		},
		Index:    &MockIndex{},
		Fetcher:  &MockFetcher{},
		MusicDir: filepath.Join(t.TempDir(), "music"),
	}
	f.Engine = tasks.NewSyncEngine(
		f.Catalog,
		services.NewResolver(f.Index, "official audio"),
		f.Fetcher,
		MockTagger{},
		tasks.WithMusicDir(f.MusicDir),
		tasks.WithThrottle(0),
		tasks.WithLogger(shared.NewLogger(nil)),
	)
	return f
}

// ValidSession returns a session with a non-expired token.
func ValidSession() *services.Session {
	return services.NewSession(&oauth2.Token{AccessToken: "access", Expiry: time.Now().Add(time.Hour)})
}

// SampleTracks returns two tracks by "Band".
func SampleTracks() []models.Track {
	return []models.Track{
		{ID: "t1", Title: "One", Artist: "Band", Album: "First"},
		{ID: "t2", Title: "Two", Artist: "Band", Album: "First"},
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
