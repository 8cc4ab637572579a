// package services defines clients for the playlist catalog (Spotify) and the video search index (YouTube via proxy)
package services

import (
	"context"
	"sync"

	"github.com/desertthunder/tapedeck/internal/models"
	"golang.org/x/oauth2"
)

// Session is an authenticated catalog session.
//
// Sessions are created by the auth layer and passed explicitly to every catalog call.
// Refreshed tokens are written back so later calls reuse them.
type Session struct {
	mu    sync.RWMutex
	token *oauth2.Token
}

// NewSession wraps token. A nil token yields a session that is never valid.
func NewSession(token *oauth2.Token) *Session {
	return &Session{token: token}
}

// Token returns the current token, or nil.
func (s *Session) Token() *oauth2.Token {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetToken replaces the session token.
func (s *Session) SetToken(t *oauth2.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = t
}

// Valid reports whether the session carries a usable or refreshable token.
func (s *Session) Valid() bool {
	t := s.Token()
	return t != nil && (t.AccessToken != "" || t.RefreshToken != "")
}

// PlaylistAPI is the catalog surface the sync pipeline depends on.
type PlaylistAPI interface {
	// Playlist returns playlist metadata.
	Playlist(ctx context.Context, sess *Session, playlistID string) (*models.Playlist, error)

	// PlaylistTracks returns one page of normalized tracks.
	PlaylistTracks(ctx context.Context, sess *Session, playlistID string, limit, offset int) ([]models.Track, error)

	// UserPlaylists returns every playlist of the session's user.
	UserPlaylists(ctx context.Context, sess *Session) ([]models.Playlist, error)

	// SearchTrack returns the best catalog match for title and artist, or nil when nothing matches.
	SearchTrack(ctx context.Context, sess *Session, title, artist string) (*models.Track, error)
}

// SearchResult is a single hit from the video search index.
type SearchResult struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// SearchIndex looks up videos by free-text query.
type SearchIndex interface {
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}
