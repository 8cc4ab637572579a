package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/tapedeck/internal/models"
	"github.com/desertthunder/tapedeck/internal/shared"
)

// PageSize is the number of playlist items requested per catalog call.
const PageSize = 100

// Catalog reads whole playlists from a [PlaylistAPI].
//
// Every failure, including a missing session, is reported as [shared.ErrCatalogUnavailable].
type Catalog struct {
	api PlaylistAPI
}

// NewCatalog wraps api.
func NewCatalog(api PlaylistAPI) *Catalog {
	return &Catalog{api: api}
}

// Playlist returns playlist metadata.
func (c *Catalog) Playlist(ctx context.Context, sess *Session, playlistID string) (*models.Playlist, error) {
	if !sess.Valid() {
		return nil, fmt.Errorf("%w: %w", shared.ErrCatalogUnavailable, shared.ErrNotAuthenticated)
	}

	playlist, err := c.api.Playlist(ctx, sess, playlistID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrCatalogUnavailable, err)
	}
	return playlist, nil
}

// FetchAllTracks pages through the playlist until a short page arrives and returns every track in order.
func (c *Catalog) FetchAllTracks(ctx context.Context, sess *Session, playlistID string) ([]models.Track, error) {
	if !sess.Valid() {
		return nil, fmt.Errorf("%w: %w", shared.ErrCatalogUnavailable, shared.ErrNotAuthenticated)
	}

	var tracks []models.Track
	for offset := 0; ; offset += PageSize {
		page, err := c.api.PlaylistTracks(ctx, sess, playlistID, PageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("%w: offset %d: %w", shared.ErrCatalogUnavailable, offset, err)
		}

		tracks = append(tracks, page...)
		if len(page) < PageSize {
			break
		}
	}
	return tracks, nil
}

// UserPlaylists lists the session user's playlists.
func (c *Catalog) UserPlaylists(ctx context.Context, sess *Session) ([]models.Playlist, error) {
	if !sess.Valid() {
		return nil, fmt.Errorf("%w: %w", shared.ErrCatalogUnavailable, shared.ErrNotAuthenticated)
	}

	playlists, err := c.api.UserPlaylists(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrCatalogUnavailable, err)
	}
	return playlists, nil
}
