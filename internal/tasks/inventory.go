package tasks

import (
	"cmp"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertthunder/tapedeck/internal/media"
	"github.com/desertthunder/tapedeck/internal/models"
	"github.com/desertthunder/tapedeck/internal/services"
	"github.com/desertthunder/tapedeck/internal/shared"
)

// SingleDefaults fills metadata missing from a single download request.
type SingleDefaults struct {
	Artist string
	Album  string
	Folder string
}

// DefaultSingleDefaults returns the built-in fallbacks.
func DefaultSingleDefaults() SingleDefaults {
	return SingleDefaults{Artist: "unknown artist", Album: "downloaded single", Folder: "singles"}
}

// SingleDefaultsFromConfig reads fallbacks from the download config, keeping built-ins for empty values.
func SingleDefaultsFromConfig(cfg shared.DownloadConfig) SingleDefaults {
	d := DefaultSingleDefaults()
	if cfg.DefaultArtist != "" {
		d.Artist = cfg.DefaultArtist
	}
	if cfg.DefaultAlbum != "" {
		d.Album = cfg.DefaultAlbum
	}
	if cfg.DefaultFolder != "" {
		d.Folder = cfg.DefaultFolder
	}
	return d
}

// SingleRequest asks for one video to be downloaded outside of a playlist.
type SingleRequest struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Author   string `json:"author,omitempty"`
	Album    string `json:"album,omitempty"`
	Folder   string `json:"foldername,omitempty"`
}

// SingleResult describes the file produced by [SyncEngine.DownloadSingle].
type SingleResult struct {
	Path     string
	Filename string
	Skipped  bool
	Duration time.Duration
}

// Inventory lists a playlist's tracks with whether each target file already exists.
func (e *SyncEngine) Inventory(ctx context.Context, sess *services.Session, playlistID string) (*models.Playlist, []models.InventoryItem, error) {
	if e.catalog == nil {
		return nil, nil, fmt.Errorf("%w: catalog not configured", shared.ErrCatalogUnavailable)
	}

	playlist, err := e.catalog.Playlist(ctx, sess, playlistID)
	if err != nil {
		return nil, nil, err
	}

	tracks, err := e.catalog.FetchAllTracks(ctx, sess, playlistID)
	if err != nil {
		return nil, nil, err
	}

	name := playlist.Name
	if name == "" {
		name = playlistID
	}

	items := make([]models.InventoryItem, 0, len(tracks))
	for _, track := range tracks {
		items = append(items, models.InventoryItem{
			Name:       track.Title,
			Artist:     track.Artist,
			Downloaded: media.Exists(e.Target(name, track)),
		})
	}
	return &models.Playlist{ID: playlistID, Name: name, TrackCount: len(tracks)}, items, nil
}

// DownloadSingle downloads one video into the singles folder and tags it.
//
// File and folder names go through the request sanitizer. An existing file is returned as is.
// When sess is valid and a track searcher is configured, the catalog supplies album and cover.
func (e *SyncEngine) DownloadSingle(ctx context.Context, sess *services.Session, req SingleRequest) (*SingleResult, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, fmt.Errorf("%w: url", shared.ErrMissingArgument)
	}

	stem := shared.SanitizeRequestFilename(req.Filename)
	if stem == "" {
		return nil, fmt.Errorf("%w: filename %q", shared.ErrInvalidArgument, req.Filename)
	}

	folder := shared.SanitizeRequestFilename(req.Folder)
	if folder == "" {
		folder = shared.SanitizeRequestFilename(e.defaults.Folder)
	}

	target := models.Target{Folder: filepath.Join(e.musicDir, folder), Stem: stem, Ext: e.ext}
	result := &SingleResult{Path: target.Path(), Filename: stem + "." + e.ext}
	logger := e.logger.With("file", result.Path)

	if media.Exists(target) {
		result.Skipped = true
		logger.Info("single already downloaded")
		return result, nil
	}

	elapsed, err := e.fetcher.Fetch(ctx, req.URL, target)
	if err != nil {
		return nil, err
	}
	result.Duration = elapsed

	title := strings.TrimSpace(strings.ReplaceAll(req.Filename, "_", " "))
	artist := cmp.Or(strings.TrimSpace(req.Author), e.defaults.Artist)
	album := cmp.Or(strings.TrimSpace(req.Album), e.defaults.Album)
	cover := ""

	if hit := e.lookup(ctx, sess, title, artist); hit != nil {
		album = cmp.Or(hit.Album, album)
		cover = hit.CoverURL
	}

	if e.tagger != nil {
		if cover != "" {
			if err := e.tagger.EmbedCover(ctx, result.Path, cover); err != nil {
				logger.Warn("cover embedding failed", "url", cover, "error", err)
			}
		}
		if err := e.tagger.WriteBasicTags(result.Path, title, artist, album); err != nil {
			logger.Warn("basic tagging failed", "error", err)
		}
	}

	logger.Info("single downloaded", "url", req.URL, "seconds", shared.RoundTo(elapsed.Seconds(), 2))
	return result, nil
}

func (e *SyncEngine) lookup(ctx context.Context, sess *services.Session, title, artist string) *models.Track {
	if e.searcher == nil || !sess.Valid() {
		return nil
	}

	hit, err := e.searcher.SearchTrack(ctx, sess, title, artist)
	if err != nil {
		e.logger.Warn("catalog lookup failed", "title", title, "artist", artist, "error", err)
		return nil
	}
	return hit
}
