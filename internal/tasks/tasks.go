package tasks

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tapedeck/internal/media"
	"github.com/desertthunder/tapedeck/internal/models"
	"github.com/desertthunder/tapedeck/internal/services"
	"github.com/desertthunder/tapedeck/internal/shared"
)

// DefaultThrottle separates consecutive tracks of a sync.
const DefaultThrottle = 200 * time.Millisecond

const catalogService = "spotify"

// Catalog reads playlist metadata and tracks.
type Catalog interface {
	Playlist(ctx context.Context, sess *services.Session, playlistID string) (*models.Playlist, error)
	FetchAllTracks(ctx context.Context, sess *services.Session, playlistID string) ([]models.Track, error)
}

// Resolver finds the best video match for a track. A nil candidate means no match.
type Resolver interface {
	Resolve(ctx context.Context, title, artist string) (*models.Candidate, error)
}

// Fetcher downloads a candidate into a target.
type Fetcher interface {
	Fetch(ctx context.Context, url string, target models.Target) (time.Duration, error)
}

// Tagger writes metadata into downloaded files.
type Tagger interface {
	WriteBasicTags(path, title, artist, album string) error
	EmbedCover(ctx context.Context, path, imageURL string) error
}

// TrackCacher persists catalog tracks seen during a sync.
type TrackCacher interface {
	CacheTrack(service, serviceID string, track models.Track) error
}

// RunRecorder persists sync run history.
type RunRecorder interface {
	Create(run *models.SyncRun) error
	Update(run *models.SyncRun) error
}

// TrackSearcher looks a track up in the catalog to enrich single downloads.
type TrackSearcher interface {
	SearchTrack(ctx context.Context, sess *services.Session, title, artist string) (*models.Track, error)
}

// Run is a started sync. Its events channel yields every progress event in
// playlist order, then the completion record, then closes.
type Run struct {
	Playlist models.Playlist
	Folder   string
	Total    int
	Tracks   []models.Track
	events   chan Event
}

// Events returns the one-shot event stream.
func (r *Run) Events() <-chan Event {
	return r.events
}

// SyncEngine orchestrates playlist syncs.
//
// Tracks are processed strictly one at a time. The existence of a track's target
// file is the only idempotence signal: existing files are skipped before any network call.
type SyncEngine struct {
	catalog  Catalog
	resolver Resolver
	fetcher  Fetcher
	tagger   Tagger
	cacher   TrackCacher
	runs     RunRecorder
	searcher TrackSearcher
	musicDir string
	ext      string
	throttle time.Duration
	defaults SingleDefaults
	logger   *log.Logger
}

// EngineOption customizes a [SyncEngine].
type EngineOption func(*SyncEngine)

// WithMusicDir sets the root folder for playlist folders.
func WithMusicDir(dir string) EngineOption {
	return func(e *SyncEngine) { e.musicDir = dir }
}

// WithAudioExt sets the extension of produced files.
func WithAudioExt(ext string) EngineOption {
	return func(e *SyncEngine) { e.ext = ext }
}

// WithThrottle sets the delay between tracks. Zero disables it.
func WithThrottle(d time.Duration) EngineOption {
	return func(e *SyncEngine) { e.throttle = max(d, 0) }
}

// WithTrackCacher enables track caching.
func WithTrackCacher(c TrackCacher) EngineOption {
	return func(e *SyncEngine) { e.cacher = c }
}

// WithRunRecorder enables sync run history.
func WithRunRecorder(r RunRecorder) EngineOption {
	return func(e *SyncEngine) { e.runs = r }
}

// WithTrackSearcher enables catalog enrichment of single downloads.
func WithTrackSearcher(s TrackSearcher) EngineOption {
	return func(e *SyncEngine) { e.searcher = s }
}

// WithSingleDefaults sets fallback metadata for single downloads.
func WithSingleDefaults(d SingleDefaults) EngineOption {
	return func(e *SyncEngine) { e.defaults = d }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) EngineOption {
	return func(e *SyncEngine) { e.logger = l }
}

// NewSyncEngine creates a SyncEngine from its collaborators.
func NewSyncEngine(catalog Catalog, resolver Resolver, fetcher Fetcher, tagger Tagger, opts ...EngineOption) *SyncEngine {
	e := &SyncEngine{
		catalog:  catalog,
		resolver: resolver,
		fetcher:  fetcher,
		tagger:   tagger,
		musicDir: "music",
		ext:      "mp3",
		throttle: DefaultThrottle,
		defaults: DefaultSingleDefaults(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = shared.NewLogger(nil)
	}
	return e
}

// Target returns the download target of track inside a playlist.
func (e *SyncEngine) Target(playlistName string, track models.Track) models.Target {
	return models.TrackTarget(models.PlaylistFolder(e.musicDir, playlistName), track, e.ext)
}

// Stream fetches the playlist synchronously and starts processing its tracks.
//
// Catalog failures (including a missing session) are returned before any event is produced.
// Sends on the event channel block until received or until ctx is cancelled; on cancellation
// the stream stops without a completion record.
func (e *SyncEngine) Stream(ctx context.Context, sess *services.Session, playlistID string) (*Run, error) {
	if e.catalog == nil || e.resolver == nil || e.fetcher == nil {
		return nil, fmt.Errorf("%w: sync engine not initialized", shared.ErrServiceUnavailable)
	}

	playlist, err := e.catalog.Playlist(ctx, sess, playlistID)
	if err != nil {
		return nil, err
	}

	tracks, err := e.catalog.FetchAllTracks(ctx, sess, playlistID)
	if err != nil {
		return nil, err
	}

	name := playlist.Name
	if name == "" {
		name = playlistID
	}
	folder := models.PlaylistFolder(e.musicDir, name)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create playlist folder: %w", err)
	}

	e.cacheTracks(tracks)

	run := &Run{
		Playlist: models.Playlist{ID: playlistID, Name: name, TrackCount: len(tracks)},
		Folder:   folder,
		Total:    len(tracks),
		Tracks:   tracks,
		events:   make(chan Event),
	}

	e.logger.Info("starting sync", "playlist", name, "tracks", run.Total, "folder", folder)
	go e.process(ctx, run)
	return run, nil
}

func (e *SyncEngine) process(ctx context.Context, run *Run) {
	defer close(run.events)

	record := e.startRecord(run)
	summary := NewSummary(run)

	for i, track := range run.Tracks {
		if ctx.Err() != nil {
			e.finishRecord(record, summary, models.SyncCancelled, ctx.Err())
			return
		}

		ev := e.syncTrack(ctx, run.Folder, track, i+1, run.Total)
		if !e.emit(ctx, run.events, ev) {
			e.finishRecord(record, summary, models.SyncCancelled, ctx.Err())
			return
		}
		summary.Add(ev)

		if i < run.Total-1 && !e.pause(ctx) {
			e.finishRecord(record, summary, models.SyncCancelled, ctx.Err())
			return
		}
	}

	if !e.emit(ctx, run.events, Event{Done: true}) {
		e.finishRecord(record, summary, models.SyncCancelled, ctx.Err())
		return
	}

	e.logger.Info("sync complete",
		"playlist", run.Playlist.Name,
		"downloaded", summary.Downloaded,
		"skipped", summary.Skipped,
		"failed", summary.Failed(),
	)
	e.finishRecord(record, summary, models.SyncCompleted, nil)
}

// syncTrack runs the per-track state machine. It never returns an error: every
// failure becomes the event's status.
func (e *SyncEngine) syncTrack(ctx context.Context, folder string, track models.Track, index, total int) Event {
	ev := Event{Index: index, Total: total, SongLabel: track.Label()}
	target := models.TrackTarget(folder, track, e.ext)
	logger := e.logger.With("index", index, "total", total, "track", ev.SongLabel)

	if media.Exists(target) {
		ev.Status = StatusSkipped
		logger.Info(ev.Status)
		return ev
	}

	candidate, err := e.resolver.Resolve(ctx, track.Title, track.Artist)
	if err != nil {
		ev.Status = failureStatus(StatusSearchError, shared.ErrSearch, err)
		logger.Error("search failed", "error", err)
		return ev
	}
	if candidate == nil {
		ev.Status = StatusNotFound
		logger.Info(ev.Status)
		return ev
	}

	elapsed, err := e.fetcher.Fetch(ctx, candidate.URL, target)
	if err != nil {
		ev.Status = failureStatus(StatusError, shared.ErrDownload, err)
		logger.Error("download failed", "url", candidate.URL, "error", err)
		return ev
	}

	ev.Status = StatusDownloaded
	ev.DurationSeconds = shared.RoundTo(elapsed.Seconds(), 2)
	e.tag(ctx, target.Path(), track, logger)

	logger.Info(ev.Status, "url", candidate.URL, "seconds", ev.DurationSeconds)
	return ev
}

// tag writes basic tags then the cover. Failures are logged only.
func (e *SyncEngine) tag(ctx context.Context, path string, track models.Track, logger *log.Logger) {
	if e.tagger == nil {
		return
	}

	if err := e.tagger.WriteBasicTags(path, track.Title, track.Artist, track.Album); err != nil {
		logger.Warn("basic tagging failed", "error", err)
	}

	if track.CoverURL == "" {
		return
	}
	if err := e.tagger.EmbedCover(ctx, path, track.CoverURL); err != nil {
		logger.Warn("cover embedding failed", "url", track.CoverURL, "error", err)
	}
}

func (e *SyncEngine) emit(ctx context.Context, events chan<- Event, ev Event) bool {
	if ctx.Err() != nil {
		return false
	}

	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func (e *SyncEngine) pause(ctx context.Context) bool {
	if e.throttle <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(e.throttle)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// cacheTracks stores catalog tracks silently; errors are logged and ignored.
func (e *SyncEngine) cacheTracks(tracks []models.Track) {
	if e.cacher == nil {
		return
	}
	for _, track := range tracks {
		if track.ID == "" {
			continue
		}
		if err := e.cacher.CacheTrack(catalogService, track.ID, track); err != nil {
			e.logger.Debug("failed to cache track", "track", track.Label(), "error", err)
		}
	}
}

func (e *SyncEngine) startRecord(run *Run) *models.SyncRun {
	if e.runs == nil {
		return nil
	}

	record := models.NewSyncRun(0, run.Playlist.ID, run.Playlist.Name)
	record.SetCounts(run.Total, 0, 0, 0)
	record.Start(time.Now())
	if err := e.runs.Create(record); err != nil {
		e.logger.Warn("failed to record sync run", "error", err)
		return nil
	}
	return record
}

func (e *SyncEngine) finishRecord(record *models.SyncRun, summary *Summary, status models.SyncStatus, cause error) {
	if status == models.SyncCancelled {
		e.logger.Warn("sync cancelled", "playlist", summary.PlaylistName, "processed", len(summary.Events), "total", summary.Total)
	}
	if record == nil {
		return
	}

	record.SetCounts(summary.Total, summary.Downloaded, summary.Skipped, summary.Failed())
	if cause != nil {
		record.SetError(cause.Error())
	}
	record.Finish(status, time.Now())
	if err := e.runs.Update(record); err != nil {
		e.logger.Warn("failed to update sync run", "id", record.ID(), "error", err)
	}
}
