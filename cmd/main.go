package main

import (
	"cmp"
	"context"
	"errors"
	"os"

	"github.com/desertthunder/tapedeck/internal/media"
	"github.com/desertthunder/tapedeck/internal/repositories"
	"github.com/desertthunder/tapedeck/internal/services"
	"github.com/desertthunder/tapedeck/internal/shared"
	"github.com/desertthunder/tapedeck/internal/tagger"
	"github.com/desertthunder/tapedeck/internal/tasks"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	configPath := cmp.Or(os.Getenv("TAPEDECK_CONFIG"), "config.toml")

	config, err := shared.LoadConfigOrDefault(configPath)
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	opts := RunnerOpts{Config: config, ConfigPath: configPath, Logger: logger}

	youtube := services.NewYouTubeService(
		config.Credentials.YouTube.SearchURL,
		services.WithRequestsPerSecond(config.Credentials.YouTube.RequestsPerSecond),
	)
	opts.Index = youtube

	ytdlp := media.NewYTDLP(config.Download)
	engineOpts := []tasks.EngineOption{
		tasks.WithMusicDir(config.Download.MusicDir),
		tasks.WithAudioExt(ytdlp.Ext()),
		tasks.WithThrottle(config.Download.Throttle()),
		tasks.WithSingleDefaults(tasks.SingleDefaultsFromConfig(config.Download)),
		tasks.WithLogger(logger),
	}

	if db, err := shared.OpenMigrated(config.Database); err != nil {
		logger.Warn("track cache disabled", "path", config.Database.Path, "error", err)
	} else {
		defer db.Close()
		opts.Tracks = repositories.NewTrackRepository(db)
		opts.Runs = repositories.NewSyncRunRepository(db)
		engineOpts = append(engineOpts,
			tasks.WithTrackCacher(repositories.NewTrackCacheAdapter(opts.Tracks)),
			tasks.WithRunRecorder(opts.Runs),
		)
	}

	var catalog tasks.Catalog
	spotify, err := services.NewSpotifyService(config.Credentials.Spotify.Map())
	if err != nil {
		logger.Warn("spotify disabled", "error", err)
	} else {
		c := services.NewCatalog(spotify)
		catalog = c
		opts.Auth = spotify
		opts.Playlists = c
		engineOpts = append(engineOpts, tasks.WithTrackSearcher(spotify))
	}

	// Without Spotify the engine still serves single downloads.
	opts.Syncer = tasks.NewSyncEngine(
		catalog,
		services.NewResolver(youtube, config.Download.SearchSuffix),
		media.NewFetcher(ytdlp, logger),
		tagger.New(config.Tagging, tagger.WithLogger(logger)),
		engineOpts...,
	)

	runner := NewRunner(opts)

	app := &cli.Command{
		Name:     "tapedeck",
		Usage:    "Download Spotify playlists as tagged audio files",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			return
		}
		logger.Fatalf("application error: %v", err)
	}
}
