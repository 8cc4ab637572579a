// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for the database, config file and external binaries.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write an example config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path of the config file to create",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "check",
				Usage:  "Check that yt-dlp and ffmpeg can be found",
				Action: r.SetupCheck,
			},
		},
	}
}

// authCommand runs the Spotify OAuth2 login flow.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "auth",
		Usage:  "Authenticate with Spotify using OAuth2 and store the token",
		Action: r.Auth,
	}
}

// playlistsCommand lists the user's Spotify playlists.
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlists",
		Usage: "List Spotify playlists",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of playlists to show",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Playlists,
	}
}

// tracksCommand previews a playlist against the music folder.
func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tracks",
		Usage: "List a playlist's tracks and whether each is downloaded",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "id",
				Usage:    "Playlist ID",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Tracks,
	}
}

// syncCommand downloads every missing track of a playlist.
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Download a playlist into the music folder",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "id",
				Usage:    "Playlist ID",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "Write a report file (.json, .csv or .txt)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print progress records as NDJSON",
			},
		},
		Action: r.Sync,
	}
}

// searchCommand queries the video search index.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search videos for a song",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "author",
				Usage: "Artist appended to the query",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results",
				Value: 5,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Search,
	}
}

// downloadCommand fetches a single video as a tagged audio file.
func downloadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "download",
		Usage: "Download one video as audio",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "url",
				Usage:    "Video URL",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "filename",
				Usage:    "Output file name without extension",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "author",
				Usage: "Artist tag",
			},
			&cli.StringFlag{
				Name:  "album",
				Usage: "Album tag",
			},
			&cli.StringFlag{
				Name:  "folder",
				Usage: "Folder inside the music directory",
			},
		},
		Action: r.Download,
	}
}

// serveCommand runs the web API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "secure-cookie",
				Usage: "Mark the session cookie Secure (behind HTTPS)",
			},
		},
		Action: r.Serve,
	}
}

// cacheCommand inspects the local metadata cache.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect locally cached tracks and sync history",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List cached catalog tracks",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "artist",
						Usage: "Only tracks by this artist",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of tracks",
						Value: 50,
					},
				},
				Action: r.CacheList,
			},
			{
				Name:  "runs",
				Usage: "List recent sync runs",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "id",
						Usage: "Only runs of this playlist",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs",
						Value: 20,
					},
				},
				Action: r.CacheRuns,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive playlist downloads.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for playlist downloads",
		Action:  r.TUI,
	}
}
