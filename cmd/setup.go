package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tapedeck/internal/media"
	"github.com/desertthunder/tapedeck/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := shared.OpenMigrated(r.config.Database)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	defer db.Close()

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return r.writePlain("✓ Database ready at %s\n", r.config.Database.Path)
}

// SetupConfig writes the example configuration file.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")

	if err := shared.CreateConfigFile(path); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Config written to %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set credentials.spotify.client_id and client_secret\n")
	r.writePlain("2. Run 'tapedeck setup check' to verify yt-dlp and ffmpeg\n")
	r.writePlain("3. Run 'tapedeck auth' to link your Spotify account\n")
	return nil
}

// SetupCheck reports whether the configured yt-dlp and ffmpeg binaries are resolvable.
func (r *Runner) SetupCheck(ctx context.Context, cmd *cli.Command) error {
	statuses := media.CheckBinaries(media.Requirements(r.config.Download))

	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		state := "✓ found"
		if !s.Available {
			state = "✗ " + s.Detail
		}
		rows = append(rows, []string{s.Name, s.Command, s.Description, state})
	}
	r.writePlain("%s\n", renderTable([]string{"Binary", "Command", "Purpose", "Status"}, rows, nil))

	if missing := media.Missing(statuses); len(missing) > 0 {
		return fmt.Errorf("%w: missing %v", shared.ErrMissingConfig, missing)
	}
	return nil
}
