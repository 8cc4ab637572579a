package main

import (
	"cmp"
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/desertthunder/tapedeck/internal/formatter"
	"github.com/desertthunder/tapedeck/internal/shared"
	"github.com/desertthunder/tapedeck/internal/tasks"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

// Sync downloads every missing track of a playlist, printing one line per track.
//
// Interrupting the process stops after the current track; the report still covers what was processed.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	if r.syncer == nil {
		return fmt.Errorf("%w: sync engine not initialized", shared.ErrServiceUnavailable)
	}
	if err := r.requireSession(); err != nil {
		return err
	}
	defer r.persistSession()

	playlistID := cmd.String("id")
	if playlistID == "" {
		return fmt.Errorf("%w: --id flag is required", shared.ErrMissingArgument)
	}
	asJSON := cmd.Bool("json")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	run, err := r.syncer.Stream(ctx, r.session, playlistID)
	if err != nil {
		return err
	}

	if !asJSON {
		r.writePlain("Syncing %s (%d tracks) into %s\n\n", run.Playlist.Name, run.Total, run.Folder)
	}

	summary := tasks.Collect(run, func(ev tasks.Event) {
		if asJSON {
			r.writeJSON(ev, false)
			return
		}
		if !ev.Done {
			r.writePlain("[%d/%d] %s: %s\n", ev.Index, ev.Total, ev.SongLabel, ev.Status)
		}
	})

	if path := cmd.String("report"); path != "" {
		written, err := formatter.WriteReport(summary, path)
		if err != nil {
			return err
		}
		r.logger.Info("report written", "path", written)
	}

	if !asJSON {
		r.printSummary(summary)
	}

	if !summary.Completed {
		return fmt.Errorf("sync interrupted after %d of %d tracks: %w", len(summary.Events), summary.Total, cmp.Or(context.Cause(ctx), context.Canceled))
	}
	return nil
}

func (r *Runner) printSummary(s *tasks.Summary) {
	title := "Sync Complete!"
	if !s.Completed {
		title = "Sync Interrupted"
	}

	r.writePlain("\n")
	r.writePlainHeader(title)
	r.writePlain("Playlist: %s (%d tracks)\n", s.PlaylistName, s.Total)
	r.writePlain("Downloaded: %d  Skipped: %d  Failed: %d\n", s.Downloaded, s.Skipped, s.Failed())
	if size, err := dirSize(s.Folder); err == nil {
		r.writePlain("Folder: %s (%s)\n", s.Folder, humanize.Bytes(uint64(size)))
	}
	r.writePlain("Elapsed: %s\n", s.Elapsed.Round(time.Second))

	var failed []tasks.Event
	for _, ev := range s.Events {
		if ev.Failed() {
			failed = append(failed, ev)
		}
	}
	if len(failed) > 0 {
		r.writePlain("\nFailed tracks:\n%s\n", formatter.EventTable(failed))
	}
}

// dirSize sums the sizes of regular files below root.
func dirSize(root string) (int64, error) {
	var total int64
	err := filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			total += info.Size()
		}
		return nil
	})
	return total, err
}
