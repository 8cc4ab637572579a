package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/tapedeck/internal/shared"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

// CacheList prints the catalog tracks cached during syncs.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	if r.tracks == nil {
		return fmt.Errorf("%w: database not initialized, run 'tapedeck setup database'", shared.ErrServiceUnavailable)
	}

	tracks, err := r.tracks.List(map[string]any{
		"artist": cmd.String("artist"),
		"limit":  cmd.Int("limit"),
	})
	if err != nil {
		return err
	}

	if len(tracks) == 0 {
		return r.writePlainln("No cached tracks.")
	}

	rows := make([][]string, 0, len(tracks))
	for _, t := range tracks {
		rows = append(rows, []string{
			strconv.Itoa(t.Sequence()),
			t.Title(),
			t.Artist(),
			t.Album(),
			humanize.Time(t.CreatedAt()),
		})
	}

	r.writePlain("Cached tracks: %d\n\n", len(tracks))
	return r.writePlain("%s\n", renderTable(
		[]string{"#", "Title", "Artist", "Album", "Cached"},
		rows,
		[]columnAlignment{alignRight},
	))
}

// CacheRuns prints recorded sync runs, newest first.
func (r *Runner) CacheRuns(ctx context.Context, cmd *cli.Command) error {
	if r.runs == nil {
		return fmt.Errorf("%w: database not initialized, run 'tapedeck setup database'", shared.ErrServiceUnavailable)
	}

	runs, err := r.runs.List(map[string]any{
		"playlist_id": cmd.String("id"),
		"limit":       cmd.Int("limit"),
	})
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		return r.writePlainln("No sync runs recorded.")
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		started := "-"
		if at := run.StartedAt(); at != nil {
			started = humanize.Time(*at)
		}
		rows = append(rows, []string{
			run.PlaylistName(),
			string(run.Status()),
			fmt.Sprintf("%d/%d", run.Downloaded(), run.Total()),
			strconv.Itoa(run.Skipped()),
			strconv.Itoa(run.Failed()),
			started,
		})
	}

	return r.writePlain("%s\n", renderTable(
		[]string{"Playlist", "Status", "Downloaded", "Skipped", "Failed", "Started"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight},
	))
}
