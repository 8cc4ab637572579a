package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/tapedeck/internal/shared"
	"github.com/urfave/cli/v3"
)

// Playlists lists the user's Spotify playlists with optional limit.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	if r.playlists == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}
	if err := r.requireSession(); err != nil {
		return err
	}
	defer r.persistSession()

	limit := cmd.Int("limit")
	r.logger.Info("listing spotify playlists", "limit", limit)

	playlists, err := r.playlists.UserPlaylists(ctx, r.session)
	if err != nil {
		return err
	}

	if limit > 0 && limit < len(playlists) {
		playlists = playlists[:limit]
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, true)
	}

	rows := make([][]string, 0, len(playlists))
	for i, p := range playlists {
		rows = append(rows, []string{strconv.Itoa(i + 1), p.Name, p.ID, strconv.Itoa(p.TrackCount)})
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	return r.writePlain("%s\n", renderTable(
		[]string{"#", "Name", "ID", "Tracks"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
	))
}

// Tracks lists a playlist's tracks and whether each one is already in the music folder.
func (r *Runner) Tracks(ctx context.Context, cmd *cli.Command) error {
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

	playlist, items, err := r.syncer.Inventory(ctx, r.session, playlistID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(items, true)
	}

	downloaded := 0
	rows := make([][]string, 0, len(items))
	for i, it := range items {
		mark := ""
		if it.Downloaded {
			mark = "✓"
			downloaded++
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), it.Name, it.Artist, mark})
	}

	r.writePlain("Playlist: %s\n", playlist.Name)
	r.writePlain("Downloaded: %d/%d\n\n", downloaded, len(items))
	return r.writePlain("%s\n", renderTable(
		[]string{"#", "Title", "Artist", "Downloaded"},
		rows,
		[]columnAlignment{alignRight},
	))
}
