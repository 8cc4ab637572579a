package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tapedeck/internal/shared"
	"github.com/desertthunder/tapedeck/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for browsing and syncing playlists.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.playlists == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}
	if r.syncer == nil {
		return fmt.Errorf("%w: sync engine not initialized", shared.ErrServiceUnavailable)
	}
	if err := r.requireSession(); err != nil {
		return err
	}
	defer r.persistSession()

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/tapedeck-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.session, r.playlists, r.syncer)
	p := tea.NewProgram(model, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if s := model.Summary(); s != nil {
		r.writePlain("Last sync: %s, %d downloaded, %d skipped, %d failed\n", s.PlaylistName, s.Downloaded, s.Skipped, s.Failed())
	}
	return model.Err()
}
