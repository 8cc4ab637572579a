// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for playlist downloads:
//  1. [PlaylistListView] : Browse and select Spotify playlists
//  2. [TrackListView] : Preview tracks, with already downloaded ones marked
//  3. [ConfirmView] : Confirm the download
//  4. [SyncView] : Follow per-track progress as it streams in
//  5. [ResultView] : Display counts and the tracks that failed
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress events are read one at a time from the run's event channel, so the sync advances only as fast as the view consumes it.
// Stopping a sync cancels its context; the result view then reports it as stopped.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, x, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
