package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tapedeck/internal/models"
	"github.com/desertthunder/tapedeck/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPlaylistsFetched MsgKind = iota
	MsgTracksFetched
	MsgSyncStarted
	MsgProgress
	MsgSyncComplete
)

type playlistsFetched struct {
	playlists []models.Playlist
	err       error
}

type tracksFetched struct {
	playlist *models.Playlist
	items    []models.InventoryItem
	err      error
}

type syncStarted struct {
	run *tasks.Run
	err error
}

// playlistsFetchedMsg is the constructor for [MsgPlaylistsFetched]
func playlistsFetchedMsg(playlists []models.Playlist, err error) Msg {
	return Msg{kind: MsgPlaylistsFetched, data: playlistsFetched{playlists, err}}
}

// tracksFetchedMsg is the constructor for [MsgTracksFetched]
func tracksFetchedMsg(playlist *models.Playlist, items []models.InventoryItem, err error) Msg {
	return Msg{kind: MsgTracksFetched, data: tracksFetched{playlist, items, err}}
}

// syncStartedMsg is the constructor for [MsgSyncStarted]
func syncStartedMsg(run *tasks.Run, err error) Msg {
	return Msg{kind: MsgSyncStarted, data: syncStarted{run, err}}
}

// progressMsg is the constructor for [MsgProgress]
func progressMsg(ev tasks.Event) Msg {
	return Msg{kind: MsgProgress, data: ev}
}

// syncCompleteMsg is the constructor for [MsgSyncComplete]
func syncCompleteMsg() Msg {
	return Msg{kind: MsgSyncComplete}
}
