package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tapedeck/internal/formatter"
	"github.com/desertthunder/tapedeck/internal/models"
	"github.com/desertthunder/tapedeck/internal/services"
	"github.com/desertthunder/tapedeck/internal/tasks"
)

const barWidth = 40

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistListView ViewState = iota
	TrackListView
	ConfirmView
	SyncView
	ResultView
)

// PlaylistLister lists the session user's playlists.
type PlaylistLister interface {
	UserPlaylists(ctx context.Context, sess *services.Session) ([]models.Playlist, error)
}

// Syncer previews and runs playlist syncs. Implemented by [tasks.SyncEngine].
type Syncer interface {
	Inventory(ctx context.Context, sess *services.Session, playlistID string) (*models.Playlist, []models.InventoryItem, error)
	Stream(ctx context.Context, sess *services.Session, playlistID string) (*tasks.Run, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx             context.Context
	sess            *services.Session
	view            ViewState
	lister          PlaylistLister
	syncer          Syncer
	width           int
	height          int
	playlistList    list.Model
	playlistsLoaded bool
	trackList       list.Model
	tracksLoaded    bool
	selected        *models.Playlist
	items           []models.InventoryItem
	run             *tasks.Run
	cancel          context.CancelFunc
	stopping        bool
	started         time.Time
	last            tasks.Event
	summary         *tasks.Summary
	spinner         spinner.Model
	err             error
	help            help.Model
	keys            keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, sess *services.Session, lister PlaylistLister, syncer Syncer) *Model {
	return &Model{
		ctx:     ctx,
		sess:    sess,
		view:    PlaylistListView,
		lister:  lister,
		syncer:  syncer,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.ok)),
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Err returns the error that ended the program, if any.
func (m *Model) Err() error {
	return m.err
}

// Summary returns the summary of the last sync, or nil.
func (m *Model) Summary() *tasks.Summary {
	return m.summary
}

// Init initializes the TUI by fetching playlists from Spotify.
func (m *Model) Init() tea.Cmd {
	return m.fetchPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.playlistsLoaded {
			m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.tracksLoaded {
			m.trackList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case TrackListView:
			return m.handleTrackListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case SyncView:
			return m.handleSyncKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case spinner.TickMsg:
		if m.view != SyncView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgPlaylistsFetched:
		data := msg.data.(playlistsFetched)
		if data.err != nil {
			m.err = data.err
			return m, tea.Quit
		}
		items := make([]list.Item, len(data.playlists))
		for i, pl := range data.playlists {
			items[i] = playlistItem{playlist: pl}
		}
		m.playlistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.playlistList.Title = "Spotify Playlists"
		m.playlistsLoaded = true
		m.playlistList.SetSize(m.width-4, m.height-8)
		return m, nil

	case MsgTracksFetched:
		data := msg.data.(tracksFetched)
		if data.err != nil {
			m.err = data.err
			m.view = PlaylistListView
			return m, nil
		}
		m.err = nil
		m.selected = data.playlist
		m.items = data.items
		items := make([]list.Item, len(data.items))
		for i, it := range data.items {
			items[i] = trackItem{item: it}
		}
		m.trackList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.trackList.Title = fmt.Sprintf("Tracks in '%s' (%d/%d downloaded)",
			data.playlist.Name, countDownloaded(data.items), len(data.items))
		m.trackList.SetSize(m.width-4, m.height-8)
		m.tracksLoaded = true
		m.view = TrackListView
		return m, nil

	case MsgSyncStarted:
		data := msg.data.(syncStarted)
		if data.err != nil {
			m.stopSync()
			m.err = data.err
			m.view = ResultView
			return m, nil
		}
		m.run = data.run
		m.summary = tasks.NewSummary(data.run)
		m.started = time.Now()
		return m, waitForEvent(data.run)

	case MsgProgress:
		ev := msg.data.(tasks.Event)
		m.summary.Add(ev)
		if !ev.Done {
			m.last = ev
		}
		return m, waitForEvent(m.run)

	case MsgSyncComplete:
		if m.summary != nil {
			m.summary.Elapsed = time.Since(m.started)
		}
		m.stopSync()
		m.run = nil
		m.view = ResultView
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case PlaylistListView:
		return m.renderPlaylistList()
	case TrackListView:
		return m.renderTrackList()
	case ConfirmView:
		return m.renderConfirm()
	case SyncView:
		return m.renderSync()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case !m.playlistsLoaded:
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if pl, ok := m.playlistList.SelectedItem().(playlistItem); ok {
			return m, m.fetchTracks(pl.playlist.ID)
		}
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = PlaylistListView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back):
		m.view = TrackListView
		return m, nil
	case key.Matches(msg, m.keys.yes):
		m.view = SyncView
		return m, m.startSync()
	}
	return m, nil
}

// handleSyncKeys stops the running sync. The view switches once the event stream closes.
func (m *Model) handleSyncKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.stopSync()
		return m, tea.Quit
	case key.Matches(msg, m.keys.cancel):
		if m.cancel != nil {
			m.cancel()
			m.stopping = true
		}
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart):
		m.view = PlaylistListView
		m.selected = nil
		m.items = nil
		m.summary = nil
		m.last = tasks.Event{}
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.view == PlaylistListView && m.playlistsLoaded:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case m.view == TrackListView && m.tracksLoaded:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchPlaylists() tea.Cmd {
	ctx, sess, lister := m.ctx, m.sess, m.lister
	return func() tea.Msg {
		playlists, err := lister.UserPlaylists(ctx, sess)
		return playlistsFetchedMsg(playlists, err)
	}
}

func (m *Model) fetchTracks(playlistID string) tea.Cmd {
	ctx, sess, syncer := m.ctx, m.sess, m.syncer
	return func() tea.Msg {
		playlist, items, err := syncer.Inventory(ctx, sess, playlistID)
		return tracksFetchedMsg(playlist, items, err)
	}
}

func (m *Model) startSync() tea.Cmd {
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	m.stopping = false
	m.last = tasks.Event{}

	sess, syncer, id := m.sess, m.syncer, m.selected.ID
	start := func() tea.Msg {
		run, err := syncer.Stream(ctx, sess, id)
		return syncStartedMsg(run, err)
	}
	return tea.Batch(m.spinner.Tick, start)
}

func (m *Model) stopSync() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func waitForEvent(run *tasks.Run) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-run.Events()
		if !ok {
			return syncCompleteMsg()
		}
		return progressMsg(ev)
	}
}

func (m *Model) renderPlaylistList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	if !m.playlistsLoaded {
		return fmt.Sprintf("%s Loading playlists...\n\n%s", m.spinner.View(), helpView)
	}
	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s\n\n%s", styles.err.Render(fmt.Sprintf("Error: %v", m.err)), m.playlistList.View(), helpView)
	}
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), helpView)
}

func (m *Model) renderTrackList() string {
	syncKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "download missing"))
	helpKeys := []key.Binding{syncKey, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.trackList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Download '%s'?", m.selected.Name))
	done := countDownloaded(m.items)
	info := fmt.Sprintf("\nTracks: %d\nAlready downloaded: %d\nTo fetch: %d\n", len(m.items), done, len(m.items)-done)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderSync() string {
	name := ""
	if m.selected != nil {
		name = m.selected.Name
	}
	title := styles.title.Render(fmt.Sprintf("Syncing '%s'", name))

	if m.summary == nil {
		return fmt.Sprintf("%s\n\n%s Fetching playlist...", title, m.spinner.View())
	}

	processed := len(m.summary.Events)
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", title)
	fmt.Fprintf(&b, "%s %d/%d\n\n", styles.bar(processed, m.summary.Total, barWidth), processed, m.summary.Total)

	if m.last.Index > 0 {
		status := styles.statusStyle(m.last.Kind()).Render(m.last.Status)
		fmt.Fprintf(&b, "%s [%d/%d] %s: %s\n", m.spinner.View(), m.last.Index, m.last.Total, m.last.SongLabel, status)
	} else {
		fmt.Fprintf(&b, "%s Working...\n", m.spinner.View())
	}

	fmt.Fprintf(&b, "\nDownloaded: %d  Skipped: %d  Failed: %d\n",
		m.summary.Downloaded, m.summary.Skipped, m.summary.Failed())

	if m.stopping {
		b.WriteString("\n" + styles.warn.Render("Stopping after the current track..."))
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.cancel, m.keys.quit})
	return fmt.Sprintf("%s\n%s", b.String(), helpView)
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.restart, m.keys.quit})

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(fmt.Sprintf("Sync failed: %v", m.err)), helpView)
	}

	if m.summary == nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render("No result available"), helpView)
	}

	s := m.summary
	title := styles.ok.Render("✓ Sync complete!")
	if !s.Completed {
		title = styles.warn.Render("Sync stopped")
	}

	info := fmt.Sprintf(
		"\nPlaylist: %s (%d tracks)\nFolder: %s\nDownloaded: %d\nSkipped: %d\nElapsed: %s",
		s.PlaylistName, s.Total, s.Folder, s.Downloaded, s.Skipped, s.Elapsed.Round(time.Second),
	)

	var failed string
	if s.Failed() > 0 {
		var events []tasks.Event
		for _, ev := range s.Events {
			if ev.Failed() {
				events = append(events, ev)
			}
		}
		failed = fmt.Sprintf("\n\n%s\n%s",
			styles.warn.Render(fmt.Sprintf("%d tracks failed:", s.Failed())),
			formatter.EventTable(events))
	}

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed, helpView)
}
