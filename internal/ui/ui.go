package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/theirix/dmix/internal/models"
	"github.com/theirix/dmix/internal/shared"
	"github.com/theirix/dmix/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistListView ViewState = iota
	SongListView
	ConfirmView
	LoadingView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	client       tasks.Client
	engine       *tasks.QueueEngine
	width        int
	height       int
	playlistList list.Model
	playlists    []models.Playlist
	songList     list.Model
	selected     *models.PlaylistExport
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.LoadResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, client tasks.Client, engine *tasks.QueueEngine) *Model {
	return &Model{
		ctx:    ctx,
		view:   PlaylistListView,
		client: client,
		engine: engine,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init initializes the TUI by fetching stored playlists from the daemon.
func (m *Model) Init() tea.Cmd {
	return m.fetchPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.playlistList.Width() == 0 {
			m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.songList.Width() == 0 {
			m.songList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case SongListView:
			return m.handleSongListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case playlistsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.playlists = msg.playlists
		items := make([]list.Item, len(msg.playlists))
		for i, pl := range msg.playlists {
			items[i] = playlistItem{playlist: pl}
		}
		m.playlistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.playlistList.Title = "Stored Playlists"
		m.playlistList.SetSize(m.width-4, m.height-8)
		return m, nil

	case songsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = PlaylistListView
			return m, nil
		}
		m.selected = msg.export
		items := make([]list.Item, len(msg.export.Songs))
		for i := range msg.export.Songs {
			items[i] = songItem{song: msg.export.Songs[i]}
		}
		m.songList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.songList.Title = fmt.Sprintf("Songs in '%s'", msg.export.Playlist.Name)
		m.songList.SetSize(m.width-4, m.height-8)
		m.view = SongListView
		return m, nil

	case progressMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case loadDoneMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case PlaylistListView:
		return m.renderPlaylistList()
	case SongListView:
		return m.renderSongList()
	case ConfirmView:
		return m.renderConfirm()
	case LoadingView:
		return m.renderLoading()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.playlistList.SelectedItem()
		if selected != nil {
			if pl, ok := selected.(playlistItem); ok {
				return m, m.fetchSongs(pl.playlist.Name)
			}
		}
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleSongListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = PlaylistListView
		return m, nil
	case "enter":
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = SongListView
		return m, nil
	case "y":
		m.view = LoadingView
		return m, m.startLoad()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = PlaylistListView
		m.selected = nil
		m.result = nil
		m.err = nil
		return m, m.fetchPlaylists()
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case SongListView:
		m.songList, cmd = m.songList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.client.ListPlaylists(m.ctx)
		return playlistsFetchedMsg{playlists: playlists, err: err}
	}
}

func (m *Model) fetchSongs(name string) tea.Cmd {
	return func() tea.Msg {
		songs, err := m.client.PlaylistSongs(m.ctx, name)
		if err != nil {
			return songsFetchedMsg{err: err}
		}
		export := &models.PlaylistExport{
			Playlist: models.Playlist{Name: name, SongCount: len(songs)},
			Songs:    songs,
		}
		return songsFetchedMsg{export: export}
	}
}

func (m *Model) startLoad() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	name := m.selected.Playlist.Name
	go func() {
		result, err := m.engine.Load(m.ctx, m.progressChan, name, true)
		m.result = result
		m.err = err
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return loadDoneMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return loadDoneMsg{result: m.result, err: m.err}
		}
		return progressMsg(update)
	}
}

func (m *Model) renderPlaylistList() string {
	helpKeys := []key.Binding{m.keys.preview, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), helpView)
}

func (m *Model) renderSongList() string {
	helpKeys := []key.Binding{m.keys.load, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.songList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Replace the queue with '%s'?", m.selected.Playlist.Name))

	var total int
	for _, song := range m.selected.Songs {
		total += song.Duration
	}
	info := fmt.Sprintf(
		"\nPlaylist: %s\nSongs: %d\nDuration: %s\n\n%s\n",
		m.selected.Playlist.Name,
		len(m.selected.Songs),
		shared.FormatDuration(total),
		styles.warn.Render("The current queue will be cleared first."),
	)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderLoading() string {
	title := styles.title.Render("Loading Playlist")

	var phase string
	switch m.progress.Phase {
	case tasks.ClearQueue:
		phase = "Clearing the queue..."
	case tasks.LoadPlaylist:
		phase = fmt.Sprintf("Loading '%s'...", m.selected.Playlist.Name)
	case tasks.FetchStatus, tasks.FetchQueue, tasks.ApplyChanges:
		phase = "Syncing the queue mirror..."
	default:
		phase = "Working..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Load failed: %v\n\nPress r to start over, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to start over, q to quit")
	}

	title := styles.ok.Render("✓ Queue loaded")
	state := "unknown"
	if m.result.Status != nil {
		state = m.result.Status.State
	}
	info := fmt.Sprintf(
		"\nPlaylist: %s\nQueued: %d songs\nDaemon state: %s\n",
		m.result.Playlist,
		m.result.Queued,
		state,
	)

	// The mirror was resynchronized by the load, show the head of the queue.
	var next string
	shown := 0
	for pos, song := range m.engine.Mirror().Songs() {
		if song == nil {
			continue
		}
		next += fmt.Sprintf("  %2d. %s - %s\n", pos+1, song.DisplayArtist(), song.DisplayTitle())
		if shown++; shown == 8 {
			break
		}
	}
	if next != "" {
		next = fmt.Sprintf("\n%s\n%s", styles.warn.Render("Up next:"), next)
		if m.result.Queued > shown {
			next += styles.muted.Render(fmt.Sprintf("  ... and %d more\n", m.result.Queued-shown))
		}
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, next, helpView)
}
