package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tempodl/internal/models"
	"github.com/desertthunder/tempodl/internal/tasks"
)

// recentLines is how many finished tracks the download view keeps on screen.
const recentLines = 6

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	TrackListView
	ConfirmView
	DownloadView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	cancel     context.CancelFunc
	engine     tasks.DownloadEngine
	playlistID string

	view     ViewState
	width    int
	height   int
	playlist *models.Playlist
	tracks   list.Model

	progressChan chan tasks.ProgressUpdate
	resultChan   chan downloadComplete
	last         tasks.ProgressUpdate
	finished     int
	recent       []string
	stopping     bool

	summary *models.RunSummary
	err     error

	spinner spinner.Model
	bar     progress.Model
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model for one playlist.
func NewModel(ctx context.Context, engine tasks.DownloadEngine, playlistID string) *Model {
	ctx, cancel := context.WithCancel(ctx)
	return &Model{
		ctx:        ctx,
		cancel:     cancel,
		engine:     engine,
		playlistID: playlistID,
		view:       LoadingView,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.title.MarginBottom(0))),
		bar:        progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Summary returns the result of the last completed download, if any.
func (m *Model) Summary() (*models.RunSummary, error) {
	return m.summary, m.err
}

// Init reads the playlist and starts the spinner.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchPlaylist(), m.spinner.Tick)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.playlist != nil {
			m.tracks.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) && !m.filtering() {
			return m.quit()
		}
		switch m.view {
		case TrackListView:
			return m.handleTrackListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateList(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgPlaylistFetched:
		data := msg.data.(playlistFetched)
		if data.err != nil {
			m.err = data.err
			m.view = ResultView
			return m, nil
		}
		m.playlist = data.playlist
		items := make([]list.Item, len(data.playlist.Tracks))
		for i, track := range data.playlist.Tracks {
			items[i] = trackItem{track: track}
		}
		m.tracks = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.tracks.Title = fmt.Sprintf("Tracks in '%s'", data.playlist.Title)
		m.tracks.SetSize(m.width-4, m.height-8)
		m.view = TrackListView
		return m, nil

	case MsgProgressUpdate:
		update := msg.data.(tasks.ProgressUpdate)
		m.last = update
		if update.Phase == tasks.TrackDone {
			m.finished++
			m.recent = append(m.recent, update.Message)
			if len(m.recent) > recentLines {
				m.recent = m.recent[len(m.recent)-recentLines:]
			}
		}
		return m, m.waitForProgress()

	case MsgDownloadComplete:
		data := msg.data.(downloadComplete)
		m.summary = data.summary
		m.err = data.err
		m.view = ResultView
		m.progressChan = nil
		m.resultChan = nil
		if m.stopping {
			return m, tea.Quit
		}
		return m, nil
	}
	return m, nil
}

// quit cancels the context. A running download keeps the program alive until its partial summary
// arrives, unless quit is pressed a second time.
func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.cancel()
	if m.view != DownloadView || m.resultChan == nil || m.stopping {
		return m, tea.Quit
	}
	m.stopping = true
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoadingView:
		return fmt.Sprintf("%s Reading playlist...\n", m.spinner.View())
	case TrackListView:
		return m.renderTrackList()
	case ConfirmView:
		return m.renderConfirm()
	case DownloadView:
		return m.renderDownload()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) filtering() bool {
	return m.view == TrackListView && m.tracks.FilterState() == list.Filtering
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.enter) && !m.filtering() {
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.tracks, cmd = m.tracks.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.no):
		m.view = TrackListView
		return m, nil
	case key.Matches(msg, m.keys.yes):
		return m, m.startDownload()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.restart) && m.playlist != nil {
		return m, m.startDownload()
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view != TrackListView {
		return m, nil
	}
	var cmd tea.Cmd
	m.tracks, cmd = m.tracks.Update(msg)
	return m, cmd
}

func (m *Model) fetchPlaylist() tea.Cmd {
	return func() tea.Msg {
		playlist, err := m.engine.Playlist(m.ctx, m.playlistID)
		return playlistFetchedMsg(playlist, err)
	}
}

func (m *Model) startDownload() tea.Cmd {
	m.view = DownloadView
	m.summary, m.err = nil, nil
	m.last = tasks.ProgressUpdate{}
	m.finished = 0
	m.recent = nil
	m.stopping = false

	progressChan := make(chan tasks.ProgressUpdate, 50)
	resultChan := make(chan downloadComplete, 1)
	m.progressChan, m.resultChan = progressChan, resultChan

	go func() {
		summary, err := m.engine.Download(m.ctx, m.playlist, progressChan)
		resultChan <- downloadComplete{summary: summary, err: err}
		close(progressChan)
	}()

	return tea.Batch(m.waitForProgress(), m.spinner.Tick)
}

func (m *Model) waitForProgress() tea.Cmd {
	progressChan, resultChan := m.progressChan, m.resultChan
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}

		update, ok := <-progressChan
		if !ok {
			res := <-resultChan
			return downloadCompleteMsg(res.summary, res.err)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderTrackList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.tracks.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Download '%s'?", m.playlist.Title))
	info := fmt.Sprintf("\nTracks: %d\nInto: %s\n", len(m.playlist.Tracks), m.engine.OutputDir(m.playlist.Title))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderDownload() string {
	title := styles.title.Render("Downloading Playlist")

	total := 0
	if m.playlist != nil {
		total = len(m.playlist.Tracks)
	}
	percent := 0.0
	if total > 0 {
		percent = float64(m.finished) / float64(total)
	}

	status := m.last.Message
	if m.stopping {
		status = "Stopping..."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n%s %s\n\n", title, m.spinner.View(), status)
	fmt.Fprintf(&b, "%s  %d/%d\n", m.bar.ViewAs(percent), m.finished, total)
	for _, line := range m.recent {
		fmt.Fprintf(&b, "\n  %s", line)
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.quit}))
	return b.String()
}

func (m *Model) renderResult() string {
	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.summary == nil {
		msg := "No result available"
		if m.err != nil {
			msg = fmt.Sprintf("Download failed: %v", m.err)
		}
		if m.playlist == nil {
			helpView = m.help.ShortHelpView([]key.Binding{m.keys.quit})
		}
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(msg), helpView)
	}

	var title string
	if m.err != nil {
		title = styles.warn.Render(fmt.Sprintf("Download interrupted: %v", m.err))
	} else {
		title = styles.ok.Render("✓ Download Complete!")
	}

	info := fmt.Sprintf(
		"\nPlaylist: %s\nDirectory: %s\nAttempted: %d  Succeeded: %d  Skipped: %d  Failed: %d",
		m.summary.Playlist.Title,
		m.summary.OutputDir,
		m.summary.Attempted,
		m.summary.Succeeded,
		m.summary.Skipped,
		m.summary.Failed,
	)

	var missed string
	if m.summary.Skipped+m.summary.Failed > 0 {
		missed = fmt.Sprintf("\n\n%s", styles.warn.Render("Not downloaded:"))
		for _, r := range m.summary.Results {
			switch r.Status {
			case models.StatusSkipped:
				missed += fmt.Sprintf("\n  • %s - %s (no match)", r.Track.Name, r.Track.Artist)
			case models.StatusFailed:
				missed += fmt.Sprintf("\n  • %s - %s (%v)", r.Track.Name, r.Track.Artist, r.Err)
			}
		}
	}

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, missed, helpView)
}
