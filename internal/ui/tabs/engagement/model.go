// Package engagement provides the engagement tab: KPIs, the stream trend and
// the track performance matrix of the selected artist.
package engagement

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/zai-dashboard-tui/internal/app"
	"github.com/j-veylop/zai-dashboard-tui/internal/ui/components"
)

// maxTrackRows bounds the rows of the track table.
const maxTrackRows = 10

type keyMap struct {
	NextTrack key.Binding
	PrevTrack key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextTrack: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "next track"),
		),
		PrevTrack: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "prev track"),
		),
	}
}

// Model represents the engagement tab state.
type Model struct {
	state    *app.State
	spinner  components.LoadingSpinner
	skipBar  components.RatioBar
	keys     keyMap
	viewport viewport.Model
	width    int
	height   int
	track    int
}

// New creates a new engagement model.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		spinner:  components.NewSpinner("Running pipeline..."),
		skipBar:  components.NewRatioBar(false),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the engagement tab.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages for the engagement tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case app.ReportReadyMsg, app.ArtistSelectedMsg:
		m.track = 0
		m.viewport.GotoTop()

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	count := m.trackCount()

	switch {
	case key.Matches(msg, m.keys.NextTrack):
		if count > 0 {
			m.track = (m.track + 1) % count
		}
	case key.Matches(msg, m.keys.PrevTrack):
		if count > 0 {
			m.track = (m.track - 1 + count) % count
		}
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

// trackCount is the number of rows shown in the track table.
func (m *Model) trackCount() int {
	report, _ := m.state.Report()
	if report == nil || report.Tracks == nil {
		return 0
	}
	return min(len(report.Tracks.Ranked), maxTrackRows)
}

// SetSize sets the available size for the engagement tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.NextTrack, m.keys.PrevTrack}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{{m.keys.NextTrack, m.keys.PrevTrack}}
}
