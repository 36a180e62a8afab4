// Package artists provides the artist ranking tab, the dashboard's home page.
package artists

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/zai-dashboard-tui/internal/app"
	"github.com/j-veylop/zai-dashboard-tui/internal/config"
	"github.com/j-veylop/zai-dashboard-tui/internal/ui/components"
)

// keyMap defines the key bindings specific to the artists tab.
type keyMap struct {
	Next   key.Binding
	Prev   key.Binding
	First  key.Binding
	Last   key.Binding
	Select key.Binding
}

// defaultKeyMap returns the default key bindings for the artists tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "next artist"),
		),
		Prev: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "prev artist"),
		),
		First: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first artist"),
		),
		Last: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last artist"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open dashboard"),
		),
	}
}

// Model represents the artists tab state.
type Model struct {
	state    *app.State
	config   *config.Config
	spinner  components.LoadingSpinner
	keys     keyMap
	viewport viewport.Model
	width    int
	height   int
	cursor   int
}

// New creates a new artists model. cfg may be nil.
func New(state *app.State, cfg *config.Config) *Model {
	return &Model{
		state:    state,
		config:   cfg,
		spinner:  components.NewSpinner("Loading artists..."),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the artists tab.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages for the artists tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case app.ArtistSelectedMsg:
		m.moveTo(msg.ID)

	case app.CatalogLoadedMsg:
		m.clampCursor()

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
	count := len(m.state.Summaries())

	switch {
	case key.Matches(msg, m.keys.Next):
		if count > 0 {
			m.cursor = (m.cursor + 1) % count
		}
	case key.Matches(msg, m.keys.Prev):
		if count > 0 {
			m.cursor = (m.cursor - 1 + count) % count
		}
	case key.Matches(msg, m.keys.First):
		m.cursor = 0
	case key.Matches(msg, m.keys.Last):
		m.cursor = max(count-1, 0)
	case key.Matches(msg, m.keys.Select):
		if id := m.CursorID(); id != "" {
			return func() tea.Msg { return app.SelectArtistMsg{ID: id} }
		}
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

// CursorID returns the id of the artist under the cursor.
func (m *Model) CursorID() string {
	summaries := m.state.Summaries()
	if m.cursor < 0 || m.cursor >= len(summaries) {
		return ""
	}
	return summaries[m.cursor].Profile.ID
}

func (m *Model) moveTo(id string) {
	for i, s := range m.state.Summaries() {
		if s.Profile.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m *Model) clampCursor() {
	count := len(m.state.Summaries())
	if m.cursor >= count {
		m.cursor = max(count-1, 0)
	}
}

// SetSize sets the available size for the artists tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Next, m.keys.Prev, m.keys.Select}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Next, m.keys.Prev},
		{m.keys.First, m.keys.Last},
		{m.keys.Select},
	}
}
