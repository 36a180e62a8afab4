// Package filters provides the filter editor tab: the date range and region
// set every report is computed under.
package filters

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/zai-dashboard-tui/internal/app"
	"github.com/j-veylop/zai-dashboard-tui/internal/models"
)

// Fixed rows above the region list.
const (
	rowFrom = iota
	rowTo
	rowRegions
)

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Earlier   key.Binding
	Later     key.Binding
	WeekBack  key.Binding
	WeekAhead key.Binding
	Toggle    key.Binding
	All       key.Binding
	Apply     key.Binding
	Reset     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Earlier: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "-1 day"),
		),
		Later: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "+1 day"),
		),
		WeekBack: key.NewBinding(
			key.WithKeys("H", "["),
			key.WithHelp("H", "-7 days"),
		),
		WeekAhead: key.NewBinding(
			key.WithKeys("L", "]"),
			key.WithHelp("L", "+7 days"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "toggle region"),
		),
		All: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "all/no regions"),
		),
		Apply: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
	}
}

// Model represents the filter editor. Edits go to a draft that is applied
// with enter; until then the current filter of the session is shown.
type Model struct {
	state  *app.State
	keys   keyMap
	width  int
	height int
	cursor int

	draft      models.Filter
	draftFor   string
	dirty      bool
	validation string
}

// New creates a new filters model.
func New(state *app.State) *Model {
	return &Model{
		state: state,
		keys:  defaultKeyMap(),
	}
}

// Init initializes the filters tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the filters tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.ArtistSelectedMsg:
		m.discard()
		m.cursor = rowFrom
	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)
	}
	return m, nil
}

// Current returns the filter being edited: the draft when there are unapplied
// edits for the selected artist, otherwise the session filter.
func (m *Model) Current() models.Filter {
	if m.dirty && m.draftFor == m.state.SelectedID() {
		return m.draft
	}
	return m.state.Filter()
}

// Dirty reports whether there are unapplied edits.
func (m *Model) Dirty() bool {
	return m.dirty && m.draftFor == m.state.SelectedID()
}

func (m *Model) edit(f models.Filter) {
	m.draft = f
	m.draftFor = m.state.SelectedID()
	m.dirty = true
	m.validation = ""
}

func (m *Model) discard() {
	m.dirty = false
	m.validation = ""
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if m.state.SelectedID() == "" {
		return nil
	}
	regions := m.state.Bounds().Regions
	rows := rowRegions + len(regions)
	// The selection may have changed while another tab was active.
	if m.cursor >= rows {
		m.cursor = rows - 1
	}
	f := m.Current()

	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor = (m.cursor - 1 + rows) % rows
	case key.Matches(msg, m.keys.Down):
		m.cursor = (m.cursor + 1) % rows
	case key.Matches(msg, m.keys.Earlier):
		m.shift(f, -1)
	case key.Matches(msg, m.keys.Later):
		m.shift(f, 1)
	case key.Matches(msg, m.keys.WeekBack):
		m.shift(f, -7)
	case key.Matches(msg, m.keys.WeekAhead):
		m.shift(f, 7)
	case key.Matches(msg, m.keys.Toggle):
		if m.cursor >= rowRegions {
			m.edit(f.ToggleRegion(regions[m.cursor-rowRegions]))
		}
	case key.Matches(msg, m.keys.All):
		m.toggleAll(f, regions)
	case key.Matches(msg, m.keys.Apply):
		return m.apply()
	case key.Matches(msg, m.keys.Reset):
		m.discard()
		reset := m.state.ResetFilter()
		return func() tea.Msg { return app.FilterChangedMsg{Filter: reset} }
	}
	return nil
}

func (m *Model) shift(f models.Filter, days int) {
	switch m.cursor {
	case rowFrom:
		m.edit(f.ShiftFrom(days))
	case rowTo:
		m.edit(f.ShiftTo(days))
	}
}

// toggleAll selects every region, or none when all are already selected.
func (m *Model) toggleAll(f models.Filter, regions []string) {
	if len(f.Regions) == len(regions) {
		f.Regions = []string{}
	} else {
		f.Regions = append([]string(nil), regions...)
	}
	m.edit(f)
}

// apply sends the draft to the pipeline. A range with from after to is
// refused here and left for the user to fix.
func (m *Model) apply() tea.Cmd {
	if !m.Dirty() {
		return nil
	}
	f := m.draft
	if f.From.After(f.To) {
		m.validation = "From is after To; adjust the range before applying."
		return nil
	}
	m.discard()
	return func() tea.Msg { return app.FilterChangedMsg{Filter: f} }
}

// SetSize sets the available size for the filters tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Earlier, m.keys.Later, m.keys.Toggle, m.keys.Apply, m.keys.Reset}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down},
		{m.keys.Earlier, m.keys.Later, m.keys.WeekBack, m.keys.WeekAhead},
		{m.keys.Toggle, m.keys.All},
		{m.keys.Apply, m.keys.Reset},
	}
}
