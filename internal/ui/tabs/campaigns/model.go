// Package campaigns provides the campaign ROI tab: conversion funnel, cost
// efficiency, ROI ranking and the budget recommendation.
package campaigns

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/zai-dashboard-tui/internal/app"
	"github.com/j-veylop/zai-dashboard-tui/internal/ui/components"
)

type keyMap struct {
	Up   key.Binding
	Down key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// Model represents the campaign ROI tab state.
type Model struct {
	state         *app.State
	spinner       components.LoadingSpinner
	conversionBar components.RatioBar
	keys          keyMap
	viewport      viewport.Model
	width         int
	height        int
}

// New creates a new campaigns model.
func New(state *app.State) *Model {
	return &Model{
		state:         state,
		spinner:       components.NewSpinner("Running pipeline..."),
		conversionBar: components.NewRatioBar(true),
		keys:          defaultKeyMap(),
		viewport:      viewport.New(0, 0),
	}
}

// Init initializes the campaigns tab.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages for the campaigns tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case app.ReportReadyMsg:
		m.viewport.GotoTop()

	case tea.KeyMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// SetSize sets the available size for the campaigns tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Up, m.keys.Down}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{{m.keys.Up, m.keys.Down}}
}
