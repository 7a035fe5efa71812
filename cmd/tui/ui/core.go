// Package ui implements the Bubble Tea front end of `taxis tui`: a search box
// over the grouped taxi list.
package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// title, search box, blank line, help line
	chromeLines = 4
)

// TuiModel is the Bubble Tea model used by cmd/tui.
type TuiModel struct {
	ctrl  Controller
	input textinput.Model
	vp    viewport.Model

	width  int
	height int

	fuzzy   bool
	loading bool
}

// loadDoneMsg is sent when a Load or Refresh issued by the model returns.
type loadDoneMsg struct{}

// NewModel constructs the TUI model over ctrl. The search box starts with
// the controller's current search.
func NewModel(ctrl Controller) *TuiModel {
	in := textinput.New()
	in.Prompt = "search: "
	in.Placeholder = "registration, seat or any field"
	in.SetValue(ctrl.Search())
	in.Focus()

	m := &TuiModel{ctrl: ctrl, input: in, width: defaultWidth, height: defaultHeight}
	m.ensureViewportSize(defaultWidth, defaultHeight-chromeLines)
	return m
}

// NewProgram constructs the tea.Program for the TUI.
func NewProgram(ctrl Controller) *tea.Program {
	return tea.NewProgram(NewModel(ctrl), tea.WithAltScreen())
}

// Init issues the initial list query.
func (m *TuiModel) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(textinput.Blink, m.loadCmd(m.ctrl.Load))
}

func (m *TuiModel) loadCmd(fn func(context.Context)) tea.Cmd {
	return func() tea.Msg {
		fn(context.Background())
		return loadDoneMsg{}
	}
}
