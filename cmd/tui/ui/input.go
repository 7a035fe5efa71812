package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles key presses, resizes and load completions.
func (m *TuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = msg.Width - len(m.input.Prompt) - 1
		m.ensureViewportSize(msg.Width, msg.Height-chromeLines-m.messageLines())
		m.refreshContent()
		return m, nil

	case loadDoneMsg:
		m.loading = false
		m.ensureViewportSize(m.width, m.height-chromeLines-m.messageLines())
		m.refreshContent()
		return m, nil

	case tea.KeyMsg:
		// global keybindings handled BEFORE passing to the search box so
		// they are not typed into it.
		switch msg.String() {
		case "ctrl+c", "esc":
			m.ctrl.Close()
			return m, tea.Quit
		case "ctrl+d":
			m.ctrl.ToggleDetails()
			m.refreshContent()
			return m, nil
		case "ctrl+f":
			m.fuzzy = !m.fuzzy
			m.ctrl.SetFuzzy(m.fuzzy)
			m.refreshContent()
			return m, nil
		case "ctrl+r":
			if m.loading {
				return m, nil
			}
			m.loading = true
			return m, m.loadCmd(m.ctrl.Refresh)
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.vp, cmd = m.vp.Update(msg)
			return m, cmd
		}

		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if v := m.input.Value(); v != before {
			m.ctrl.SetSearch(v)
			m.vp.GotoTop()
			m.refreshContent()
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}
