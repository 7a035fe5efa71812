package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/VoxDroid/taxis/internal/listing"
	"github.com/VoxDroid/taxis/internal/messages"
	"github.com/VoxDroid/taxis/internal/taxi"
	"github.com/VoxDroid/taxis/internal/tui/sanitize"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0ea5a4")).Background(lipgloss.Color("#0b1226"))
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0ea5a4"))
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	dangerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ef4444"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8")).Italic(true)
)

// View renders the title, search box, list and messages.
func (m *TuiModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title()) + "\n")
	b.WriteString(m.input.View() + "\n\n")
	b.WriteString(m.vp.View() + "\n")
	for _, msg := range m.ctrl.Messages().All() {
		b.WriteString(renderMessage(msg) + "\n")
	}
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m *TuiModel) title() string {
	n := m.ctrl.TaxisList().Count()
	noun := "taxis"
	if n == 1 {
		noun = "taxi"
	}
	t := fmt.Sprintf(" taxis: %s %s ", humanize.Comma(int64(n)), noun)
	if m.loading {
		t += "(loading) "
	}
	return t
}

func (m *TuiModel) help() string {
	fuzzy := "off"
	if m.fuzzy {
		fuzzy = "on"
	}
	return fmt.Sprintf("ctrl+d details · ctrl+f fuzzy (%s) · ctrl+r refresh · esc quit", fuzzy)
}

func (m *TuiModel) messageLines() int {
	return m.ctrl.Messages().Len()
}

// refreshContent re-renders the grouped list into the viewport.
func (m *TuiModel) refreshContent() {
	m.vp.SetContent(renderList(m.ctrl.TaxisList(), m.ctrl.Details(), m.ctrl.Search()))
}

func renderMessage(msg messages.Message) string {
	text := string(msg.Severity) + ": " + sanitize.Text(msg.Text)
	if msg.Severity == messages.Danger {
		return dangerStyle.Render(text)
	}
	return text
}

// renderList renders headings in sorted order with their taxis underneath.
func renderList(h listing.Headings, details bool, search string) string {
	if h.Count() == 0 {
		if search != "" {
			return fmt.Sprintf("No taxis match %q", sanitize.Text(search))
		}
		return "No taxis"
	}
	var b strings.Builder
	for i, key := range h.Keys() {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(headingStyle.Render(sanitize.Text(key)) + "\n")
		for _, t := range h[key] {
			b.WriteString("  " + sanitize.Text(t.Registration))
			if details {
				b.WriteString("  " + detailStyle.Render(formatDetails(t)))
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func formatDetails(t taxi.Taxi) string {
	parts := []string{"seat " + sanitize.Text(t.Seat), "#" + t.ID.String()}
	for _, k := range t.ExtraKeys() {
		parts = append(parts, sanitize.Text(k)+"="+sanitize.Text(fmt.Sprint(t.Extra[k])))
	}
	return strings.Join(parts, "  ")
}
