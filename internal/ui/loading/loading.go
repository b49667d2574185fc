// Package loading provides a modal loading indicator drawn over a dimmed
// backdrop of the underlying view.
package loading

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#8942E1")).
			Padding(1, 3)
	backdropStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Faint(true)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Model is the modal indicator. Label is drawn beside the spinner when set.
type Model struct {
	Label   string
	visible bool
	spinner spinner.Model
}

// New returns a hidden indicator.
func New() Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#3AC4BA"))
	return Model{spinner: sp}
}

// Show makes the modal visible and starts the spinner.
func (m *Model) Show() tea.Cmd {
	m.visible = true
	return m.spinner.Tick
}

// Hide dismisses the modal. Pending spinner ticks are ignored afterwards.
func (m *Model) Hide() { m.visible = false }

func (m Model) Visible() bool { return m.visible }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); ok && m.visible {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the modal box alone, or nothing when hidden.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	body := m.spinner.View()
	if m.Label != "" {
		body += " " + labelStyle.Render(m.Label)
	}
	return boxStyle.Render(body)
}

// Overlay draws the modal centered over content using a width x height
// canvas. Content is dimmed to act as the backdrop; the rows covered by the
// box show only the box. Hidden modals return content unchanged.
func (m Model) Overlay(content string, width, height int) string {
	if !m.visible {
		return content
	}
	lines := strings.Split(ansi.Strip(content), "\n")
	if height <= 0 {
		height = len(lines)
	}
	box := m.View()
	boxLines := strings.Split(box, "\n")
	if height < len(boxLines) {
		height = len(boxLines)
	}
	if width <= 0 {
		width = lipgloss.Width(box)
		for _, l := range lines {
			width = max(width, lipgloss.Width(l))
		}
	}

	top := (height - len(boxLines)) / 2
	out := make([]string, height)
	for i := range out {
		if j := i - top; j >= 0 && j < len(boxLines) {
			out[i] = lipgloss.PlaceHorizontal(width, lipgloss.Center, boxLines[j])
			continue
		}
		line := ""
		if i < len(lines) {
			line = ansi.Truncate(lines[i], width, "")
		}
		out[i] = backdropStyle.Render(line)
	}
	return strings.Join(out, "\n")
}
