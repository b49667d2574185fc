// Package searchheader is a single-line search input. It reports edits as
// messages so the owner can react to every change of the query.
package searchheader

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ChangeTextMsg is emitted whenever the trimmed query changes.
type ChangeTextMsg struct{ Text string }

// SubmitMsg is emitted on enter.
type SubmitMsg struct{ Text string }

// CancelMsg is emitted on esc.
type CancelMsg struct{}

const DefaultPlaceholder = "Search"

type Model struct {
	input textinput.Model
	last  string
}

func New() Model {
	ti := textinput.New()
	ti.Placeholder = DefaultPlaceholder
	ti.Prompt = "/ "
	ti.CharLimit = 200
	ti.Width = 40
	return Model{input: ti}
}

func (m *Model) SetPlaceholder(p string) {
	if strings.TrimSpace(p) == "" {
		p = DefaultPlaceholder
	}
	m.input.Placeholder = p
}

func (m *Model) SetWidth(w int) {
	if w > 4 {
		m.input.Width = w - len(m.input.Prompt) - 1
	}
}

func (m *Model) Focus() tea.Cmd { return m.input.Focus() }
func (m *Model) Blur()          { m.input.Blur() }
func (m Model) Focused() bool   { return m.input.Focused() }

// Value returns the trimmed query.
func (m Model) Value() string { return strings.TrimSpace(m.input.Value()) }

// Clear empties the visible text without emitting ChangeTextMsg.
func (m *Model) Clear() {
	m.input.SetValue("")
	m.last = ""
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.input.Focused() {
		return m, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter":
			text := m.Value()
			return m, func() tea.Msg { return SubmitMsg{Text: text} }
		case "esc":
			return m, func() tea.Msg { return CancelMsg{} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if q := m.Value(); q != m.last {
		m.last = q
		return m, tea.Batch(cmd, func() tea.Msg { return ChangeTextMsg{Text: q} })
	}
	return m, cmd
}

func (m Model) View() string { return m.input.View() }
