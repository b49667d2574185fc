package listview

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Row         lipgloss.Style
	Selected    lipgloss.Style
	CursorBar   lipgloss.Style
	Placeholder lipgloss.Style
	Empty       lipgloss.Style
	Footer      lipgloss.Style
	Spinner     lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Row:         lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Selected:    lipgloss.NewStyle().Background(lipgloss.Color("#2A2B3D")).Bold(true),
		CursorBar:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAB78")),
		Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("237")),
		Empty:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Footer:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Spinner:     lipgloss.NewStyle().Foreground(lipgloss.Color("#3AC4BA")),
	}
}
