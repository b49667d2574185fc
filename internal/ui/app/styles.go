package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("#8942E1"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981"))
	warnStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F59E0B"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	dividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3AC4BA"))
)

// renderFooter joins an optional status line and the help lines.
func renderFooter(statusLine string, helpLines ...string) string {
	var b strings.Builder
	if statusLine != "" {
		b.WriteString(statusLine + "\n")
	}
	for _, line := range helpLines {
		b.WriteString(helpStyle.Render(line) + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
