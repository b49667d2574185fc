package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	view := lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), m.list.View(), m.renderFooter())
	return m.modal.Overlay(view, m.width, m.height)
}

func (m Model) renderHeader() string {
	return titleStyle.Render(m.opts.Title) + "\n" +
		dividerStyle.Render(strings.Repeat("─", max(10, m.width-2)))
}

func (m Model) renderFooter() string {
	return renderFooter(m.statusLine(), m.help.View(m.keys))
}

func (m Model) statusLine() string {
	var conn string
	switch {
	case m.monitor.Offline():
		conn = warnStyle.Render("offline (manual)")
	case m.monitor.Connected():
		conn = okStyle.Render("online")
	default:
		conn = errorStyle.Render("offline")
	}
	ctrl := m.list.Controller()
	parts := []string{conn, subtleStyle.Render(fmt.Sprintf("page %d · %d items", ctrl.Page(), len(ctrl.Items())))}
	if q := ctrl.SearchText(); q != "" {
		parts = append(parts, subtleStyle.Render(fmt.Sprintf("search %q", q)))
	}
	if m.lastErr != nil {
		parts = append(parts, errorStyle.Render("error: "+m.lastErr.Error()))
	} else if m.status != "" {
		parts = append(parts, subtleStyle.Render(m.status))
	}
	return strings.Join(parts, subtleStyle.Render(" · "))
}
