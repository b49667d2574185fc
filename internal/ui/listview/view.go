package listview

import (
	"strings"

	"listkit/internal/ui/sizebox"
)

func (m Model[T]) View() string {
	var b strings.Builder
	if !m.cfg.DisableSearchBox {
		b.WriteString(m.search.View())
		b.WriteString("\n")
		b.WriteString(sizebox.Vertical(searchGap).View())
		b.WriteString("\n")
	}

	items := m.ctrl.Items()
	if m.ctrl.Refreshing() && len(items) == 0 {
		b.WriteString(m.indicatorView())
		return strings.TrimSuffix(b.String(), "\n")
	}

	b.WriteString(m.listView(items))
	b.WriteString(m.footerView())
	return b.String()
}

func (m Model[T]) indicatorView() string {
	switch m.cfg.LoadingType {
	case LoadingSpin:
		return m.spinner.View() + " " + m.styles.Footer.Render("Loading…")
	case LoadingNone:
		return ""
	}

	rows := m.cfg.PlaceholderRows
	if m.win.rows > 0 {
		rows = min(rows, m.win.rows)
	}
	width := 32
	if m.width > 8 {
		width = m.width - 4
	}
	var b strings.Builder
	for i := range rows {
		w := width
		if i%3 == 2 {
			w = width * 3 / 5
		}
		b.WriteString("  ")
		b.WriteString(m.styles.Placeholder.Render(strings.Repeat("░", max(w, 1))))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model[T]) listView(items []T) string {
	if len(items) == 0 {
		if !m.ctrl.Busy() && m.cfg.EmptyView != "" {
			return m.styles.Empty.Render(m.cfg.EmptyView) + "\n"
		}
		return ""
	}

	w := m.win
	w.clamp(len(items))
	start, end := w.visible(len(items))
	var b strings.Builder
	for i := start; i < end; i++ {
		selected := i == w.cursor
		line := m.cfg.RenderItem(items[i], i, selected)
		if selected {
			b.WriteString(m.styles.CursorBar.Render("▌ "))
			b.WriteString(m.styles.Selected.Render(line))
		} else {
			b.WriteString("  ")
			b.WriteString(m.styles.Row.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// footerView keeps a fixed-height row under the list so the layout does not
// jump when a page starts or stops loading.
func (m Model[T]) footerView() string {
	if m.ctrl.LoadingMore() {
		return m.spinner.View() + " " + m.styles.Footer.Render("Loading more…")
	}
	return sizebox.Vertical(footerHeight).View()
}
