// Package sizebox renders fixed-size blank blocks used as spacing between
// components.
package sizebox

import (
	"github.com/charmbracelet/lipgloss"
)

// Box is a Height x Width block of blank cells. A box that is not
// Transparent paints Color as its background.
type Box struct {
	Height      int
	Width       int
	Color       lipgloss.TerminalColor
	Transparent bool
}

// New returns a transparent 1x1 box.
func New() Box {
	return Box{Height: 1, Width: 1, Transparent: true}
}

// Vertical returns a transparent box Height lines tall.
func Vertical(height int) Box {
	b := New()
	b.Height = height
	return b
}

// Horizontal returns a transparent box Width cells wide.
func Horizontal(width int) Box {
	b := New()
	b.Width = width
	return b
}

// View renders the box. Non-positive sizes render nothing.
func (b Box) View() string {
	if b.Height <= 0 || b.Width <= 0 {
		return ""
	}
	st := lipgloss.NewStyle().Width(b.Width).Height(b.Height)
	if !b.Transparent && b.Color != nil {
		st = st.Background(b.Color)
	}
	return st.Render("")
}
