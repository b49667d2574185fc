package loading

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/stretchr/testify/require"
)

func TestHiddenRendersNothing(t *testing.T) {
	m := New()
	require.False(t, m.Visible())
	require.Equal(t, "", m.View())
	require.Equal(t, "content", m.Overlay("content", 20, 5))
}

func TestShowStartsSpinner(t *testing.T) {
	m := New()
	cmd := m.Show()
	require.True(t, m.Visible())
	require.NotNil(t, cmd)
	_, ok := cmd().(spinner.TickMsg)
	require.True(t, ok)

	m.Label = "Deleting"
	require.Contains(t, m.View(), "Deleting")

	m.Hide()
	require.False(t, m.Visible())
}

func TestTicksOnlyWhileVisible(t *testing.T) {
	m := New()
	tick := m.spinner.Tick()
	_, cmd := m.Update(tick)
	require.Nil(t, cmd)

	m.Show()
	_, cmd = m.Update(tick)
	require.NotNil(t, cmd)
}

func TestOverlayCentersBox(t *testing.T) {
	m := New()
	m.Show()
	content := strings.Repeat("row\n", 11) + "row"

	out := m.Overlay(content, 30, 12)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 12)
	require.Contains(t, lines[0], "row")
	require.Contains(t, lines[11], "row")

	box := strings.Split(m.View(), "\n")
	top := (12 - len(box)) / 2
	require.Contains(t, lines[top], "╭")
	require.Contains(t, lines[top+len(box)-1], "╰")
}

func TestOverlayGrowsToFitBox(t *testing.T) {
	m := New()
	m.Show()
	out := m.Overlay("x", 0, 0)
	require.GreaterOrEqual(t, len(strings.Split(out, "\n")), len(strings.Split(m.View(), "\n")))
}
