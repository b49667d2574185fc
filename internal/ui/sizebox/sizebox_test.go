package sizebox

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestBoxDimensions(t *testing.T) {
	tests := []struct {
		name          string
		box           Box
		width, height int
	}{
		{"default", New(), 1, 1},
		{"vertical", Vertical(3), 1, 3},
		{"horizontal", Horizontal(8), 8, 1},
		{"opaque", Box{Height: 2, Width: 4, Color: lipgloss.Color("#3AC4BA")}, 4, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.box.View()
			if got := lipgloss.Width(v); got != tt.width {
				t.Fatalf("width = %d, want %d", got, tt.width)
			}
			if got := lipgloss.Height(v); got != tt.height {
				t.Fatalf("height = %d, want %d", got, tt.height)
			}
		})
	}
}

func TestTransparentBoxIsBlank(t *testing.T) {
	v := Vertical(2).View()
	if strings.TrimSpace(v) != "" {
		t.Fatalf("expected blank box, got %q", v)
	}
}

func TestEmptyBox(t *testing.T) {
	if v := (Box{}).View(); v != "" {
		t.Fatalf("zero box should render nothing, got %q", v)
	}
	if v := Vertical(0).View(); v != "" {
		t.Fatalf("zero height should render nothing, got %q", v)
	}
}
