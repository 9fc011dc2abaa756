package render

import (
	"image"
	"image/color"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
)

type cellGrid map[image.Point]*uv.Cell

func (g cellGrid) SetCell(x, y int, c *uv.Cell) {
	g[image.Pt(x, y)] = c
}

func TestFramebufferDraw(t *testing.T) {
	fb := NewFramebuffer(2, 4)
	rows := []Color{ColorRed, ColorGreen, ColorBlue, ColorWhite}
	for y, c := range rows {
		fb.SetPixel(0, y, c)
		fb.SetPixel(1, y, c)
	}

	grid := cellGrid{}
	fb.Draw(grid, image.Rect(3, 1, 5, 3))

	if len(grid) != 4 {
		t.Fatalf("wrote %d cells, want 4", len(grid))
	}

	tests := []struct {
		x, y   int
		fg, bg Color
	}{
		{3, 1, ColorRed, ColorGreen},
		{4, 1, ColorRed, ColorGreen},
		{3, 2, ColorBlue, ColorWhite},
		{4, 2, ColorBlue, ColorWhite},
	}
	for _, tt := range tests {
		c, ok := grid[image.Pt(tt.x, tt.y)]
		if !ok {
			t.Errorf("no cell at (%d, %d)", tt.x, tt.y)
			continue
		}
		if c.Content != "▀" {
			t.Errorf("cell (%d, %d) content = %q", tt.x, tt.y, c.Content)
		}
		if c.Style.Fg != color.Color(tt.fg) || c.Style.Bg != color.Color(tt.bg) {
			t.Errorf("cell (%d, %d) fg/bg = %v/%v, want %v/%v", tt.x, tt.y, c.Style.Fg, c.Style.Bg, tt.fg, tt.bg)
		}
	}
}

func TestFramebufferDrawScales(t *testing.T) {
	fb := NewFramebuffer(64, 64)
	fb.Clear(ColorGreen)

	grid := cellGrid{}
	fb.Draw(grid, image.Rect(0, 0, 10, 5))

	if len(grid) != 50 {
		t.Fatalf("wrote %d cells, want 50", len(grid))
	}
	for p, c := range grid {
		if c.Style.Fg != color.Color(ColorGreen) || c.Style.Bg != color.Color(ColorGreen) {
			t.Errorf("cell %v = %v/%v, want green", p, c.Style.Fg, c.Style.Bg)
		}
	}
}

func TestFramebufferDrawEmptyArea(t *testing.T) {
	grid := cellGrid{}
	NewFramebuffer(4, 4).Draw(grid, image.Rectangle{})
	if len(grid) != 0 {
		t.Errorf("wrote %d cells into an empty area", len(grid))
	}
}

func TestCellColorTransparent(t *testing.T) {
	if cellColor(Color{}) != nil {
		t.Error("transparent pixel should map to the default color")
	}
}
