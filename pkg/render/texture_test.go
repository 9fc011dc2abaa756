package render

import (
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/softraster/pkg/math3d"
)

// quadTexture returns a 2x2 texture laid out (image rows, top first):
//
//	red   green
//	blue  white
func quadTexture() *Texture {
	tex := NewTexture(2, 2)
	tex.SetPixel(0, 0, ColorRed)
	tex.SetPixel(1, 0, ColorGreen)
	tex.SetPixel(0, 1, ColorBlue)
	tex.SetPixel(1, 1, ColorWhite)
	return tex
}

func TestTextureSample(t *testing.T) {
	tex := quadTexture()

	tests := []struct {
		name string
		u, v float64
		want Color
	}{
		{"origin is bottom left", 0, 0, ColorBlue},
		{"bottom right", 0.75, 0.25, ColorWhite},
		{"top left", 0.25, 0.75, ColorRed},
		{"top right", 0.75, 0.75, ColorGreen},
		{"wraps above one", 1.25, 0.25, ColorBlue},
		{"wraps below zero", -0.25, 0, ColorWhite},
		{"wraps v", 0.25, -0.25, ColorRed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tex.Sample(math3d.V3(tt.u, tt.v, 0)); got != tt.want {
				t.Errorf("Sample(%v, %v) = %v, want %v", tt.u, tt.v, got, tt.want)
			}
		})
	}
}

func TestTextureSampleNonFinite(t *testing.T) {
	tex := NewSolidTexture(ColorWhite)
	for _, uv := range []math3d.Vec3{
		math3d.V3(math.NaN(), 0, 0),
		math3d.V3(0, math.Inf(1), 0),
	} {
		if got := tex.Sample(uv); got != ColorBlack {
			t.Errorf("Sample(%v) = %v, want black", uv, got)
		}
	}
}

func TestTextureSampleEmpty(t *testing.T) {
	for name, tex := range map[string]*Texture{
		"new":        NewTexture(0, 0),
		"zero width": NewTexture(0, 4),
		"from image": TextureFromImage(image.NewRGBA(image.Rect(0, 0, 0, 0))),
	} {
		t.Run(name, func(t *testing.T) {
			if got := tex.Sample(math3d.V3(0.5, 0.5, 0)); got != ColorBlack {
				t.Errorf("Sample = %v, want black", got)
			}
		})
	}
}

func TestShade(t *testing.T) {
	c := RGB(200, 100, 50)
	tests := []struct {
		name      string
		intensity float64
		want      Color
	}{
		{"full", 1, RGB(200, 100, 50)},
		{"half", 0.5, RGB(100, 50, 25)},
		{"clamped high", 2, RGB(200, 100, 50)},
		{"clamped low", -1, RGB(0, 0, 0)},
		{"truncates", 0.999, RGB(199, 99, 49)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Shade(c, tt.intensity); got != tt.want {
				t.Errorf("Shade(%v) = %v, want %v", tt.intensity, got, tt.want)
			}
		})
	}
}

func TestTextureFromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(5, 5, 7, 6))
	img.Set(5, 5, color.RGBA{10, 20, 30, 255})
	img.Set(6, 5, color.RGBA{40, 50, 60, 255})

	tex := TextureFromImage(img)
	if tex.Width != 2 || tex.Height != 1 {
		t.Fatalf("size = %dx%d, want 2x1", tex.Width, tex.Height)
	}
	if got := tex.GetPixel(1, 0); got != RGB(40, 50, 60) {
		t.Errorf("GetPixel(1, 0) = %v", got)
	}
	if got := tex.GetPixel(2, 0); got != (Color{}) {
		t.Errorf("out of range GetPixel = %v, want zero", got)
	}
}

func TestCheckerTexture(t *testing.T) {
	tex := NewCheckerTexture(4, 4, 2, ColorWhite, ColorBlack)
	if tex.GetPixel(0, 0) != ColorWhite || tex.GetPixel(2, 0) != ColorBlack || tex.GetPixel(2, 2) != ColorWhite {
		t.Error("unexpected checker layout")
	}
}

func TestLoadTexture(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	fb.SetPixel(1, 1, ColorRed)
	path := filepath.Join(t.TempDir(), "tex.png")
	if err := fb.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}

	tex, err := LoadTexture(path)
	if err != nil {
		t.Fatalf("LoadTexture: %v", err)
	}
	if got := tex.GetPixel(1, 1); got != ColorRed {
		t.Errorf("GetPixel(1, 1) = %v, want red", got)
	}
}

func TestLoadTextureErrors(t *testing.T) {
	if _, err := LoadTexture(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "junk.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTexture(path); err == nil {
		t.Error("expected error for undecodable file")
	}
}
