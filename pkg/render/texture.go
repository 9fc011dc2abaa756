package render

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"log/slog"
	"math"
	"os"

	"github.com/taigrr/softraster/pkg/math3d"
	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// Sampler looks up a color for a texture coordinate. Only X (u) and Y (v)
// of uv are used.
type Sampler interface {
	Sample(uv math3d.Vec3) Color
}

// Texture holds a 2D image for nearest-neighbor texture mapping.
// Pixels are stored in image row order (row 0 at the top); Sample maps
// v=0 to the bottom row.
type Texture struct {
	Width  int
	Height int
	Pixels []Color // Row-major pixel data
}

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// LoadTexture loads a texture from an image file (PNG, JPEG, BMP, TIFF or
// WebP).
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return TextureFromImage(img), nil
}

// TextureFromImage creates a texture from an image.Image.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	tex := NewTexture(width, height)

	for y := range height {
		for x := range width {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// RGBA returns 16-bit values, scale to 8-bit
			tex.SetPixel(x, y, RGB(uint8(r>>8), uint8(g>>8), uint8(b>>8)))
		}
	}

	return tex
}

// NewSolidTexture creates a 1x1 texture of a single color.
func NewSolidTexture(c Color) *Texture {
	tex := NewTexture(1, 1)
	tex.Pixels[0] = c
	return tex
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			if (x/checkSize+y/checkSize)%2 == 0 {
				tex.SetPixel(x, y, c1)
			} else {
				tex.SetPixel(x, y, c2)
			}
		}
	}
	return tex
}

// SetPixel sets a pixel in the texture.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GetPixel returns the pixel at (x, y) with bounds checking.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// Sample returns the texel containing uv. Both axes wrap by modulo, and
// v=0 addresses the bottom row of the image. NaN coordinates and empty
// textures sample black.
func (t *Texture) Sample(uv math3d.Vec3) Color {
	if t.Width <= 0 || t.Height <= 0 {
		return ColorBlack
	}
	if math.IsNaN(uv.X) || math.IsNaN(uv.Y) || math.IsInf(uv.X, 0) || math.IsInf(uv.Y, 0) {
		Logger().Debug("texture: non-finite uv", slog.Float64("u", uv.X), slog.Float64("v", uv.Y))
		return ColorBlack
	}
	x := wrap(int(math.Floor(uv.X*float64(t.Width))), t.Width)
	row := wrap(int(math.Floor(uv.Y*float64(t.Height))), t.Height)
	return t.Pixels[(t.Height-1-row)*t.Width+x]
}

// wrap reduces x into [0, size).
func wrap(x, size int) int {
	x %= size
	if x < 0 {
		x += size
	}
	return x
}

// Shade scales each channel of c by intensity, clamped to [0, 1], and
// truncates to 8 bits.
func Shade(c Color, intensity float64) Color {
	intensity = math.Max(0, math.Min(1, intensity))
	return Color{
		R: uint8(float64(c.R) * intensity),
		G: uint8(float64(c.G) * intensity),
		B: uint8(float64(c.B) * intensity),
		A: 255,
	}
}
