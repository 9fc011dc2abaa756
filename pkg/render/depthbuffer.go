package render

import (
	"log/slog"
	"math"
)

// DepthFar is the initial depth of every pixel. Larger depth values are
// nearer to the viewer, so the first depth test at any pixel passes.
const DepthFar = -math.MaxFloat64

// DepthBuffer is a per-pixel float store used for hidden surface removal.
// The convention is "greater wins": a fragment is visible when its depth is
// strictly greater than the stored value.
type DepthBuffer struct {
	Width  int
	Height int
	Depth  []float64 // Row-major depth data
}

// NewDepthBuffer creates a depth buffer with every pixel at DepthFar.
func NewDepthBuffer(width, height int) *DepthBuffer {
	zb := &DepthBuffer{
		Width:  width,
		Height: height,
		Depth:  make([]float64, width*height),
	}
	zb.Clear()
	return zb
}

// Clear resets every pixel to DepthFar.
func (zb *DepthBuffer) Clear() {
	zb.Fill(DepthFar)
}

// Fill sets every pixel to z.
func (zb *DepthBuffer) Fill(z float64) {
	for i := range zb.Depth {
		zb.Depth[i] = z
	}
}

// Get returns the depth at (x, y). Out-of-range reads return +Inf, which no
// fragment can beat.
func (zb *DepthBuffer) Get(x, y int) float64 {
	if x < 0 || x >= zb.Width || y < 0 || y >= zb.Height {
		return math.Inf(1)
	}
	return zb.Depth[y*zb.Width+x]
}

// Set stores depth z at (x, y). Out-of-range writes are logged and dropped.
func (zb *DepthBuffer) Set(x, y int, z float64) {
	if x < 0 || x >= zb.Width || y < 0 || y >= zb.Height {
		Logger().Warn("depthbuffer: out of bounds set",
			slog.Int("x", x), slog.Int("y", y),
			slog.Int("width", zb.Width), slog.Int("height", zb.Height))
		return
	}
	zb.Depth[y*zb.Width+x] = z
}
