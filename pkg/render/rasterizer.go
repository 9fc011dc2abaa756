package render

import (
	"math"

	"github.com/taigrr/softraster/pkg/math3d"
)

// degenerateArea is the smallest |2 * signed area| (in square pixels) a
// triangle may have before every barycentric query against it reports
// "outside".
const degenerateArea = 1e-6

// degenerateWeights is returned for degenerate triangles. Its negative
// component classifies every pixel as outside.
var degenerateWeights = math3d.V3(-1, 1, 1)

// Barycentric returns the weights (u, v, w) of the point (px, py) relative
// to the 2D projection of tri, so that p = u*tri[0] + v*tri[1] + w*tri[2].
// The Z of each vertex is ignored.
func Barycentric(tri [3]math3d.Vec3, px, py float64) math3d.Vec3 {
	c := math3d.V3(tri[2].X-tri[0].X, tri[1].X-tri[0].X, tri[0].X-px).Cross(
		math3d.V3(tri[2].Y-tri[0].Y, tri[1].Y-tri[0].Y, tri[0].Y-py))
	if math.Abs(c.Z) < degenerateArea {
		return degenerateWeights
	}
	return math3d.V3(1-(c.X+c.Y)/c.Z, c.Y/c.Z, c.X/c.Z)
}

// inside reports whether all weights are non-negative. NaN weights are
// outside.
func inside(bc math3d.Vec3) bool {
	return bc.X >= 0 && bc.Y >= 0 && bc.Z >= 0
}

// FragmentFunc shades the pixel at barycentric weights bc. It returns false
// to discard the pixel.
type FragmentFunc func(bc math3d.Vec3) (Color, bool)

// RasterStats counts what happened to the pixels visited by the rasterizer.
type RasterStats struct {
	Faces    int // Triangles submitted
	Drawn    int // Pixels written to both buffers
	Culled   int // Pixels the fragment stage discarded
	Outside  int // Bounding-box pixels outside the triangle
	Occluded int // Pixels that failed the depth test
}

// Add accumulates o into s.
func (s *RasterStats) Add(o RasterStats) {
	s.Faces += o.Faces
	s.Drawn += o.Drawn
	s.Culled += o.Culled
	s.Outside += o.Outside
	s.Occluded += o.Occluded
}

// FillTriangle rasterizes the screen-space triangle tri into fb and zb.
//
// Every pixel of the truncated bounding box (inclusive, clamped to the
// buffers) is tested at its integer coordinates. Inside pixels get a depth
// interpolated linearly from the vertex Z values; the pixel is shaded only
// when that depth is strictly greater than the stored one, so equal depths
// keep the first triangle drawn. A shaded color updates both buffers; a
// discarded fragment leaves the depth buffer untouched.
func FillTriangle(tri [3]math3d.Vec3, fb *Framebuffer, zb *DepthBuffer, frag FragmentFunc) RasterStats {
	st := RasterStats{Faces: 1}

	x0, y0 := int(tri[0].X), int(tri[0].Y)
	x1, y1 := int(tri[1].X), int(tri[1].Y)
	x2, y2 := int(tri[2].X), int(tri[2].Y)

	xMin := max(min(x0, x1, x2), 0)
	xMax := min(max(x0, x1, x2), fb.Width-1, zb.Width-1)
	yMin := max(min(y0, y1, y2), 0)
	yMax := min(max(y0, y1, y2), fb.Height-1, zb.Height-1)

	for y := yMin; y <= yMax; y++ {
		for x := xMin; x <= xMax; x++ {
			bc := Barycentric(tri, float64(x), float64(y))
			if !inside(bc) {
				st.Outside++
				continue
			}

			z := tri[0].Z*bc.X + tri[1].Z*bc.Y + tri[2].Z*bc.Z
			if !(z > zb.Get(x, y)) {
				st.Occluded++
				continue
			}

			c, ok := frag(bc)
			if !ok {
				st.Culled++
				continue
			}
			zb.Set(x, y, z)
			fb.SetPixel(x, y, c)
			st.Drawn++
		}
	}
	return st
}
