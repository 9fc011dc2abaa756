package render

import (
	"github.com/taigrr/softraster/pkg/math3d"
)

// DrawWireframe outlines the screen-space triangle tri with lines of color
// c. Depth is ignored, so the outline always lands on top of filled faces.
// Triangles with a non-finite vertex are skipped.
func DrawWireframe(fb *Framebuffer, tri [3]math3d.Vec3, c Color) {
	for _, v := range tri {
		if !v.IsFinite() {
			return
		}
	}
	for i := range 3 {
		a, b := tri[i], tri[(i+1)%3]
		fb.DrawLine(int(a.X), int(a.Y), int(b.X), int(b.Y), c)
	}
}
