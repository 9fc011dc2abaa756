package render

import (
	"github.com/taigrr/softraster/pkg/math3d"
)

// DepthResolution is the span of screen-space z produced by the viewport
// matrix. Object-space z in [-1, 1] maps to [0, DepthResolution].
const DepthResolution = 65536.0

// World owns the camera, projection and viewport matrices and their
// composite. The composite is recomputed by every mutator, so it is never
// stale when a shader reads it.
//
// A zero-configured World (NewWorld) uses identity matrices everywhere,
// which passes object coordinates straight through to screen space.
type World struct {
	lightDir   math3d.Vec3
	modelView  math3d.Mat4
	projection math3d.Mat4
	viewport   math3d.Mat4
	m          math3d.Mat4 // viewport * projection * modelView
}

// NewWorld creates a world with identity transforms and the light shining
// down -Z.
func NewWorld() *World {
	w := &World{
		lightDir:   math3d.V3(0, 0, -1),
		modelView:  math3d.Identity(),
		projection: math3d.Identity(),
		viewport:   math3d.Identity(),
	}
	w.update()
	return w
}

// SetLightDir sets the light direction. It need not be normalized; shaders
// normalize it where it is used.
func (w *World) SetLightDir(dir math3d.Vec3) {
	w.lightDir = dir
	w.update()
}

// LookAt points the camera from eye towards center. The model-view matrix
// is the orthonormal basis
//
//	z = normalize(eye - center)
//	x = normalize(up × z)
//	y = normalize(z × x)
//
// applied after translating center to the origin, and the projection gains
// the weak-perspective term -1/|eye - center| in row 3, column 2.
func (w *World) LookAt(eye, center, up math3d.Vec3) {
	z := eye.Sub(center).Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x).Normalize()

	minv := math3d.Identity()
	tr := math3d.Identity()
	for i := range 3 {
		minv.Set(0, i, x.Index(i))
		minv.Set(1, i, y.Index(i))
		minv.Set(2, i, z.Index(i))
		tr.Set(i, 3, -center.Index(i))
	}
	w.modelView = minv.Mul(tr)
	w.projection.Set(3, 2, -1/eye.Sub(center).Len())
	w.update()
}

// SetViewport maps normalized coordinates [-1, 1] onto the pixel rectangle
// at (x, y) with size width x height, and z onto [0, DepthResolution].
func (w *World) SetViewport(x, y, width, height int) {
	fx, fy := float64(x), float64(y)
	fw, fh := float64(width), float64(height)

	m := math3d.Identity()
	m.Set(0, 3, fx+fw/2)
	m.Set(1, 3, fy+fh/2)
	m.Set(2, 3, DepthResolution/2)

	m.Set(0, 0, fw/2)
	m.Set(1, 1, fh/2)
	m.Set(2, 2, DepthResolution/2)
	w.viewport = m
	w.update()
}

func (w *World) update() {
	w.m = w.viewport.Mul(w.projection).Mul(w.modelView)
}

// LightDir returns the light direction as set.
func (w *World) LightDir() math3d.Vec3 { return w.lightDir }

// ModelView returns the camera matrix.
func (w *World) ModelView() math3d.Mat4 { return w.modelView }

// Projection returns the projection matrix.
func (w *World) Projection() math3d.Mat4 { return w.projection }

// Viewport returns the viewport matrix.
func (w *World) Viewport() math3d.Mat4 { return w.viewport }

// Transform returns the composite viewport * projection * modelView.
func (w *World) Transform() math3d.Mat4 { return w.m }

// Project maps an object-space point to screen space.
func (w *World) Project(v math3d.Vec3) math3d.Vec3 {
	return w.m.Transform(v)
}
