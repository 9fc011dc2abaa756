package render

import (
	"context"
	"iter"
	"log/slog"

	"github.com/taigrr/softraster/pkg/math3d"
	"github.com/taigrr/softraster/pkg/models"
)

// Shader is one rendering pass over the faces of a mesh.
//
// A shader is bound to a framebuffer, a depth buffer and a texture when it
// is created and is the only writer to those buffers until the pass ends.
// Vertex overwrites all per-face state, so nothing carries over from one
// face to the next.
type Shader interface {
	// Vertex transforms the face into screen space and prepares the
	// per-face state Fragment reads.
	Vertex(w *World, f models.Face) [3]math3d.Vec3
	// Fragment shades the pixel at barycentric weights bc of the current
	// face. It returns false when the pixel should be discarded, e.g.
	// because it faces away from the light.
	Fragment(w *World, bc math3d.Vec3) (Color, bool)
	// DrawFace runs Vertex and rasterizes the result, calling Fragment for
	// every covered pixel that passes the depth test.
	DrawFace(w *World, f models.Face)
}

// pass holds the bindings and per-face state shared by the shaders.
type pass struct {
	fb  *Framebuffer
	zb  *DepthBuffer
	tex Sampler

	screen [3]math3d.Vec3 // Screen-space vertices of the current face
	uvs    [3]math3d.Vec3 // Texture coordinates of the current face
	stats  RasterStats
}

func newPass(tex Sampler, fb *Framebuffer, zb *DepthBuffer) pass {
	if tex == nil {
		tex = NewSolidTexture(ColorWhite)
	}
	return pass{fb: fb, zb: zb, tex: tex}
}

// project transforms the face through the world's composite matrix.
func (p *pass) project(w *World, f models.Face) {
	m := w.Transform()
	for i := range 3 {
		p.screen[i] = m.Transform(f.Vertices[i])
		p.uvs[i] = f.TexCoords[i]
	}
}

// sample returns the texture color at barycentric weights bc.
func (p *pass) sample(bc math3d.Vec3) Color {
	return p.tex.Sample(math3d.Weighted(p.uvs[0], p.uvs[1], p.uvs[2], bc))
}

func (p *pass) rasterize(frag FragmentFunc) {
	st := FillTriangle(p.screen, p.fb, p.zb, frag)
	p.stats.Add(st)

	if l := Logger(); l.Enabled(context.Background(), slog.LevelDebug) {
		l.Debug("face rasterized",
			slog.Int("drawn", st.Drawn),
			slog.Int("culled", st.Culled),
			slog.Int("outside", st.Outside),
			slog.Int("occluded", st.Occluded))
	}
}

// Screen returns the screen-space vertices of the most recent face.
func (p *pass) Screen() [3]math3d.Vec3 { return p.screen }

// Stats returns the pixel counters accumulated over the pass.
func (p *pass) Stats() RasterStats { return p.stats }

// FlatShader lights each face with one intensity: the average of the
// vertex normals' cosines with the light direction.
type FlatShader struct {
	pass
	intensity float64
}

// NewFlatShader creates a flat shader drawing into fb and zb, sampling tex.
// A nil tex samples white.
func NewFlatShader(tex Sampler, fb *Framebuffer, zb *DepthBuffer) *FlatShader {
	return &FlatShader{pass: newPass(tex, fb, zb), intensity: 1}
}

// Vertex implements Shader.
func (s *FlatShader) Vertex(w *World, f models.Face) [3]math3d.Vec3 {
	s.project(w, f)
	light := w.LightDir().Normalize()
	var sum float64
	for _, n := range f.Normals {
		sum += n.Dot(light)
	}
	s.intensity = sum / 3
	return s.screen
}

// Fragment implements Shader.
func (s *FlatShader) Fragment(_ *World, bc math3d.Vec3) (Color, bool) {
	if !(s.intensity >= 0) {
		return Color{}, false
	}
	return Shade(s.sample(bc), s.intensity), true
}

// DrawFace implements Shader.
func (s *FlatShader) DrawFace(w *World, f models.Face) {
	s.Vertex(w, f)
	s.rasterize(func(bc math3d.Vec3) (Color, bool) {
		return s.Fragment(w, bc)
	})
}

// GouraudShader interpolates the vertex normals across the face and lights
// every pixel with its own normal. The interpolated normal is not
// renormalized, so identical vertex normals light exactly like FlatShader.
type GouraudShader struct {
	pass
	normals [3]math3d.Vec3
	light   math3d.Vec3 // Normalized light direction for the current face
}

// NewGouraudShader creates a Gouraud shader drawing into fb and zb,
// sampling tex. A nil tex samples white.
func NewGouraudShader(tex Sampler, fb *Framebuffer, zb *DepthBuffer) *GouraudShader {
	return &GouraudShader{pass: newPass(tex, fb, zb)}
}

// Vertex implements Shader.
func (s *GouraudShader) Vertex(w *World, f models.Face) [3]math3d.Vec3 {
	s.project(w, f)
	s.normals = f.Normals
	s.light = w.LightDir().Normalize()
	return s.screen
}

// Fragment implements Shader.
func (s *GouraudShader) Fragment(_ *World, bc math3d.Vec3) (Color, bool) {
	n := math3d.Weighted(s.normals[0], s.normals[1], s.normals[2], bc)
	intensity := n.Dot(s.light)
	if !(intensity >= 0) {
		return Color{}, false
	}
	return Shade(s.sample(bc), intensity), true
}

// DrawFace implements Shader.
func (s *GouraudShader) DrawFace(w *World, f models.Face) {
	s.Vertex(w, f)
	s.rasterize(func(bc math3d.Vec3) (Color, bool) {
		return s.Fragment(w, bc)
	})
}

// DrawMesh calls s.DrawFace for every face and returns the number drawn.
func DrawMesh(s Shader, w *World, faces iter.Seq[models.Face]) int {
	n := 0
	for f := range faces {
		s.DrawFace(w, f)
		n++
	}
	return n
}
