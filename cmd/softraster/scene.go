package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/taigrr/softraster/pkg/math3d"
	"github.com/taigrr/softraster/pkg/models"
	"github.com/taigrr/softraster/pkg/render"
)

const (
	shaderFlat    = "flat"
	shaderGouraud = "gouraud"
)

var wireColor = render.RGB(0, 255, 128)

// passShader is a shader that reports its raster counters.
type passShader interface {
	render.Shader
	Stats() render.RasterStats
}

func newShader(name string, tex render.Sampler, fb *render.Framebuffer, zb *render.DepthBuffer) (passShader, error) {
	switch name {
	case shaderFlat:
		return render.NewFlatShader(tex, fb, zb), nil
	case shaderGouraud:
		return render.NewGouraudShader(tex, fb, zb), nil
	}
	return nil, fmt.Errorf("unknown shader %q (use flat or gouraud)", name)
}

// scene is everything needed to render the mesh from a given eye.
type scene struct {
	mesh          *models.Mesh
	tex           render.Sampler
	width, height int
	shader        string
	center, up    math3d.Vec3
	light         math3d.Vec3
	bg            render.Color
	wireframe     bool
}

// world builds the transform chain for one frame. The viewport covers the
// middle three quarters of the image.
func (s *scene) world(eye math3d.Vec3) *render.World {
	w := render.NewWorld()
	w.SetLightDir(s.light)
	w.LookAt(eye, s.center, s.up)
	w.SetViewport(s.width/8, s.height/8, s.width*3/4, s.height*3/4)
	return w
}

// render draws one frame and returns it upright, ready for output.
func (s *scene) render(eye math3d.Vec3) (*render.Framebuffer, render.RasterStats, error) {
	fb := render.NewFramebuffer(s.width, s.height)
	fb.Clear(s.bg)
	zb := render.NewDepthBuffer(s.width, s.height)

	sh, err := newShader(s.shader, s.tex, fb, zb)
	if err != nil {
		return nil, render.RasterStats{}, err
	}

	w := s.world(eye)
	render.DrawMesh(sh, w, s.mesh.Faces())

	if s.wireframe {
		for f := range s.mesh.Faces() {
			var tri [3]math3d.Vec3
			for i, v := range f.Vertices {
				tri[i] = w.Project(v)
			}
			render.DrawWireframe(fb, tri, wireColor)
		}
	}

	fb.FlipVertical()
	return fb, sh.Stats(), nil
}

func logStats(frame int, st render.RasterStats) {
	slog.Info("rendered frame",
		slog.Int("frame", frame),
		slog.Int("faces", st.Faces),
		slog.Int("drawn", st.Drawn),
		slog.Int("culled", st.Culled),
		slog.Int("occluded", st.Occluded))
}

func renderStill(s *scene, eye math3d.Vec3, path string) (*render.Framebuffer, error) {
	fb, st, err := s.render(eye)
	if err != nil {
		return nil, err
	}
	logStats(0, st)
	if err := fb.SavePNG(path); err != nil {
		return nil, err
	}
	slog.Info("wrote image", slog.String("path", path))
	return fb, nil
}

// renderTurntable writes n frames orbiting the eye once around the
// center's vertical axis.
func renderTurntable(s *scene, eye math3d.Vec3, n int, pattern string) (*render.Framebuffer, error) {
	pattern = framePattern(pattern)
	o := newOrbit(eye, s.center, turntableFPS, fullTurn/float64(n))

	var fb *render.Framebuffer
	for i := range n {
		var st render.RasterStats
		var err error
		fb, st, err = s.render(o.Eye())
		if err != nil {
			return nil, err
		}
		logStats(i, st)

		path := fmt.Sprintf(pattern, i)
		if err := fb.SavePNG(path); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		o.Advance()
	}
	slog.Info("wrote turntable", slog.Int("frames", n), slog.String("pattern", pattern))
	return fb, nil
}

// framePattern turns an output path into a printf pattern for frame
// numbers. Paths that already contain a verb are used as is.
func framePattern(path string) string {
	if strings.Contains(path, "%") {
		return path
	}
	ext := ""
	if i := strings.LastIndexByte(path, '.'); i > strings.LastIndexByte(path, '/') {
		path, ext = path[:i], path[i:]
	}
	return path + "_%03d" + ext
}
