package main

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/taigrr/softraster/pkg/math3d"
	"github.com/taigrr/softraster/pkg/render"
)

const nudgeAngle = math.Pi / 8

// viewer is the ebiten game behind -window. Every tick advances the orbit
// and re-renders the mesh on the CPU; Draw only uploads the pixels.
type viewer struct {
	scene *scene
	orbit *orbit
	spin  bool
	frame int
	fb    *render.Framebuffer
}

func newViewer(s *scene, eye math3d.Vec3) *viewer {
	return &viewer{
		scene: s,
		orbit: newOrbit(eye, s.center, ebiten.DefaultTPS, fullTurn/(4*ebiten.DefaultTPS)),
		spin:  true,
	}
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		v.spin = !v.spin
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		v.orbit.Nudge(-nudgeAngle)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		v.orbit.Nudge(nudgeAngle)
	}

	if v.spin {
		v.orbit.Advance()
	} else {
		v.orbit.Settle()
	}

	fb, st, err := v.scene.render(v.orbit.Eye())
	if err != nil {
		return err
	}
	v.fb = fb
	if v.frame%ebiten.DefaultTPS == 0 {
		logStats(v.frame, st)
	}
	v.frame++
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	if v.fb == nil {
		return
	}
	screen.WritePixels(v.fb.ToImage().Pix)
}

func (v *viewer) Layout(_, _ int) (int, int) {
	return v.scene.width, v.scene.height
}

func runWindow(s *scene, eye math3d.Vec3) error {
	ebiten.SetWindowSize(s.width, s.height)
	ebiten.SetWindowTitle(fmt.Sprintf("softraster - %s", s.mesh.Name))

	if err := ebiten.RunGame(newViewer(s, eye)); err != nil {
		return fmt.Errorf("window: %w", err)
	}
	return nil
}
