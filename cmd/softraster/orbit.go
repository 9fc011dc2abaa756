package main

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/softraster/pkg/math3d"
)

const (
	turntableFPS = 30
	fullTurn     = 2 * math.Pi
)

// orbit swings the eye around the vertical axis through center. The yaw
// chases a target angle through a critically damped spring, so the motion
// eases in from rest and settles without overshoot.
type orbit struct {
	center math3d.Vec3
	offset math3d.Vec3 // Eye relative to center at yaw 0

	spring harmonica.Spring
	yaw    float64
	vel    float64 // Spring velocity
	target float64
	step   float64 // Target advance per frame
}

func newOrbit(eye, center math3d.Vec3, fps int, step float64) *orbit {
	return &orbit{
		center: center,
		offset: eye.Sub(center),
		// Frequency 4.0 = moderate speed, damping 1.0 = critically damped
		spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
		step:   step,
	}
}

// Advance moves the target one step and the yaw one spring update.
func (o *orbit) Advance() {
	o.target += o.step
	o.Settle()
}

// Settle runs one spring update towards the current target.
func (o *orbit) Settle() {
	o.yaw, o.vel = o.spring.Update(o.yaw, o.vel, o.target)
}

// Nudge shifts the target by delta radians.
func (o *orbit) Nudge(delta float64) {
	o.target += delta
}

// Yaw returns the current angle in radians.
func (o *orbit) Yaw() float64 { return o.yaw }

// Eye returns the eye position at the current yaw.
func (o *orbit) Eye() math3d.Vec3 {
	return o.center.Add(math3d.RotateY(o.yaw).MulVec3Dir(o.offset))
}
