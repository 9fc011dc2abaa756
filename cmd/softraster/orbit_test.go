package main

import (
	"math"
	"testing"

	"github.com/taigrr/softraster/pkg/math3d"
)

func TestOrbitStartsAtEye(t *testing.T) {
	eye := math3d.V3(1, 1, 3)
	o := newOrbit(eye, math3d.Zero3(), 30, 0)
	for range 10 {
		o.Advance()
	}
	if got := o.Eye(); got != eye {
		t.Errorf("Eye() = %v, want %v", got, eye)
	}
}

func TestOrbitPreservesDistanceAndHeight(t *testing.T) {
	eye := math3d.V3(1, 2, 3)
	center := math3d.V3(0, 0.5, 0)
	o := newOrbit(eye, center, 30, fullTurn/30)

	dist := eye.Sub(center).Len()
	for i := range 30 {
		o.Advance()
		got := o.Eye()
		if d := got.Sub(center).Len(); math.Abs(d-dist) > 1e-9 {
			t.Fatalf("frame %d: distance %v, want %v", i, d, dist)
		}
		if got.Y != eye.Y {
			t.Fatalf("frame %d: height %v, want %v", i, got.Y, eye.Y)
		}
	}
	if o.Yaw() <= 0 {
		t.Errorf("yaw = %v, want positive", o.Yaw())
	}
	if o.Yaw() >= o.target {
		t.Errorf("yaw %v should trail target %v", o.Yaw(), o.target)
	}
}

func TestOrbitNudgeSettles(t *testing.T) {
	o := newOrbit(math3d.V3(0, 0, 3), math3d.Zero3(), 60, 0)
	o.Nudge(math.Pi / 2)
	for range 600 {
		o.Settle()
	}
	if math.Abs(o.Yaw()-math.Pi/2) > 1e-3 {
		t.Errorf("yaw = %v, want pi/2", o.Yaw())
	}
	// A quarter turn about Y takes +Z to +X.
	if got := o.Eye(); math.Abs(got.X-3) > 1e-2 || math.Abs(got.Z) > 1e-2 {
		t.Errorf("Eye() = %v, want about (3, 0, 0)", got)
	}
}
