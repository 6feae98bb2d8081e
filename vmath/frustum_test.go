package vmath

import (
	"math"
	"testing"
)

func testFrustum() Frustum {
	// Camera at origin looking down -Z, 90 degree vertical FOV, square aspect
	return NewFrustum(V3(0, 0, 0), V3(0, 0, -1), V3(0, 1, 0), math.Pi/2, 1.0, 0.1, 100)
}

func TestFrustumContainsPoint(t *testing.T) {
	f := testFrustum()

	cases := []struct {
		name string
		pt   Vec3
		want bool
	}{
		{"straight ahead", V3(0, 0, -10), true},
		{"behind camera", V3(0, 0, 10), false},
		{"past far plane", V3(0, 0, -200), false},
		{"before near plane", V3(0, 0, -0.05), false},
		{"inside left edge", V3(-9, 0, -10), true},
		{"outside left edge", V3(-11, 0, -10), false},
		{"inside top edge", V3(0, 9, -10), true},
		{"outside top edge", V3(0, 11, -10), false},
	}
	for _, tc := range cases {
		if got := f.ContainsPoint(tc.pt); got != tc.want {
			t.Errorf("%s: ContainsPoint(%v) = %v, want %v", tc.name, tc.pt, got, tc.want)
		}
	}
}

func TestFrustumSphereStraddle(t *testing.T) {
	f := testFrustum()

	// Center just outside the left plane, radius reaches back in
	if !f.ContainsSphere(V3(-11, 0, -10), 2) {
		t.Error("straddling sphere culled")
	}
	// Fully outside
	if f.ContainsSphere(V3(-20, 0, -10), 2) {
		t.Error("fully outside sphere not culled")
	}
	// Behind the camera, radius too small to reach the near plane
	if f.ContainsSphere(V3(0, 0, 5), 1) {
		t.Error("sphere behind camera not culled")
	}
}

func TestFrustumFollowsCamera(t *testing.T) {
	// Camera displaced and looking down +X
	f := NewFrustum(V3(100, 0, 0), V3(1, 0, 0), V3(0, 1, 0), math.Pi/2, 1.0, 0.1, 50)

	if !f.ContainsPoint(V3(120, 0, 0)) {
		t.Error("point ahead of displaced camera culled")
	}
	if f.ContainsPoint(V3(80, 0, 0)) {
		t.Error("point behind displaced camera not culled")
	}
	if f.ContainsPoint(V3(0, 0, -10)) {
		t.Error("world origin should be outside the displaced frustum")
	}
}

func TestDirectionFromEuler(t *testing.T) {
	eps := 1e-9

	// Zero rotation faces -Z
	d := DirectionFromEuler(V3(0, 0, 0))
	if math.Abs(d.X) > eps || math.Abs(d.Y) > eps || math.Abs(d.Z+1) > eps {
		t.Errorf("zero rotation direction = %v, want (0,0,-1)", d)
	}

	// 90 degree yaw turns to -X
	d = DirectionFromEuler(V3(0, math.Pi/2, 0))
	if math.Abs(d.X+1) > eps || math.Abs(d.Z) > eps {
		t.Errorf("yaw 90 direction = %v, want (-1,0,0)", d)
	}
}
