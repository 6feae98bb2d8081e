package vmath

import "math"

// Plane is defined by a unit normal and distance: dot(N, p) + D = 0.
// Points with positive signed distance are on the inside half
type Plane struct {
	Normal Vec3
	D      float64
}

// SignedDistance returns the signed distance from a point to the plane
func (p Plane) SignedDistance(pt Vec3) float64 {
	return V3Dot(p.Normal, pt) + p.D
}

// Frustum is the six-plane camera view volume.
// Plane order: near, far, left, right, top, bottom
type Frustum struct {
	Planes [6]Plane
}

// planeThrough builds a plane through a point with the given inward normal
func planeThrough(point, normal Vec3) Plane {
	n := V3Normalize(normal)
	return Plane{Normal: n, D: -V3Dot(n, point)}
}

// NewFrustum constructs a view frustum from camera position, orientation
// and projection parameters. fovY is the vertical field of view in radians,
// aspect is width/height
func NewFrustum(pos, forward, up Vec3, fovY, aspect, near, far float64) Frustum {
	fwd := V3Normalize(forward)
	right := V3Normalize(V3Cross(fwd, up))
	trueUp := V3Cross(right, fwd)

	halfV := fovY * 0.5
	halfH := math.Atan(math.Tan(halfV) * aspect)

	sinV, cosV := math.Sin(halfV), math.Cos(halfV)
	sinH, cosH := math.Sin(halfH), math.Cos(halfH)

	var f Frustum
	f.Planes[0] = planeThrough(V3Add(pos, V3Scale(fwd, near)), fwd)
	f.Planes[1] = planeThrough(V3Add(pos, V3Scale(fwd, far)), V3Scale(fwd, -1))
	// Side planes pass through the camera position, tilted by the half angles
	f.Planes[2] = planeThrough(pos, V3Add(V3Scale(fwd, sinH), V3Scale(right, cosH)))          // left
	f.Planes[3] = planeThrough(pos, V3Sub(V3Scale(fwd, sinH), V3Scale(right, cosH)))          // right
	f.Planes[4] = planeThrough(pos, V3Sub(V3Scale(fwd, sinV), V3Scale(trueUp, cosV)))         // top
	f.Planes[5] = planeThrough(pos, V3Add(V3Scale(fwd, sinV), V3Scale(trueUp, cosV)))         // bottom
	return f
}

// ContainsSphere tests a bounding sphere against all six planes.
// Conservative: spheres intersecting any plane are treated as visible
func (f Frustum) ContainsSphere(center Vec3, radius float64) bool {
	for _, p := range f.Planes {
		if p.SignedDistance(center) < -radius {
			return false
		}
	}
	return true
}

// ContainsPoint tests a point against all six planes
func (f Frustum) ContainsPoint(pt Vec3) bool {
	return f.ContainsSphere(pt, 0)
}
