package vmath

import "math"

// Vec3 is a 3D vector in float64 world units
type Vec3 struct {
	X, Y, Z float64
}

func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func V3Add(a, b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func V3Sub(a, b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func V3Scale(v Vec3, s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func V3Dot(a, b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func V3Cross(a, b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func V3MagSq(v Vec3) float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func V3Mag(v Vec3) float64 {
	return math.Sqrt(V3MagSq(v))
}

// V3Normalize returns the unit vector, or the zero vector for zero input
func V3Normalize(v Vec3) Vec3 {
	mag := V3Mag(v)
	if mag == 0 {
		return Vec3{}
	}
	inv := 1.0 / mag
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}

func V3Dist(a, b Vec3) float64 {
	return V3Mag(V3Sub(a, b))
}

func V3DistSq(a, b Vec3) float64 {
	return V3MagSq(V3Sub(a, b))
}

// V3Lerp interpolates between a and b, t in [0,1]
func V3Lerp(a, b Vec3, t float64) Vec3 {
	return V3Add(a, V3Scale(V3Sub(b, a), t))
}

// V3ClampMagnitude limits vector magnitude
func V3ClampMagnitude(v Vec3, maxMag float64) Vec3 {
	if V3MagSq(v) <= maxMag*maxMag {
		return v
	}
	return V3Scale(V3Normalize(v), maxMag)
}

// DirectionFromEuler converts yaw/pitch rotation (radians, stored in a
// transform's rotation Y and X) to a forward unit vector.
// Yaw 0 looks down -Z, matching the right-handed camera convention.
func DirectionFromEuler(rot Vec3) Vec3 {
	pitch, yaw := rot.X, rot.Y
	cp := math.Cos(pitch)
	return V3Normalize(Vec3{
		X: -math.Sin(yaw) * cp,
		Y: math.Sin(pitch),
		Z: -math.Cos(yaw) * cp,
	})
}
