package component

import "github.com/lixenwraith/voxforge/vmath"

// TransformComponent holds spatial placement for an entity.
// Rotation is Euler radians (pitch X, yaw Y, roll Z)
type TransformComponent struct {
	Position vmath.Vec3
	Rotation vmath.Vec3
	Scale    vmath.Vec3
}

// NewTransform creates a transform at a position with unit scale
func NewTransform(pos vmath.Vec3) TransformComponent {
	return TransformComponent{
		Position: pos,
		Scale:    vmath.V3(1, 1, 1),
	}
}

// Forward returns the unit facing direction derived from rotation
func (t TransformComponent) Forward() vmath.Vec3 {
	return vmath.DirectionFromEuler(t.Rotation)
}
