package component

import "github.com/lixenwraith/voxforge/vmath"

// BodyType selects how the physics integrator treats an entity
type BodyType uint8

const (
	BodyStatic BodyType = iota
	BodyKinematic
	BodyDynamic
)

func (b BodyType) String() string {
	switch b {
	case BodyStatic:
		return "static"
	case BodyKinematic:
		return "kinematic"
	case BodyDynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// PhysicsComponent holds motion state consumed by the fixed-step integrator
type PhysicsComponent struct {
	Body     BodyType
	Velocity vmath.Vec3

	// GravityScale multiplies world gravity; 0 disables gravity for the body
	GravityScale float64
}
