package component

import "github.com/lixenwraith/voxforge/parameter"

// CameraComponent holds projection parameters for a camera entity.
// The camera's position and orientation come from its TransformComponent
type CameraComponent struct {
	FOV    float64 // vertical field of view, degrees
	Aspect float64 // width / height
	Near   float64
	Far    float64
}

// NewCamera creates a camera with default projection parameters
func NewCamera(aspect float64) CameraComponent {
	return CameraComponent{
		FOV:    parameter.DefaultFOV,
		Aspect: aspect,
		Near:   parameter.DefaultNearPlane,
		Far:    parameter.DefaultFarPlane,
	}
}
