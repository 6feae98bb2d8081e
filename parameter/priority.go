package parameter

// System priorities, lower runs first within a tick
const (
	PriorityPhysics = 10
	PriorityPlayer  = 20
	PriorityRender  = 80
	PriorityCleanup = 100
)

// Render defaults
const (
	DefaultRenderDistance = 128.0
	DefaultFOV            = 70.0 // degrees
	DefaultNearPlane      = 0.1
	DefaultFarPlane       = 512.0
)
