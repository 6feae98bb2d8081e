package engine

import "time"

// System is the interface all systems implement.
// Update receives the variable frame timestep
type System interface {
	Name() string
	Priority() int // Lower values run first
	Update(dt time.Duration)
}

// FixedSystem is implemented by systems that also run on the fixed
// simulation timestep (physics, animation ticks)
type FixedSystem interface {
	FixedUpdate(dt time.Duration)
}
