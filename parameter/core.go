package parameter

import "time"

// Engine loop defaults, overridable via config
const (
	DefaultTargetFPS     = 60
	DefaultFixedTimestep = time.Second / 60
	DefaultMaxFrameTime  = 250 * time.Millisecond

	// MaxFixedStepsPerFrame caps catch-up iterations so a slow fixed step
	// cannot spiral: excess accumulated time beyond the cap is dropped
	MaxFixedStepsPerFrame = 5
)

// Worker defaults
const (
	MinWorkerThreads     = 4
	EngineTaskQueueSize  = 256
	DefaultWorkerThreads = 0 // 0 = hardware concurrency
)

// Event queue sizing, must be a power of two for the ring buffer mask
const (
	EventQueueSize  = 1024
	EventBufferMask = EventQueueSize - 1
)
