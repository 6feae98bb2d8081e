package engine

import (
	"time"

	"github.com/lixenwraith/voxforge/event"
)

// TimeResource wraps frame timing for systems.
// Updated by the Engine at the start of each frame, read under the frame
// loop's sequencing (no internal locking)
type TimeResource struct {
	// GameTime is the current time in the game world (affected by pause)
	GameTime time.Time

	// RealTime is the wall-clock time (unaffected by pause)
	RealTime time.Time

	// DeltaTime is the duration since the last frame
	DeltaTime time.Duration

	// FrameNumber is the current frame count
	FrameNumber int64
}

// Update modifies TimeResource fields in place (zero allocation)
func (tr *TimeResource) Update(gameTime, realTime time.Time, dt time.Duration, frame int64) {
	tr.GameTime = gameTime
	tr.RealTime = realTime
	tr.DeltaTime = dt
	tr.FrameNumber = frame
}

// Resource holds injected singletons shared by systems. Constructed
// explicitly during engine initialization and passed by pointer; there are
// no lazily constructed globals
type Resource struct {
	Time   *TimeResource
	Events *event.Queue
}
