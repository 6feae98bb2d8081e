package engine

import "time"

// Clock abstracts time for the frame loop so tests can drive it manually
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real monotonic clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
