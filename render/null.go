package render

import "sync"

// NullRenderer discards draw commands while counting them.
// Used headless and in tests
type NullRenderer struct {
	mu         sync.Mutex
	frames     uint64
	clears     uint64
	submitted  uint64
	lastFrame  []DrawCommand
	frameOpen  bool
	keepFrames bool
}

// NewNullRenderer creates a discarding backend. With record set the
// commands of the most recent frame are retained for inspection
func NewNullRenderer(record bool) *NullRenderer {
	return &NullRenderer{keepFrames: record}
}

func (n *NullRenderer) BeginFrame() {
	n.mu.Lock()
	n.frameOpen = true
	if n.keepFrames {
		n.lastFrame = n.lastFrame[:0]
	}
	n.mu.Unlock()
}

func (n *NullRenderer) Clear() {
	n.mu.Lock()
	n.clears++
	n.mu.Unlock()
}

func (n *NullRenderer) Submit(cmd DrawCommand) {
	n.mu.Lock()
	n.submitted++
	if n.keepFrames && n.frameOpen {
		n.lastFrame = append(n.lastFrame, cmd)
	}
	n.mu.Unlock()
}

func (n *NullRenderer) EndFrame() {
	n.mu.Lock()
	n.frames++
	n.frameOpen = false
	n.mu.Unlock()
}

// Frames returns the number of completed frames
func (n *NullRenderer) Frames() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.frames
}

// Submitted returns the total number of submitted commands
func (n *NullRenderer) Submitted() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.submitted
}

// LastFrame returns a copy of the most recent frame's commands.
// Empty unless the renderer was created recording
func (n *NullRenderer) LastFrame() []DrawCommand {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]DrawCommand, len(n.lastFrame))
	copy(out, n.lastFrame)
	return out
}
