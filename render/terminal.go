package render

import (
	"fmt"
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// cellsPerUnit maps world units to screen cells in the top-down view
const cellsPerUnit = 0.5

// TerminalRenderer draws a top-down debug view of submitted commands on a
// tcell screen: world X maps to columns, world Z to rows, centered on the
// camera. Not a real voxel rasterizer, but enough to watch the scene move
type TerminalRenderer struct {
	mu     sync.Mutex
	screen tcell.Screen
	view   CameraView

	frame     uint64
	submitted int
}

// NewTerminalRenderer wraps an initialized tcell screen.
// The caller owns screen setup and Fini
func NewTerminalRenderer(screen tcell.Screen) *TerminalRenderer {
	return &TerminalRenderer{screen: screen}
}

// SetView records the camera pose used to center the view
func (t *TerminalRenderer) SetView(view CameraView) {
	t.mu.Lock()
	t.view = view
	t.mu.Unlock()
}

func (t *TerminalRenderer) BeginFrame() {
	t.mu.Lock()
	t.submitted = 0
	t.mu.Unlock()
}

func (t *TerminalRenderer) Clear() {
	t.mu.Lock()
	t.screen.Clear()
	t.mu.Unlock()
}

func (t *TerminalRenderer) Submit(cmd DrawCommand) {
	t.mu.Lock()
	defer t.mu.Unlock()

	w, h := t.screen.Size()
	cx, cy := w/2, h/2

	dx := cmd.Position.X - t.view.Position.X
	dz := cmd.Position.Z - t.view.Position.Z
	col := cx + int(math.Round(dx*cellsPerUnit))
	row := cy + int(math.Round(dz*cellsPerUnit))
	if col < 0 || col >= w || row < 1 || row >= h {
		return
	}

	style := tcell.StyleDefault.Foreground(colorFromRGB(cmd.Color))
	glyph := '#'
	if cmd.Transparent {
		glyph = '+'
	}
	t.screen.SetContent(col, row, glyph, nil, style)
	t.submitted++
}

func (t *TerminalRenderer) EndFrame() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.frame++
	t.drawStatus()
	t.screen.Show()
}

// drawStatus writes a one-line HUD on the top row
func (t *TerminalRenderer) drawStatus() {
	w, _ := t.screen.Size()
	text := fmt.Sprintf(" frame %d  drawn %d  cam %.1f,%.1f,%.1f ",
		t.frame, t.submitted,
		t.view.Position.X, t.view.Position.Y, t.view.Position.Z)
	style := tcell.StyleDefault.Reverse(true)
	for i, r := range text {
		if i >= w {
			break
		}
		t.screen.SetContent(i, 0, r, nil, style)
	}
}

func colorFromRGB(c uint32) tcell.Color {
	return tcell.NewRGBColor(
		int32(c>>16&0xFF),
		int32(c>>8&0xFF),
		int32(c&0xFF))
}
