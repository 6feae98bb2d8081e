package render

import (
	"github.com/lixenwraith/voxforge/component"
	"github.com/lixenwraith/voxforge/core"
	"github.com/lixenwraith/voxforge/vmath"
)

// DrawCommand is one renderable submitted for the current frame
type DrawCommand struct {
	Entity      core.Entity
	Position    vmath.Vec3
	Scale       vmath.Vec3
	Mesh        component.MeshHandle
	Color       uint32 // 0xRRGGBB
	Distance    float64
	Triangles   int
	Transparent bool
}

// Renderer is a backend drawing surface. The frame contract is
// BeginFrame, Clear, any number of Submit calls, EndFrame
type Renderer interface {
	BeginFrame()
	Clear()
	Submit(cmd DrawCommand)
	EndFrame()
}

// CameraView carries the camera pose backends may use for projection
type CameraView struct {
	Position vmath.Vec3
	Forward  vmath.Vec3
}

// ViewAware backends receive the camera pose before submission starts
type ViewAware interface {
	SetView(view CameraView)
}
