package system

import (
	"math"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/voxforge/core"
	"github.com/lixenwraith/voxforge/engine"
	"github.com/lixenwraith/voxforge/parameter"
	"github.com/lixenwraith/voxforge/render"
	"github.com/lixenwraith/voxforge/vmath"
)

// RenderStatistics is a per-frame snapshot of culling and submission work
type RenderStatistics struct {
	Frame          int64
	VisibleObjects int
	CulledObjects  int
	DrawCalls      int
	Triangles      int
	CullTime       time.Duration
	RenderTime     time.Duration
}

// renderEntry is one queued renderable after culling
type renderEntry struct {
	entity   core.Entity
	cmd      render.DrawCommand
	distance float64
}

// RenderSystem culls renderables against the active camera and keeps a
// sorted render queue: opaque front to back, transparent back to front.
// Update rebuilds the queue; Render submits it to the backend
type RenderSystem struct {
	log      *zap.Logger
	world    *engine.World
	renderer render.Renderer

	renderDistance float64
	frustumCulling bool

	mu           sync.Mutex
	activeCamera core.Entity
	queue        []renderEntry
	stats        RenderStatistics
	frame        int64
}

// NewRenderSystem creates a render system for the given backend.
// The world is bound separately so construction order stays flexible
func NewRenderSystem(renderer render.Renderer, renderDistance float64, frustumCulling bool, log *zap.Logger) *RenderSystem {
	if log == nil {
		log = zap.NewNop()
	}
	if renderDistance <= 0 {
		renderDistance = parameter.DefaultRenderDistance
	}
	return &RenderSystem{
		log:            log,
		renderer:       renderer,
		renderDistance: renderDistance,
		frustumCulling: frustumCulling,
		queue:          make([]renderEntry, 0, 256),
	}
}

func (rs *RenderSystem) Name() string  { return "render" }
func (rs *RenderSystem) Priority() int { return parameter.PriorityRender }

// SetWorld binds the entity world. Must happen before Initialize
func (rs *RenderSystem) SetWorld(w *engine.World) { rs.world = w }

// SetActiveCamera selects the camera entity used for culling.
// The zero entity clears the camera; with no camera nothing renders
func (rs *RenderSystem) SetActiveCamera(e core.Entity) {
	rs.mu.Lock()
	rs.activeCamera = e
	rs.mu.Unlock()
}

// ActiveCamera returns the current camera entity, zero if unset
func (rs *RenderSystem) ActiveCamera() core.Entity {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.activeCamera
}

// Initialize verifies the system is usable. Returns false without a world
func (rs *RenderSystem) Initialize() bool {
	if rs.world == nil {
		rs.log.Error("render system initialized without a world")
		return false
	}
	if rs.renderer == nil {
		rs.log.Error("render system initialized without a backend")
		return false
	}
	return true
}

// Update rebuilds the render queue: gathers entities holding transform and
// render components, culls by distance and optionally by frustum, then
// sorts. Runs on the main goroutine during the variable update phase
func (rs *RenderSystem) Update(dt time.Duration) {
	if rs.world == nil {
		return
	}
	start := time.Now()

	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.frame++
	rs.queue = rs.queue[:0]
	visible, culled := 0, 0

	camPos, frustum, haveCam := rs.cameraViewLocked()
	if !haveCam {
		rs.stats = RenderStatistics{Frame: rs.frame, CullTime: time.Since(start)}
		return
	}

	maxDistSq := rs.renderDistance * rs.renderDistance
	candidates := rs.world.Query().
		With(rs.world.Transforms).
		With(rs.world.Renders).
		Execute()

	for _, e := range candidates {
		if st, ok := rs.world.EntityState(e); !ok || st != core.StateActive {
			continue
		}
		rc, ok := rs.world.Renders.Get(e)
		if !ok || !rc.Visible {
			continue
		}
		tc, ok := rs.world.Transforms.Get(e)
		if !ok {
			continue
		}

		distSq := vmath.V3DistSq(tc.Position, camPos)
		if distSq > maxDistSq {
			culled++
			continue
		}
		if rs.frustumCulling && !frustum.ContainsSphere(tc.Position, rc.BoundingRadius) {
			culled++
			continue
		}

		dist := math.Sqrt(distSq)
		rs.queue = append(rs.queue, renderEntry{
			entity:   e,
			distance: dist,
			cmd: render.DrawCommand{
				Entity:      e,
				Position:    tc.Position,
				Scale:       tc.Scale,
				Mesh:        rc.Mesh,
				Color:       rc.Color,
				Distance:    dist,
				Triangles:   rc.Triangles,
				Transparent: rc.Transparent,
			},
		})
		visible++
	}

	rs.sortQueueLocked()

	rs.stats = RenderStatistics{
		Frame:          rs.frame,
		VisibleObjects: visible,
		CulledObjects:  culled,
		CullTime:       time.Since(start),
	}
}

// cameraViewLocked resolves the active camera pose and frustum.
// Callers hold rs.mu
func (rs *RenderSystem) cameraViewLocked() (vmath.Vec3, vmath.Frustum, bool) {
	if rs.activeCamera.IsZero() || !rs.world.EntityExists(rs.activeCamera) {
		return vmath.Vec3{}, vmath.Frustum{}, false
	}
	cc, ok := rs.world.Cameras.Get(rs.activeCamera)
	if !ok {
		return vmath.Vec3{}, vmath.Frustum{}, false
	}
	tc, ok := rs.world.Transforms.Get(rs.activeCamera)
	if !ok {
		return vmath.Vec3{}, vmath.Frustum{}, false
	}

	forward := tc.Forward()
	up := vmath.V3(0, 1, 0)
	fovY := cc.FOV * math.Pi / 180
	frustum := vmath.NewFrustum(tc.Position, forward, up, fovY, cc.Aspect, cc.Near, cc.Far)

	if va, ok := rs.renderer.(render.ViewAware); ok {
		va.SetView(render.CameraView{Position: tc.Position, Forward: forward})
	}
	return tc.Position, frustum, true
}

// sortQueueLocked orders opaque entries front to back and transparent
// entries back to front, transparent after opaque
func (rs *RenderSystem) sortQueueLocked() {
	sort.SliceStable(rs.queue, func(i, j int) bool {
		a, b := rs.queue[i], rs.queue[j]
		if a.cmd.Transparent != b.cmd.Transparent {
			return !a.cmd.Transparent
		}
		if a.cmd.Transparent {
			return a.distance > b.distance
		}
		return a.distance < b.distance
	})
}

// Render submits the current queue to the backend
func (rs *RenderSystem) Render() {
	start := time.Now()

	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.renderer.BeginFrame()
	rs.renderer.Clear()

	drawCalls, triangles := 0, 0
	for i := range rs.queue {
		rs.renderer.Submit(rs.queue[i].cmd)
		drawCalls++
		triangles += rs.queue[i].cmd.Triangles
	}
	rs.renderer.EndFrame()

	rs.stats.DrawCalls = drawCalls
	rs.stats.Triangles = triangles
	rs.stats.RenderTime = time.Since(start)
}

// Shutdown releases the queue. The backend surface belongs to the caller
func (rs *RenderSystem) Shutdown() {
	rs.mu.Lock()
	rs.queue = nil
	rs.mu.Unlock()
}

// Statistics returns the most recent frame's numbers
func (rs *RenderSystem) Statistics() RenderStatistics {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.stats
}

// QueueLen returns the current number of queued renderables
func (rs *RenderSystem) QueueLen() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.queue)
}
