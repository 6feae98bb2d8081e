package engine

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/voxforge/component"
	"github.com/lixenwraith/voxforge/core"
	"github.com/lixenwraith/voxforge/event"
)

// EntityStats tracks entity counts. Gauges (Total..Pending) are maintained
// incrementally and always equal a full recount at quiescence; Created and
// Destroyed are cumulative over the world's lifetime
type EntityStats struct {
	Total     int
	Active    int
	Inactive  int
	Pending   int
	Created   uint64
	Destroyed uint64
}

// entityMeta holds per-entity bookkeeping owned by the world
type entityMeta struct {
	name  string
	state core.EntityState
}

// World owns all entities and their components. It is the entity manager:
// handle allocation, name registry, lifecycle states, deferred destruction,
// and the system list that operates on the component stores.
//
// Concurrency: one RWMutex guards the entity maps. Snapshot queries take a
// read lock and return copies; structural mutation takes the write lock.
// Component stores carry their own locks and are safe to read from worker
// goroutines, but concurrent structural mutation while another goroutine
// iterates a previously taken snapshot needs external synchronization
type World struct {
	mu   sync.RWMutex
	log  *zap.Logger
	pool *core.EntityPool

	meta    map[core.Entity]*entityMeta
	names   map[string]core.Entity // always consistent with meta
	pending []core.Entity          // deferred-destroy queue, FIFO

	stats EntityStats

	// Component stores, public for direct system access
	Transforms *Store[component.TransformComponent]
	Renders    *Store[component.RenderComponent]
	Physics    *Store[component.PhysicsComponent]
	Players    *Store[component.PlayerComponent]
	Cameras    *Store[component.CameraComponent]

	// Lifecycle registry, all stores implement AnyStore for uniform cleanup
	allStores []AnyStore

	systemsMu sync.RWMutex
	systems   []System

	events      *event.Queue
	frameSource func() int64
}

// NewWorld creates an empty world with all component stores initialized
func NewWorld(log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	w := &World{
		log:        log,
		pool:       core.NewEntityPool(),
		meta:       make(map[core.Entity]*entityMeta),
		names:      make(map[string]core.Entity),
		pending:    make([]core.Entity, 0, 64),
		Transforms: NewStore[component.TransformComponent](),
		Renders:    NewStore[component.RenderComponent](),
		Physics:    NewStore[component.PhysicsComponent](),
		Players:    NewStore[component.PlayerComponent](),
		Cameras:    NewStore[component.CameraComponent](),
	}
	w.allStores = []AnyStore{
		w.Transforms,
		w.Renders,
		w.Physics,
		w.Players,
		w.Cameras,
	}
	return w
}

// SetEventSink wires the event queue and frame counter used by PushEvent.
// Called once during engine initialization
func (w *World) SetEventSink(q *event.Queue, frame func() int64) {
	w.events = q
	w.frameSource = frame
}

// PushEvent emits an engine event, no-op before SetEventSink
func (w *World) PushEvent(t event.Type, payload any) {
	if w.events == nil {
		return
	}
	var frame int64
	if w.frameSource != nil {
		frame = w.frameSource()
	}
	w.events.Push(event.GameEvent{Type: t, Payload: payload, Frame: frame})
}

// === Entity lifecycle ===

// CreateEntity allocates a fresh handle and registers the entity as Active.
// A taken name is disambiguated by appending the slot index; the stored
// name is retrievable via EntityName. Never fails
func (w *World) CreateEntity(name string) core.Entity {
	w.mu.Lock()

	e := w.pool.Create()

	stored := name
	if _, taken := w.names[stored]; taken {
		stored = fmt.Sprintf("%s#%d", name, e.Index())
		for n := 2; ; n++ {
			if _, taken := w.names[stored]; !taken {
				break
			}
			stored = fmt.Sprintf("%s#%d-%d", name, e.Index(), n)
		}
	}

	w.meta[e] = &entityMeta{name: stored, state: core.StateActive}
	w.names[stored] = e
	w.stats.Total++
	w.stats.Active++
	w.stats.Created++
	w.mu.Unlock()

	w.PushEvent(event.EventEntityCreated, e)
	return e
}

// DestroyEntity removes an entity and all its components immediately.
// Returns false on an unknown or stale handle. Idempotent in effect: the
// second call on the same handle returns false.
// Unsafe to call while another goroutine iterates a snapshot that includes
// this entity without external synchronization
func (w *World) DestroyEntity(e core.Entity) bool {
	w.mu.Lock()
	if !w.destroyLocked(e) {
		w.mu.Unlock()
		return false
	}
	w.mu.Unlock()

	w.PushEvent(event.EventEntityDestroyed, e)
	return true
}

// destroyLocked performs removal under the held write lock
func (w *World) destroyLocked(e core.Entity) bool {
	m, ok := w.meta[e]
	if !ok {
		return false
	}

	switch m.state {
	case core.StateActive:
		w.stats.Active--
	case core.StateInactive:
		w.stats.Inactive--
	case core.StatePendingDestroy:
		w.stats.Pending--
		// Leave the stale handle in the pending queue; the cleanup sweep
		// skips handles that no longer resolve
	}
	m.state = core.StateDestroyed

	delete(w.names, m.name)
	delete(w.meta, e)
	w.pool.Destroy(e)
	w.stats.Total--
	w.stats.Destroyed++

	for _, store := range w.allStores {
		store.Remove(e)
	}
	return true
}

// MarkForDestruction queues an entity for the next cleanup sweep.
// Idempotent: returns false if unknown or already pending. The entity
// leaves the active set immediately but stays resolvable by handle
func (w *World) MarkForDestruction(e core.Entity) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.markLocked(e)
}

func (w *World) markLocked(e core.Entity) bool {
	m, ok := w.meta[e]
	if !ok {
		return false
	}
	if m.state == core.StatePendingDestroy {
		w.log.Warn("entity already pending destruction",
			zap.Uint32("index", e.Index()), zap.String("name", m.name))
		return false
	}

	switch m.state {
	case core.StateActive:
		w.stats.Active--
	case core.StateInactive:
		w.stats.Inactive--
	}
	m.state = core.StatePendingDestroy
	w.stats.Pending++
	w.pending = append(w.pending, e)
	return true
}

// CleanupDestroyed drains the pending-destroy queue, destroying each
// entity still resolvable. Returns the count actually destroyed; handles
// destroyed directly in the interim are skipped, not double-counted.
// Safe to call between frames
func (w *World) CleanupDestroyed() int {
	w.mu.Lock()
	queue := w.pending
	w.pending = make([]core.Entity, 0, 64)

	destroyed := make([]core.Entity, 0, len(queue))
	for _, e := range queue {
		if m, ok := w.meta[e]; ok && m.state == core.StatePendingDestroy {
			if w.destroyLocked(e) {
				destroyed = append(destroyed, e)
			}
		}
	}
	w.mu.Unlock()

	for _, e := range destroyed {
		w.PushEvent(event.EventEntityDestroyed, e)
	}
	return len(destroyed)
}

// Clear removes entities in bulk.
// force=true frees everything immediately, bypassing the pending queue.
// force=false only marks still-live entities pending; removal happens at
// the next CleanupDestroyed call (entities already pending are left alone)
func (w *World) Clear(force bool) {
	w.mu.Lock()
	if force {
		for e := range w.meta {
			w.destroyLocked(e)
		}
		w.pending = w.pending[:0]
		w.stats.Total = 0
		w.stats.Active = 0
		w.stats.Inactive = 0
		w.stats.Pending = 0
		w.mu.Unlock()
		w.PushEvent(event.EventWorldClear, nil)
		return
	}

	for e, m := range w.meta {
		if m.state == core.StateActive || m.state == core.StateInactive {
			w.markLocked(e)
		}
	}
	w.mu.Unlock()
}

// SetEntityActive toggles an entity between Active and Inactive.
// Returns false for unknown, pending or destroyed entities
func (w *World) SetEntityActive(e core.Entity, active bool) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	m, ok := w.meta[e]
	if !ok {
		return false
	}
	switch m.state {
	case core.StateActive:
		if !active {
			m.state = core.StateInactive
			w.stats.Active--
			w.stats.Inactive++
		}
		return true
	case core.StateInactive:
		if active {
			m.state = core.StateActive
			w.stats.Inactive--
			w.stats.Active++
		}
		return true
	default:
		w.log.Warn("cannot toggle entity in terminal state",
			zap.Uint32("index", e.Index()), zap.String("state", m.state.String()))
		return false
	}
}

// === Lookup ===

// EntityExists reports whether the handle resolves to a live entity
// (including inactive and pending-destroy)
func (w *World) EntityExists(e core.Entity) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.meta[e]
	return ok
}

// FindEntity resolves a stored name to its entity. O(1), false on miss
func (w *World) FindEntity(name string) (core.Entity, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	e, ok := w.names[name]
	return e, ok
}

// EntityName returns the stored (possibly disambiguated) name
func (w *World) EntityName(e core.Entity) (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if m, ok := w.meta[e]; ok {
		return m.name, true
	}
	return "", false
}

// EntityState returns the lifecycle state of a live entity
func (w *World) EntityState(e core.Entity) (core.EntityState, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if m, ok := w.meta[e]; ok {
		return m.state, true
	}
	return core.StateDestroyed, false
}

// ComponentCount returns the number of attached components
func (w *World) ComponentCount(e core.Entity) int {
	count := 0
	for _, store := range w.allStores {
		if store.Has(e) {
			count++
		}
	}
	return count
}

// === Snapshots and iteration ===

// AllEntities returns a snapshot of every live entity.
// Iteration order follows map order and is not stable across runs
func (w *World) AllEntities() []core.Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()
	result := make([]core.Entity, 0, len(w.meta))
	for e := range w.meta {
		result = append(result, e)
	}
	return result
}

// ActiveEntities returns a snapshot of entities in the Active state.
// Entities marked for destruction are excluded immediately
func (w *World) ActiveEntities() []core.Entity {
	return w.EntitiesWhere(func(e core.Entity, s core.EntityState) bool {
		return s == core.StateActive
	})
}

// EntitiesWhere returns a snapshot of entities matching the filter
func (w *World) EntitiesWhere(filter func(core.Entity, core.EntityState) bool) []core.Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()
	result := make([]core.Entity, 0, len(w.meta))
	for e, m := range w.meta {
		if filter(e, m.state) {
			result = append(result, e)
		}
	}
	return result
}

// ProcessActive applies fn to each active entity, synchronously on the
// calling goroutine, in snapshot iteration order
func (w *World) ProcessActive(fn func(core.Entity)) {
	for _, e := range w.ActiveEntities() {
		fn(e)
	}
}

// ProcessWhere applies fn to each entity matching the filter
func (w *World) ProcessWhere(filter func(core.Entity, core.EntityState) bool, fn func(core.Entity)) {
	for _, e := range w.EntitiesWhere(filter) {
		fn(e)
	}
}

// Stats returns a copy of the current entity statistics
func (w *World) Stats() EntityStats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// PendingCount returns the length of the deferred-destroy queue
func (w *World) PendingCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.pending)
}

// === Systems ===

// AddSystem registers a system, keeping the list sorted by priority
// (lower runs first; insertion order breaks ties)
func (w *World) AddSystem(s System) {
	w.systemsMu.Lock()
	defer w.systemsMu.Unlock()

	w.systems = append(w.systems, s)

	// Insertion sort, small N
	for i := len(w.systems) - 1; i > 0; i-- {
		if w.systems[i-1].Priority() > w.systems[i].Priority() {
			w.systems[i-1], w.systems[i] = w.systems[i], w.systems[i-1]
		}
	}
}

// Systems returns a copy of the registered system list
func (w *World) Systems() []System {
	w.systemsMu.RLock()
	defer w.systemsMu.RUnlock()
	result := make([]System, len(w.systems))
	copy(result, w.systems)
	return result
}

// Update runs all systems in priority order with the variable timestep
func (w *World) Update(dt time.Duration) {
	for _, s := range w.Systems() {
		s.Update(dt)
	}
}

// FixedUpdate runs systems implementing FixedSystem with the fixed timestep
func (w *World) FixedUpdate(dt time.Duration) {
	for _, s := range w.Systems() {
		if fs, ok := s.(FixedSystem); ok {
			fs.FixedUpdate(dt)
		}
	}
}
