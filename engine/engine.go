package engine

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/voxforge/config"
	"github.com/lixenwraith/voxforge/event"
	"github.com/lixenwraith/voxforge/parameter"
	"github.com/lixenwraith/voxforge/render"
)

// State is the engine lifecycle state
type State int32

const (
	StateUninitialized State = iota
	StateInitializing
	StateRunning
	StatePaused
	StateShuttingDown
	StateError
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateShuttingDown:
		return "shutting-down"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// GameState selects per-frame behavior inside ProcessFrame
type GameState int32

const (
	GameLoading GameState = iota
	GameMainMenu
	GamePlaying
	GamePaused
	GameSaving
	GameExiting
)

func (s GameState) String() string {
	switch s {
	case GameLoading:
		return "loading"
	case GameMainMenu:
		return "main-menu"
	case GamePlaying:
		return "playing"
	case GamePaused:
		return "paused"
	case GameSaving:
		return "saving"
	case GameExiting:
		return "exiting"
	default:
		return "unknown"
	}
}

// RenderDriver is the render system seen from the engine: queue submission
// for the current frame plus teardown. Binding one is optional; without it
// the engine falls back to direct unsorted submission
type RenderDriver interface {
	Render()
	Shutdown()
}

// Metrics is a per-frame statistics snapshot
type Metrics struct {
	FrameCount  int64
	FrameTime   time.Duration
	UpdateTime  time.Duration
	RenderTime  time.Duration
	FixedTicks  uint64
	FPSEstimate float64
}

// Engine drives the frame loop: variable-step Update, fixed-step
// FixedUpdate with an accumulator, then Render, plus a FIFO task queue
// served by worker goroutines.
//
// Threading: the goroutine calling Run owns the state machine and is the
// only one allowed to drive frames. Workers execute opaque task closures
// and must not structurally mutate the world while the main goroutine
// iterates a snapshot
type Engine struct {
	log      *zap.Logger
	cfg      *config.Config
	world    *World
	renderer render.Renderer
	driver   RenderDriver

	events *event.Queue
	router *event.Router
	res    *Resource

	clock *PausableClock
	wall  Clock

	state     atomic.Int32
	gameState atomic.Int32

	shutdownRequested atomic.Bool
	exitCode          atomic.Int32
	frameNumber       atomic.Int64

	targetFrameTime time.Duration
	maxFrameTime    time.Duration
	fixedDt         time.Duration
	accumulator     time.Duration

	tasks          *taskSystem
	workersEnabled bool
	workerCount    int

	metricsMu sync.RWMutex
	metrics   Metrics

	shutdownOnce sync.Once
}

// New creates an engine around an optional pre-built world.
// Dependencies are injected; nothing is constructed lazily behind globals
func New(cfg *config.Config, world *World, renderer render.Renderer, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg == nil {
		cfg = config.Default()
	}
	wall := Clock(SystemClock{})
	e := &Engine{
		log:      log,
		cfg:      cfg,
		world:    world,
		renderer: renderer,
		events:   event.NewQueue(),
		router:   event.NewRouter(),
		wall:     wall,
		clock:    NewPausableClock(wall),
		tasks:    newTaskSystem(log),
	}
	e.res = &Resource{Time: &TimeResource{}, Events: e.events}
	e.gameState.Store(int32(GameLoading))
	return e
}

// SetClock replaces the wall and game clocks, for tests driving time
// manually. Must be called before Initialize
func (e *Engine) SetClock(c Clock) {
	e.wall = c
	e.clock = NewPausableClock(c)
}

// BindRenderDriver attaches the render system used by the Render phase.
// Must be called before Run
func (e *Engine) BindRenderDriver(d RenderDriver) { e.driver = d }

// World returns the entity world, available after Initialize
func (e *Engine) World() *World { return e.world }

// Router returns the event router for handler registration during startup
func (e *Engine) Router() *event.Router { return e.router }

// Events returns the engine event queue
func (e *Engine) Events() *event.Queue { return e.events }

// Resources returns the injected resource bundle
func (e *Engine) Resources() *Resource { return e.res }

// State returns the current engine state
func (e *Engine) State() State { return State(e.state.Load()) }

// CurrentGameState returns the current game state
func (e *Engine) CurrentGameState() GameState { return GameState(e.gameState.Load()) }

// Initialize validates configuration, builds missing subsystems and spawns
// the worker goroutines. On any failure the engine lands in StateError and
// the caller must not proceed
func (e *Engine) Initialize() (err error) {
	if !e.state.CompareAndSwap(int32(StateUninitialized), int32(StateInitializing)) {
		e.log.Warn("double initialize ignored", zap.String("state", e.State().String()))
		return fmt.Errorf("engine already initialized (state %s)", e.State())
	}

	defer func() {
		if r := recover(); r != nil {
			e.state.Store(int32(StateError))
			err = fmt.Errorf("engine initialization panicked: %v", r)
			e.log.Error("initialization panic", zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
		}
	}()

	if err := e.cfg.Validate(); err != nil {
		e.state.Store(int32(StateError))
		e.log.Error("invalid configuration", zap.Error(err))
		return fmt.Errorf("engine config: %w", err)
	}

	e.targetFrameTime = time.Second / time.Duration(e.cfg.Engine.TargetFPS)
	e.maxFrameTime = e.cfg.Engine.MaxFrameTime.Std()
	e.fixedDt = e.cfg.Engine.FixedTimestep.Std()

	if e.world == nil {
		e.world = NewWorld(e.log)
	}
	e.world.SetEventSink(e.events, e.frameNumber.Load)

	if e.cfg.Engine.EnableMultithreading {
		e.workerCount = resolveWorkerCount(e.cfg.Engine.WorkerThreads)
		e.tasks.start(e.workerCount)
		e.workersEnabled = true
		e.log.Info("worker threads started", zap.Int("count", e.workerCount))
	}

	e.setState(StateRunning)
	e.log.Info("engine initialized",
		zap.Int("target_fps", e.cfg.Engine.TargetFPS),
		zap.Duration("fixed_timestep", e.fixedDt))
	return nil
}

// resolveWorkerCount maps 0 to hardware concurrency with a floor.
// An explicit count is honored as given
func resolveWorkerCount(n int) int {
	if n > 0 {
		return n
	}
	n = runtime.NumCPU()
	if n < parameter.MinWorkerThreads {
		n = parameter.MinWorkerThreads
	}
	return n
}

// Run blocks driving frames until shutdown is requested, then tears the
// engine down and returns the exit code
func (e *Engine) Run() int {
	if s := e.State(); s != StateRunning {
		e.log.Error("run refused", zap.String("state", s.String()))
		return 1
	}

	timer := time.NewTimer(0)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	defer timer.Stop()

	last := e.clock.Now()
	for !e.shutdownRequested.Load() {
		frameStart := e.wall.Now()

		gameNow := e.clock.Now()
		dt := gameNow.Sub(last)
		last = gameNow
		if dt > e.maxFrameTime {
			// Clamp runaway catch-up after a stall or breakpoint
			dt = e.maxFrameTime
		}
		if dt < 0 {
			dt = 0
		}

		e.ProcessFrame(dt)

		if sleep := e.targetFrameTime - e.wall.Now().Sub(frameStart); sleep > 0 {
			timer.Reset(sleep)
			<-timer.C
		}
	}

	e.Shutdown()
	return int(e.exitCode.Load())
}

// ProcessFrame executes one frame with the given delta. Only in the
// Playing game state does it run Update, FixedUpdate and Render; other
// states perform state-specific no-ops or a transition. Every frame ends
// by dispatching queued events and, without workers, draining queued
// tasks inline.
//
// A panic escaping any phase is contained here: logged, engine flipped to
// StateError, shutdown requested with a failure exit code
func (e *Engine) ProcessFrame(dt time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("frame panicked",
				zap.Int64("frame", e.frameNumber.Load()),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
			e.setState(StateError)
			e.RequestShutdown(1)
		}
	}()

	frame := e.frameNumber.Add(1)
	e.res.Time.Update(e.clock.Now(), e.wall.Now(), dt, frame)

	switch e.CurrentGameState() {
	case GamePlaying:
		updateTime := e.update(dt)
		e.fixedStep(dt)
		renderTime := e.renderFrame()
		e.recordFrame(dt, updateTime, renderTime)

	case GameExiting:
		e.RequestShutdown(0)

	case GameLoading, GameMainMenu, GamePaused, GameSaving:
		// State-specific work lives in application code; the core idles
		e.recordFrame(dt, 0, 0)
	}

	e.dispatchEvents()

	if !e.workersEnabled {
		e.tasks.drain()
	}
}

// update runs the variable-step systems and returns the elapsed time
func (e *Engine) update(dt time.Duration) time.Duration {
	start := e.wall.Now()
	e.world.Update(dt)
	return e.wall.Now().Sub(start)
}

// fixedStep advances the fixed-timestep accumulator.
// Iterations per frame are capped; when the cap is hit the excess time is
// dropped so a slow fixed step cannot snowball into a death spiral
func (e *Engine) fixedStep(frameTime time.Duration) {
	e.accumulator += frameTime

	steps := 0
	for e.accumulator >= e.fixedDt && steps < parameter.MaxFixedStepsPerFrame {
		e.world.FixedUpdate(e.fixedDt)
		e.accumulator -= e.fixedDt
		steps++
	}

	if e.accumulator >= e.fixedDt {
		dropped := e.accumulator - e.fixedDt
		e.accumulator = e.fixedDt
		e.log.Warn("fixed step cap hit, dropping accumulated time",
			zap.Duration("dropped", dropped))
	}

	if steps > 0 {
		e.metricsMu.Lock()
		e.metrics.FixedTicks += uint64(steps)
		e.metricsMu.Unlock()
	}
}

// renderFrame runs the render phase through the bound driver, or falls
// back to direct unsorted submission of every visible renderable
func (e *Engine) renderFrame() time.Duration {
	start := e.wall.Now()

	switch {
	case e.driver != nil:
		e.driver.Render()
	case e.renderer != nil:
		e.renderFallback()
	}

	return e.wall.Now().Sub(start)
}

// renderFallback submits active renderables without sorting or culling
func (e *Engine) renderFallback() {
	e.renderer.BeginFrame()
	e.renderer.Clear()
	for _, ent := range e.world.ActiveEntities() {
		rc, ok := e.world.Renders.Get(ent)
		if !ok || !rc.Visible {
			continue
		}
		tc, ok := e.world.Transforms.Get(ent)
		if !ok {
			continue
		}
		e.renderer.Submit(render.DrawCommand{
			Entity:    ent,
			Position:  tc.Position,
			Scale:     tc.Scale,
			Mesh:      rc.Mesh,
			Color:     rc.Color,
			Triangles: rc.Triangles,
		})
	}
	e.renderer.EndFrame()
}

// dispatchEvents drains the queue through the router, intercepting
// shutdown requests
func (e *Engine) dispatchEvents() {
	events := e.events.Consume()
	for _, ev := range events {
		if ev.Type == event.EventShutdownRequest {
			code := 0
			if c, ok := ev.Payload.(int); ok {
				code = c
			}
			e.RequestShutdown(code)
		}
		e.router.Dispatch(ev)
	}
}

func (e *Engine) recordFrame(frameTime, updateTime, renderTime time.Duration) {
	e.metricsMu.Lock()
	e.metrics.FrameCount++
	e.metrics.FrameTime = frameTime
	e.metrics.UpdateTime = updateTime
	e.metrics.RenderTime = renderTime
	if frameTime > 0 {
		e.metrics.FPSEstimate = float64(time.Second) / float64(frameTime)
	}
	e.metricsMu.Unlock()
}

// Statistics returns a snapshot of the frame metrics
func (e *Engine) Statistics() Metrics {
	e.metricsMu.RLock()
	defer e.metricsMu.RUnlock()
	return e.metrics
}

// === Task API ===

// AddTask queues a closure for asynchronous execution and returns its id.
// The engine queue is FIFO; a panicking task is logged and swallowed.
// For observable results use worker.Pool futures instead
func (e *Engine) AddTask(fn func(), name string) uint64 {
	return e.tasks.submit(fn, name)
}

// CancelTask removes a queued task before it starts. Best effort only:
// a task already running cannot be cancelled
func (e *Engine) CancelTask(id uint64) bool {
	return e.tasks.cancel(id)
}

// WaitForTask blocks until the task finishes or the timeout elapses.
// Returns true on completion, false on timeout. Ids no longer tracked are
// reported as completed
func (e *Engine) WaitForTask(id uint64, timeout time.Duration) bool {
	return e.tasks.wait(id, timeout)
}

// ProcessedTasks returns the cumulative count of executed tasks
func (e *Engine) ProcessedTasks() uint64 {
	return e.tasks.processed.Load()
}

// === State transitions ===

// SetGameState transitions the game state and emits a change event
func (e *Engine) SetGameState(gs GameState) {
	old := e.gameState.Swap(int32(gs))
	if old != int32(gs) && e.world != nil {
		e.world.PushEvent(event.EventGameStateChanged,
			event.GameStatePayload{Old: old, New: int32(gs)})
	}
}

// Pause freezes game time. Running -> Paused only
func (e *Engine) Pause() bool {
	if e.state.CompareAndSwap(int32(StateRunning), int32(StatePaused)) {
		e.clock.Pause()
		e.world.PushEvent(event.EventEngineStateChanged,
			event.EngineStatePayload{Old: int32(StateRunning), New: int32(StatePaused)})
		return true
	}
	return false
}

// Resume unfreezes game time. Paused -> Running only
func (e *Engine) Resume() bool {
	if e.state.CompareAndSwap(int32(StatePaused), int32(StateRunning)) {
		e.clock.Resume()
		e.world.PushEvent(event.EventEngineStateChanged,
			event.EngineStatePayload{Old: int32(StatePaused), New: int32(StateRunning)})
		return true
	}
	return false
}

// RequestShutdown asks the frame loop to exit with the given code.
// First request wins
func (e *Engine) RequestShutdown(code int) {
	if e.shutdownRequested.CompareAndSwap(false, true) {
		e.exitCode.Store(int32(code))
		e.log.Info("shutdown requested", zap.Int("code", code))
	}
}

// Shutdown joins the worker goroutines, tears down the render driver and
// clears the world, then returns the engine to StateUninitialized.
// Worker joins complete before any subsystem teardown. Idempotent
func (e *Engine) Shutdown() {
	e.shutdownOnce.Do(func() {
		e.setState(StateShuttingDown)

		e.tasks.stop()

		if e.driver != nil {
			e.driver.Shutdown()
		}
		if e.world != nil {
			e.world.Clear(true)
		}

		e.setState(StateUninitialized)
		e.log.Info("engine shut down",
			zap.Uint64("tasks_processed", e.tasks.processed.Load()))
	})
}

func (e *Engine) setState(s State) {
	old := e.state.Swap(int32(s))
	if e.world != nil && old != int32(s) {
		e.world.PushEvent(event.EventEngineStateChanged,
			event.EngineStatePayload{Old: old, New: int32(s)})
	}
}
