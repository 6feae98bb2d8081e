package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/voxforge/parameter"
)

// Engine task states
const (
	taskPending int32 = iota
	taskRunning
	taskDone
	taskCancelled
)

// engineTask is a fire-and-forget closure queued on the engine.
// Unlike worker.Pool tasks there is no future: a panicking task is logged
// and swallowed, observable only through the processed counter
type engineTask struct {
	id         uint64
	name       string
	fn         func()
	submitTime time.Time
	state      atomic.Int32
	done       chan struct{}
}

// taskSystem is the engine's FIFO task queue plus its worker goroutines.
// FIFO only: priorities belong to the reusable worker.Pool
type taskSystem struct {
	log *zap.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []*engineTask
	reg     map[uint64]*engineTask
	running bool

	seq       atomic.Uint64
	processed atomic.Uint64
	wg        sync.WaitGroup
}

func newTaskSystem(log *zap.Logger) *taskSystem {
	ts := &taskSystem{
		log:   log,
		queue: make([]*engineTask, 0, parameter.EngineTaskQueueSize),
		reg:   make(map[uint64]*engineTask),
	}
	ts.cond = sync.NewCond(&ts.mu)
	return ts
}

// start spawns n worker goroutines consuming the queue
func (ts *taskSystem) start(n int) {
	ts.mu.Lock()
	ts.running = true
	ts.mu.Unlock()

	for i := 0; i < n; i++ {
		ts.wg.Add(1)
		workerID := i
		go func() {
			defer ts.wg.Done()
			ts.workerLoop(workerID)
		}()
	}
}

// stop wakes all workers and joins them. Queued tasks not yet started are
// dropped without running
func (ts *taskSystem) stop() {
	ts.mu.Lock()
	if !ts.running && len(ts.queue) == 0 {
		ts.mu.Unlock()
		ts.wg.Wait()
		return
	}
	ts.running = false
	dropped := ts.queue
	ts.queue = make([]*engineTask, 0)
	ts.reg = make(map[uint64]*engineTask)
	ts.cond.Broadcast()
	ts.mu.Unlock()

	for _, t := range dropped {
		if t.state.CompareAndSwap(taskPending, taskCancelled) {
			close(t.done)
		}
	}

	ts.wg.Wait()
	if len(dropped) > 0 {
		ts.log.Warn("dropped queued tasks on shutdown", zap.Int("count", len(dropped)))
	}
}

// submit enqueues a task and signals one worker. Returns the task id
func (ts *taskSystem) submit(fn func(), name string) uint64 {
	t := &engineTask{
		id:         ts.seq.Add(1),
		name:       name,
		fn:         fn,
		submitTime: time.Now(),
		done:       make(chan struct{}),
	}

	ts.mu.Lock()
	ts.queue = append(ts.queue, t)
	ts.reg[t.id] = t
	ts.cond.Signal()
	ts.mu.Unlock()
	return t.id
}

// cancel removes a task before it starts. Best effort: returns false if
// the task is unknown, already running, or already finished
func (ts *taskSystem) cancel(id uint64) bool {
	ts.mu.Lock()
	t, ok := ts.reg[id]
	if !ok {
		ts.mu.Unlock()
		return false
	}
	if !t.state.CompareAndSwap(taskPending, taskCancelled) {
		ts.mu.Unlock()
		return false
	}
	delete(ts.reg, id)
	for i, qt := range ts.queue {
		if qt.id == id {
			ts.queue = append(ts.queue[:i], ts.queue[i+1:]...)
			break
		}
	}
	ts.mu.Unlock()

	close(t.done)
	return true
}

// wait blocks until the task completes or the timeout elapses.
// Unknown ids are treated as already completed
func (ts *taskSystem) wait(id uint64, timeout time.Duration) bool {
	ts.mu.Lock()
	t, ok := ts.reg[id]
	ts.mu.Unlock()
	if !ok {
		return true
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-t.done:
		return true
	case <-timer.C:
		return false
	}
}

// drain runs every currently queued task inline on the calling goroutine.
// Used when multithreading is disabled so queued work still executes once
// per frame
func (ts *taskSystem) drain() int {
	ts.mu.Lock()
	batch := ts.queue
	ts.queue = ts.queue[len(ts.queue):]
	ts.mu.Unlock()

	count := 0
	for _, t := range batch {
		if ts.run(t, -1) {
			count++
		}
	}
	return count
}

func (ts *taskSystem) workerLoop(workerID int) {
	for {
		ts.mu.Lock()
		for len(ts.queue) == 0 && ts.running {
			ts.cond.Wait()
		}
		if !ts.running {
			ts.mu.Unlock()
			return
		}
		t := ts.queue[0]
		ts.queue = ts.queue[1:]
		ts.mu.Unlock()

		ts.run(t, workerID)
	}
}

// run executes one task with panic containment. Returns false if the task
// was cancelled before starting
func (ts *taskSystem) run(t *engineTask, workerID int) bool {
	if !t.state.CompareAndSwap(taskPending, taskRunning) {
		return false // cancelled between pop and execution
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				ts.log.Error("task panicked",
					zap.Uint64("task", t.id),
					zap.String("name", t.name),
					zap.Int("worker", workerID),
					zap.Any("panic", r))
			}
		}()
		t.fn()
	}()

	t.state.Store(taskDone)
	ts.processed.Add(1)

	ts.mu.Lock()
	delete(ts.reg, t.id)
	ts.mu.Unlock()
	close(t.done)
	return true
}
