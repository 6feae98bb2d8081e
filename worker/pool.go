package worker

import (
	"container/heap"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/voxforge/parameter"
)

// Task priorities. Higher runs first; ties run in submission order
type Priority int

const (
	PriorityLow      Priority = 0
	PriorityNormal   Priority = 50
	PriorityHigh     Priority = 100
	PriorityCritical Priority = 200
)

var (
	// ErrQueueFull is reported by futures of rejected submissions
	ErrQueueFull = errors.New("worker: queue full")
	// ErrShutdown is reported by futures of tasks dropped at shutdown
	ErrShutdown = errors.New("worker: pool shut down")
)

// Future resolves when its task finishes. A panicking task resolves with
// an error instead of crashing the worker
type Future struct {
	done chan struct{}
	err  error
	ok   bool
}

func newFuture() *Future {
	return &Future{done: make(chan struct{}), ok: true}
}

// failedFuture is already resolved with err, returned on rejection
func failedFuture(err error) *Future {
	f := &Future{done: make(chan struct{}), err: err}
	close(f.done)
	return f
}

// Valid reports whether the task was accepted by the pool
func (f *Future) Valid() bool { return f.ok }

// Done returns a channel closed when the task finishes
func (f *Future) Done() <-chan struct{} { return f.done }

// Wait blocks until the task finishes and returns its error
func (f *Future) Wait() error {
	<-f.done
	return f.err
}

// WaitTimeout blocks up to d. Returns false if the task did not finish
func (f *Future) WaitTimeout(d time.Duration) (error, bool) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-f.done:
		return f.err, true
	case <-timer.C:
		return nil, false
	}
}

type poolTask struct {
	fn       func() error
	future   *Future
	priority Priority
	seq      uint64
}

// taskHeap orders by priority descending, then submission order
type taskHeap []*poolTask

func (h taskHeap) Len() int { return len(h) }
func (h taskHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority > h[j].priority
	}
	return h[i].seq < h[j].seq
}
func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) { *h = append(*h, x.(*poolTask)) }
func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

// Pool runs prioritized tasks on a fixed set of worker goroutines.
// Independent of the engine loop: loaders, generators and other services
// share one pool instead of each spawning goroutines
type Pool struct {
	log *zap.Logger

	mu       sync.Mutex
	cond     *sync.Cond // signals workers: work available or shutdown
	idleCond *sync.Cond // signals WaitAll: queue empty and no task running
	tasks    taskHeap
	inFlight int
	shutdown bool

	maxQueue int // 0 = unbounded
	seq      uint64

	workers   int
	wg        sync.WaitGroup
	submitted atomic.Uint64
	completed atomic.Uint64
	rejected  atomic.Uint64
}

// NewPool starts n workers. n <= 0 selects hardware concurrency with a
// floor so small machines still get useful parallelism
func NewPool(n int, log *zap.Logger) *Pool {
	if log == nil {
		log = zap.NewNop()
	}
	if n <= 0 {
		n = runtime.NumCPU()
		if n < parameter.MinWorkerThreads {
			n = parameter.MinWorkerThreads
		}
	}

	p := &Pool{log: log, workers: n}
	p.cond = sync.NewCond(&p.mu)
	p.idleCond = sync.NewCond(&p.mu)

	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.workerLoop()
		}()
	}
	log.Debug("worker pool started", zap.Int("workers", n))
	return p
}

// Workers returns the worker count
func (p *Pool) Workers() int { return p.workers }

// SetMaxQueueSize bounds the pending queue. Submissions past the bound are
// rejected with an invalid future. Zero removes the bound
func (p *Pool) SetMaxQueueSize(n int) {
	p.mu.Lock()
	p.maxQueue = n
	p.mu.Unlock()
}

// Submit queues fn at the given priority. The returned future is invalid
// when the pool is shut down or the queue is full; check Valid before
// waiting on workloads that tolerate rejection
func (p *Pool) Submit(fn func() error, priority Priority) *Future {
	p.mu.Lock()
	if p.shutdown {
		p.mu.Unlock()
		p.rejected.Add(1)
		return failedFuture(ErrShutdown)
	}
	if p.maxQueue > 0 && len(p.tasks) >= p.maxQueue {
		p.mu.Unlock()
		p.rejected.Add(1)
		return failedFuture(ErrQueueFull)
	}

	p.seq++
	t := &poolTask{fn: fn, future: newFuture(), priority: priority, seq: p.seq}
	heap.Push(&p.tasks, t)
	p.cond.Signal()
	p.mu.Unlock()

	p.submitted.Add(1)
	return t.future
}

// WaitAll blocks until the queue is empty and no task is running.
// Tasks submitted while waiting extend the wait
func (p *Pool) WaitAll() {
	p.mu.Lock()
	for len(p.tasks) > 0 || p.inFlight > 0 {
		p.idleCond.Wait()
	}
	p.mu.Unlock()
}

// Shutdown stops accepting tasks, resolves queued futures with
// ErrShutdown and joins the workers. Running tasks finish. Idempotent
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.shutdown {
		p.mu.Unlock()
		p.wg.Wait()
		return
	}
	p.shutdown = true
	dropped := p.tasks
	p.tasks = nil
	p.cond.Broadcast()
	p.mu.Unlock()

	for _, t := range dropped {
		t.future.err = ErrShutdown
		close(t.future.done)
	}

	p.wg.Wait()
	p.mu.Lock()
	p.idleCond.Broadcast()
	p.mu.Unlock()

	if len(dropped) > 0 {
		p.log.Warn("dropped queued pool tasks on shutdown", zap.Int("count", len(dropped)))
	}
}

// Stats returns cumulative submitted, completed and rejected counts
func (p *Pool) Stats() (submitted, completed, rejected uint64) {
	return p.submitted.Load(), p.completed.Load(), p.rejected.Load()
}

// QueueLen returns the number of pending tasks
func (p *Pool) QueueLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tasks)
}

func (p *Pool) workerLoop() {
	for {
		p.mu.Lock()
		for len(p.tasks) == 0 && !p.shutdown {
			p.cond.Wait()
		}
		if p.shutdown {
			p.mu.Unlock()
			return
		}
		t := heap.Pop(&p.tasks).(*poolTask)
		p.inFlight++
		p.mu.Unlock()

		err := p.runTask(t)

		t.future.err = err
		close(t.future.done)
		p.completed.Add(1)

		p.mu.Lock()
		p.inFlight--
		if len(p.tasks) == 0 && p.inFlight == 0 {
			p.idleCond.Broadcast()
		}
		p.mu.Unlock()
	}
}

// runTask executes fn converting a panic into the future's error
func (p *Pool) runTask(t *poolTask) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker: task panic: %v", r)
			p.log.Error("pool task panicked", zap.Any("panic", r))
		}
	}()
	return t.fn()
}
