package services

import (
	"context"
	"sync"
	"sync/atomic"

	"dataviz-studio/internal/logger"
)

// Task is a unit of background work. The context is cancelled on pool shutdown.
type Task func(ctx context.Context)

// WorkerPool runs tasks on a fixed set of long-lived goroutines
type WorkerPool struct {
	tasks  chan Task
	logger logger.Logger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	workers int
	active  atomic.Int32
}

// NewWorkerPool starts workers goroutines reading from a queue of queueSize tasks
func NewWorkerPool(workers, queueSize int, log logger.Logger) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	if log == nil {
		log = logger.Nop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	wp := &WorkerPool{
		tasks:   make(chan Task, queueSize),
		logger:  log,
		ctx:     ctx,
		cancel:  cancel,
		workers: workers,
	}

	for i := 0; i < workers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}

	log.Debug("WorkerPool", "started", map[string]interface{}{
		"workers":    workers,
		"queue_size": queueSize,
	})
	return wp
}

// Submit queues a task without blocking. It fails when the queue is full
// or the pool has been shut down.
func (wp *WorkerPool) Submit(task Task) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return ErrPoolClosed
	}

	select {
	case wp.tasks <- task:
		return nil
	default:
		wp.logger.Warning("WorkerPool", "task rejected, queue full", map[string]interface{}{
			"queue_size": cap(wp.tasks),
		})
		return ErrQueueFull
	}
}

// WorkerCount returns the number of worker goroutines
func (wp *WorkerPool) WorkerCount() int {
	return wp.workers
}

// ActiveCount returns the number of tasks currently running
func (wp *WorkerPool) ActiveCount() int {
	return int(wp.active.Load())
}

// Shutdown stops accepting tasks, cancels running ones and waits for the workers.
// Queued tasks that have not started are discarded.
func (wp *WorkerPool) Shutdown() {
	wp.mu.Lock()
	if wp.closed {
		wp.mu.Unlock()
		return
	}
	wp.closed = true
	wp.cancel()
	close(wp.tasks)
	wp.mu.Unlock()

	wp.wg.Wait()
	wp.logger.Debug("WorkerPool", "stopped", nil)
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for task := range wp.tasks {
		if wp.ctx.Err() != nil {
			continue
		}
		wp.run(id, task)
	}
}

func (wp *WorkerPool) run(id int, task Task) {
	wp.active.Add(1)
	defer wp.active.Add(-1)

	defer func() {
		if r := recover(); r != nil {
			wp.logger.Error("WorkerPool", panicError(r), map[string]interface{}{
				"worker": id,
			})
		}
	}()

	task(wp.ctx)
}
