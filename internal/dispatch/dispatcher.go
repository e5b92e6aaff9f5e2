package dispatch

import (
	"context"
	"sync"
)

// Executor runs one dispatched function. The GUI passes fyne.Do so the
// function lands on fyne's thread; the default calls it directly.
type Executor func(fn func())

// Dispatcher is a FIFO task queue drained by a single consumer loop.
// Posting never blocks and never drops, so workers can hand results and
// progress to the consumer without waiting on it.
type Dispatcher struct {
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
	done    chan struct{}
	stopped bool
	exec    Executor
}

// NewDispatcher creates a dispatcher that runs functions with exec.
// A nil exec runs them directly on the loop goroutine.
func NewDispatcher(exec Executor) *Dispatcher {
	if exec == nil {
		exec = func(fn func()) { fn() }
	}
	return &Dispatcher{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
		exec: exec,
	}
}

// Post queues fn for the consumer loop. Calls after Stop are ignored.
func (d *Dispatcher) Post(fn func()) {
	if fn == nil {
		return
	}

	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.pending = append(d.pending, fn)
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
		// Loop already signalled
	}
}

// Run drains the queue until ctx is cancelled or Stop is called.
// Only one goroutine may call Run.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		for _, fn := range d.take() {
			d.exec(fn)
		}

		select {
		case <-d.wake:
		case <-d.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop ends the consumer loop. Functions still queued are discarded.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.stopped = true
	d.pending = nil
	close(d.done)
}

// Shutdown satisfies shutdown.Shutdownable
func (d *Dispatcher) Shutdown() {
	d.Stop()
}

// Pending returns the number of queued functions
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

func (d *Dispatcher) take() []func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	batch := d.pending
	d.pending = nil
	return batch
}
