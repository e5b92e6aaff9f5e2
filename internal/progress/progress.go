package progress

import (
	"sync"

	"dataviz-studio/internal/dispatch"
)

// Indeterminate is passed as total when the amount of work is unknown
const Indeterminate = -1

// Event is one progress update from a worker
type Event struct {
	Current       int
	Total         int
	Indeterminate bool
}

// NewEvent builds an event; a negative total marks it indeterminate
func NewEvent(current, total int) Event {
	if total < 0 {
		return Event{Current: current, Total: Indeterminate, Indeterminate: true}
	}
	return Event{Current: current, Total: total}
}

// Fraction returns completion in [0, 1], or -1 when indeterminate
func (e Event) Fraction() float64 {
	if e.Indeterminate {
		return -1
	}
	if e.Total == 0 {
		return 1
	}
	f := float64(e.Current) / float64(e.Total)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Reporter accepts progress from a worker
type Reporter interface {
	Report(current, total int)
}

// ReporterFunc adapts a function to Reporter
type ReporterFunc func(current, total int)

func (f ReporterFunc) Report(current, total int) { f(current, total) }

// Discard ignores every report
var Discard Reporter = ReporterFunc(func(int, int) {})

// Sink is the consumer side of status and progress updates.
// Its methods are always called on the dispatcher.
type Sink interface {
	OnStatus(message string, busy bool)
	OnProgress(event Event)
}

// DispatchedReporter forwards worker reports to a sink through a dispatcher.
// Determinate reports that would move progress backwards are dropped.
type DispatchedReporter struct {
	dispatcher *dispatch.Dispatcher
	sink       Sink

	mu       sync.Mutex
	lastCur  int
	lastTot  int
	reported bool
}

// NewDispatchedReporter creates a reporter delivering to sink on dispatcher
func NewDispatchedReporter(dispatcher *dispatch.Dispatcher, sink Sink) *DispatchedReporter {
	return &DispatchedReporter{dispatcher: dispatcher, sink: sink}
}

// Report queues the update without waiting for the consumer
func (r *DispatchedReporter) Report(current, total int) {
	event := NewEvent(current, total)
	if !r.accept(event) {
		return
	}
	r.dispatcher.Post(func() {
		r.sink.OnProgress(event)
	})
}

func (r *DispatchedReporter) accept(event Event) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !event.Indeterminate && r.reported && event.Total == r.lastTot && event.Current < r.lastCur {
		return false
	}
	if !event.Indeterminate {
		r.lastCur, r.lastTot, r.reported = event.Current, event.Total, true
	}
	return true
}

// Status queues a status message for sink on dispatcher
func Status(dispatcher *dispatch.Dispatcher, sink Sink, message string, busy bool) {
	dispatcher.Post(func() {
		sink.OnStatus(message, busy)
	})
}
