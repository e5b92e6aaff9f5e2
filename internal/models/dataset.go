package models

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// DataPoint is a single immutable sample shown on the charts
type DataPoint struct {
	X        float64
	Y        float64
	Category string
}

// NewDataPoint creates a data point
func NewDataPoint(x, y float64, category string) DataPoint {
	return DataPoint{X: x, Y: y, Category: category}
}

// String renders the point the way the data preview shows it
func (dp DataPoint) String() string {
	return fmt.Sprintf("(%.2f, %.2f) [%s]", dp.X, dp.Y, dp.Category)
}

// Snapshot is a read-only view of the dataset at one instant.
// Callers must not modify the slice.
type Snapshot []DataPoint

// Subscriber is notified after every successful replace
type Subscriber func(Snapshot)

// Dataset holds the current in-memory points. The contents are only ever
// swapped as a whole so readers never see a partially written dataset.
type Dataset struct {
	current atomic.Pointer[Snapshot]

	mu          sync.RWMutex
	subscribers map[int]Subscriber
	order       []int
	nextID      int
}

// NewDataset creates an empty dataset
func NewDataset() *Dataset {
	ds := &Dataset{
		subscribers: make(map[int]Subscriber),
	}
	empty := Snapshot{}
	ds.current.Store(&empty)
	return ds
}

// Replace swaps in a new set of points and notifies subscribers.
// The input slice is copied so later writes by the caller are not observed.
func (ds *Dataset) Replace(points []DataPoint) {
	next := make(Snapshot, len(points))
	copy(next, points)
	ds.current.Store(&next)

	for _, sub := range ds.subscriberList() {
		sub(next)
	}
}

// Size returns the number of points in the current snapshot
func (ds *Dataset) Size() int {
	return len(*ds.current.Load())
}

// IsEmpty reports whether the dataset holds no points
func (ds *Dataset) IsEmpty() bool {
	return ds.Size() == 0
}

// Snapshot returns the current points
func (ds *Dataset) Snapshot() Snapshot {
	return *ds.current.Load()
}

// Subscribe registers fn to run after each Replace, in subscription order.
// The returned function removes the subscription.
func (ds *Dataset) Subscribe(fn Subscriber) func() {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	id := ds.nextID
	ds.nextID++
	ds.subscribers[id] = fn
	ds.order = append(ds.order, id)

	return func() {
		ds.mu.Lock()
		defer ds.mu.Unlock()

		delete(ds.subscribers, id)
		for i, existing := range ds.order {
			if existing == id {
				ds.order = append(ds.order[:i], ds.order[i+1:]...)
				break
			}
		}
	}
}

func (ds *Dataset) subscriberList() []Subscriber {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	subs := make([]Subscriber, 0, len(ds.order))
	for _, id := range ds.order {
		subs = append(subs, ds.subscribers[id])
	}
	return subs
}
