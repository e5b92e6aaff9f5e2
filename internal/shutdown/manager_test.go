package shutdown

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShutdownReverseOrder(t *testing.T) {
	m := NewManager(nil, time.Second)

	var mu sync.Mutex
	var order []string
	for _, name := range []string{"dispatcher", "pool", "controller"} {
		n := name
		m.Register(n, Func(func() {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, n)
		}))
	}

	m.Shutdown()

	assert.Equal(t, []string{"controller", "pool", "dispatcher"}, order)
	assert.Error(t, m.Context().Err())
	select {
	case <-m.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

func TestShutdownRunsOnce(t *testing.T) {
	m := NewManager(nil, time.Second)
	calls := 0
	m.Register("counter", Func(func() { calls++ }))

	m.Shutdown()
	m.Shutdown()

	assert.Equal(t, 1, calls)
}

func TestShutdownTimeoutMovesOn(t *testing.T) {
	m := NewManager(nil, 20*time.Millisecond)
	release := make(chan struct{})
	defer close(release)

	reached := false
	m.Register("fast", Func(func() { reached = true }))
	m.Register("stuck", Func(func() { <-release }))

	start := time.Now()
	m.Shutdown()

	assert.True(t, reached)
	assert.Less(t, time.Since(start), time.Second)
}
