package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPoolRunsTasks(t *testing.T) {
	pool := NewWorkerPool(3, 16, nil)
	defer pool.Shutdown()

	var wg sync.WaitGroup
	var ran atomic.Int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		require.NoError(t, pool.Submit(func(ctx context.Context) {
			defer wg.Done()
			ran.Add(1)
		}))
	}
	wg.Wait()

	assert.Equal(t, int32(10), ran.Load())
	assert.Equal(t, 3, pool.WorkerCount())
}

func TestWorkerPoolLimitsConcurrency(t *testing.T) {
	pool := NewWorkerPool(2, 16, nil)
	defer pool.Shutdown()

	var running, peak atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		require.NoError(t, pool.Submit(func(ctx context.Context) {
			defer wg.Done()
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
		}))
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestWorkerPoolRejectsWhenQueueFull(t *testing.T) {
	pool := NewWorkerPool(1, 1, nil)
	defer pool.Shutdown()

	started := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, pool.Submit(func(ctx context.Context) {
		close(started)
		<-release
	}))
	<-started

	require.NoError(t, pool.Submit(func(ctx context.Context) {}))
	assert.ErrorIs(t, pool.Submit(func(ctx context.Context) {}), ErrQueueFull)
	assert.Equal(t, 1, pool.ActiveCount())

	close(release)
}

func TestWorkerPoolRejectsAfterShutdown(t *testing.T) {
	pool := NewWorkerPool(1, 1, nil)
	pool.Shutdown()
	pool.Shutdown()

	assert.ErrorIs(t, pool.Submit(func(ctx context.Context) {}), ErrPoolClosed)
}

func TestWorkerPoolSurvivesPanics(t *testing.T) {
	pool := NewWorkerPool(1, 4, nil)
	defer pool.Shutdown()

	require.NoError(t, pool.Submit(func(ctx context.Context) { panic("boom") }))

	done := make(chan struct{})
	require.NoError(t, pool.Submit(func(ctx context.Context) { close(done) }))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not recover from panic")
	}
}

func TestWorkerPoolShutdownCancelsRunningTasks(t *testing.T) {
	pool := NewWorkerPool(1, 1, nil)

	started := make(chan struct{})
	cancelled := make(chan struct{})
	require.NoError(t, pool.Submit(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		close(cancelled)
	}))
	<-started

	pool.Shutdown()

	select {
	case <-cancelled:
	default:
		t.Fatal("running task was not cancelled")
	}
}
