package ctrlcv

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestThreadPoolRunsAllTasks(t *testing.T) {
	pool := NewThreadPool(4)
	defer pool.Stop()

	var count atomic.Int64
	for i := 0; i < 100; i++ {
		require.NoError(t, pool.Enqueue(func() { count.Add(1) }))
	}
	pool.Wait()

	require.EqualValues(t, 100, count.Load())
	require.False(t, pool.IsBusy())
}

func TestThreadPoolWaitIsReusable(t *testing.T) {
	pool := NewThreadPool(2)
	defer pool.Stop()

	var phase1, phase2 atomic.Int64
	for i := 0; i < 10; i++ {
		require.NoError(t, pool.Enqueue(func() { phase1.Add(1) }))
	}
	pool.Wait()
	require.EqualValues(t, 10, phase1.Load())

	for i := 0; i < 10; i++ {
		require.NoError(t, pool.Enqueue(func() { phase2.Add(1) }))
	}
	pool.Wait()
	require.EqualValues(t, 10, phase2.Load())
}

func TestThreadPoolEnqueueAfterStopFails(t *testing.T) {
	pool := NewThreadPool(1)
	pool.Stop()
	pool.Stop() // idempotent

	err := pool.Enqueue(func() {})
	require.ErrorIs(t, err, ErrPoolClosed)
}

func TestThreadPoolBoundedQueueSaturates(t *testing.T) {
	pool := NewThreadPool(1, WithQueueDepth(1))
	defer pool.Stop()

	block := make(chan struct{})
	require.NoError(t, pool.Enqueue(func() { <-block }))

	// Give the single worker a chance to pick up the blocking task so the
	// queue itself (not the in-flight task) is what we're measuring.
	time.Sleep(10 * time.Millisecond)

	require.NoError(t, pool.Enqueue(func() {}))
	err := pool.Enqueue(func() {})
	require.ErrorIs(t, err, ErrPoolSaturated)

	close(block)
	pool.Wait()
}

func TestThreadPoolQueuedTasksRunAfterStop(t *testing.T) {
	pool := NewThreadPool(1)

	var ran atomic.Bool
	require.NoError(t, pool.Enqueue(func() {
		time.Sleep(5 * time.Millisecond)
	}))
	require.NoError(t, pool.Enqueue(func() { ran.Store(true) }))

	pool.Stop()
	require.True(t, ran.Load())
}
