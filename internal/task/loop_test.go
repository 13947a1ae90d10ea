package task

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	testLoopInterval = 10 * time.Millisecond
	testLoopTimeout  = 2 * time.Second
)

func startLoop(testingT *testing.T) *Loop {
	testingT.Helper()
	loop := NewLoop(0)
	loop.Start(context.Background())
	testingT.Cleanup(loop.Stop)
	return loop
}

func TestNewLoopDefaultsCapacity(testingT *testing.T) {
	loop := NewLoop(0)
	require.Equal(testingT, defaultQueueCapacity, cap(loop.queue))
}

func TestLoopRunsCallbacksInOrderWithoutOverlap(testingT *testing.T) {
	loop := startLoop(testingT)

	var (
		inFlight   int64
		overlapped int64
		orderMutex sync.Mutex
		order      []int
	)
	for index := 0; index < 20; index++ {
		index := index
		require.True(testingT, loop.Post(func() {
			if atomic.AddInt64(&inFlight, 1) > 1 {
				atomic.StoreInt64(&overlapped, 1)
			}
			time.Sleep(time.Millisecond)
			orderMutex.Lock()
			order = append(order, index)
			orderMutex.Unlock()
			atomic.AddInt64(&inFlight, -1)
		}))
	}

	require.Eventually(testingT, func() bool {
		orderMutex.Lock()
		defer orderMutex.Unlock()
		return len(order) == 20
	}, testLoopTimeout, testLoopInterval)

	require.Zero(testingT, atomic.LoadInt64(&overlapped))
	for index, value := range order {
		require.Equal(testingT, index, value)
	}
}

func TestLoopAfterFiresOnce(testingT *testing.T) {
	loop := startLoop(testingT)

	var runCount int64
	loop.After(testLoopInterval, func() {
		atomic.AddInt64(&runCount, 1)
	})

	require.Eventually(testingT, func() bool {
		return atomic.LoadInt64(&runCount) == 1
	}, testLoopTimeout, testLoopInterval)
	time.Sleep(5 * testLoopInterval)
	require.Equal(testingT, int64(1), atomic.LoadInt64(&runCount))
}

func TestLoopHandlesNilReceiver(testingT *testing.T) {
	var loop *Loop
	loop.Start(context.Background())
	require.False(testingT, loop.Post(func() {}))
	loop.After(time.Millisecond, func() {})
	require.Nil(testingT, loop.Done())
	loop.Stop()
}

func TestLoopPostRequiresRunningLoop(testingT *testing.T) {
	loop := NewLoop(1)
	require.False(testingT, loop.Post(func() {}))

	loop.Start(context.Background())
	require.False(testingT, loop.Post(nil))
	loop.Stop()
	require.False(testingT, loop.Post(func() {}))
}

func TestLoopStartIsIdempotent(testingT *testing.T) {
	loop := NewLoop(1)
	loop.Start(context.Background())
	doneAfterStart := loop.done
	require.NotNil(testingT, loop.cancel)
	loop.Start(context.Background())
	require.Equal(testingT, doneAfterStart, loop.done)
	loop.Stop()
	require.Nil(testingT, loop.cancel)
}

func TestLoopExitsWhenContextCanceled(testingT *testing.T) {
	loop := NewLoop(1)
	ctx, cancel := context.WithCancel(context.Background())
	loop.Start(ctx)
	done := loop.Done()
	cancel()

	select {
	case <-done:
	case <-time.After(testLoopTimeout):
		testingT.Fatal("loop did not exit after cancellation")
	}
	loop.Stop()
}

func TestLoopSyncWaitsForQueuedCallbacks(testingT *testing.T) {
	loop := NewLoop(4)
	require.False(testingT, loop.Sync())

	loop.Start(context.Background())
	defer loop.Stop()

	var ran []int
	for index := 0; index < 3; index++ {
		value := index
		require.True(testingT, loop.Post(func() { ran = append(ran, value) }))
	}
	require.True(testingT, loop.Sync())
	require.Equal(testingT, []int{0, 1, 2}, ran)
}
