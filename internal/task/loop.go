package task

import (
	"context"
	"sync"
	"time"
)

const defaultQueueCapacity = 64

// Loop runs posted callbacks one at a time on a single goroutine.
// Timers scheduled with After deliver their callback through the same queue.
type Loop struct {
	queue        chan func()
	controlMutex sync.Mutex
	cancel       context.CancelFunc
	done         chan struct{}
}

func NewLoop(capacity int) *Loop {
	if capacity <= 0 {
		capacity = defaultQueueCapacity
	}
	return &Loop{
		queue: make(chan func(), capacity),
	}
}

func (loop *Loop) Start(ctx context.Context) {
	if loop == nil {
		return
	}
	loop.controlMutex.Lock()
	if loop.cancel != nil {
		loop.controlMutex.Unlock()
		return
	}
	runtimeCtx, cancel := context.WithCancel(ctx)
	loop.cancel = cancel
	done := make(chan struct{})
	loop.done = done
	loop.controlMutex.Unlock()

	go loop.run(runtimeCtx, done)
}

// Post queues callback. It returns false when the loop is not running.
func (loop *Loop) Post(callback func()) bool {
	if loop == nil || callback == nil {
		return false
	}
	loop.controlMutex.Lock()
	done := loop.done
	loop.controlMutex.Unlock()
	if done == nil {
		return false
	}
	select {
	case loop.queue <- callback:
		return true
	case <-done:
		return false
	}
}

// After posts callback once delay has elapsed. There is no cancellation;
// callbacks decide for themselves whether they are still relevant.
func (loop *Loop) After(delay time.Duration, callback func()) {
	if loop == nil || callback == nil {
		return
	}
	time.AfterFunc(delay, func() {
		loop.Post(callback)
	})
}

// Sync blocks until every callback queued before it has run.
// It returns false when the loop stops first or is not running.
func (loop *Loop) Sync() bool {
	done := loop.Done()
	if done == nil {
		return false
	}
	barrier := make(chan struct{})
	if !loop.Post(func() { close(barrier) }) {
		return false
	}
	select {
	case <-barrier:
		return true
	case <-done:
		return false
	}
}

// Done is closed when the running loop exits. It is nil before Start.
func (loop *Loop) Done() <-chan struct{} {
	if loop == nil {
		return nil
	}
	loop.controlMutex.Lock()
	defer loop.controlMutex.Unlock()
	return loop.done
}

func (loop *Loop) Stop() {
	if loop == nil {
		return
	}
	loop.controlMutex.Lock()
	cancel := loop.cancel
	done := loop.done
	loop.cancel = nil
	loop.done = nil
	loop.controlMutex.Unlock()
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (loop *Loop) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case callback := <-loop.queue:
			callback()
		}
	}
}
