package jsa

import (
	"context"
	"sync"
)

// Task is a unit of work posted across threads with an opaque data payload.
type Task func(data any)

// ThreadScope is the single sanctioned escape hatch from GC-side
// finalization to UI-affine state. VM finalizers may run on arbitrary
// goroutines where touching UI resources is forbidden; they hand the work
// to PostToUIThread instead. The post is fire-and-forget: no return value
// and no synchronization is implied, and the context's owner is
// responsible for draining posted tasks on the UI thread.
type ThreadScope interface {
	PostToUIThread(task Task, data any)
}

// TaskLoop is a channel-backed ThreadScope. Producers post from any
// goroutine; the UI side drains with Drain or Run.
type TaskLoop struct {
	ch        chan queuedTask
	closeOnce sync.Once
	done      chan struct{}
}

type queuedTask struct {
	task Task
	data any
}

// NewTaskLoop creates a task loop. buffer <= 0 means a sensible default;
// posting blocks once the buffer is full.
func NewTaskLoop(buffer int) *TaskLoop {
	if buffer <= 0 {
		buffer = 64
	}
	return &TaskLoop{
		ch:   make(chan queuedTask, buffer),
		done: make(chan struct{}),
	}
}

// PostToUIThread queues a task. Safe from any goroutine. Posts after Close
// are dropped.
func (l *TaskLoop) PostToUIThread(task Task, data any) {
	if task == nil {
		return
	}
	// Check done on its own first: with buffer room free, a combined
	// select would pick between the closed channel and the send at
	// random and could enqueue after Close.
	select {
	case <-l.done:
		return
	default:
	}
	select {
	case <-l.done:
	case l.ch <- queuedTask{task: task, data: data}:
	}
}

// Drain runs all currently queued tasks without blocking and returns how
// many ran. Call from the UI thread.
func (l *TaskLoop) Drain() int {
	n := 0
	for {
		select {
		case qt := <-l.ch:
			qt.task(qt.data)
			n++
		default:
			return n
		}
	}
}

// Run drains tasks until ctx is done or the loop is closed. Call from the
// UI thread.
func (l *TaskLoop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.done:
			return
		case qt := <-l.ch:
			qt.task(qt.data)
		}
	}
}

// Close stops the loop. Queued tasks that were not drained are dropped.
func (l *TaskLoop) Close() {
	l.closeOnce.Do(func() { close(l.done) })
}
