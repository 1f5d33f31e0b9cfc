// Package loop serializes work onto a single UI turn.
//
// Navigation runs synchronously on the caller's turn. Work that completes
// elsewhere (a lazy component load, a history pop received from a browser
// socket) is posted back through a Dispatcher so that route resolution and
// the outlet fan-out for one navigation finish before the next begins.
package loop

import (
	"context"
	"sync"
)

// Dispatcher runs functions on the UI turn.
type Dispatcher interface {
	Post(fn func())
}

// Immediate runs posted functions inline on the posting goroutine.
// Suitable when the caller already owns the UI turn, e.g. in tests.
type Immediate struct{}

// Post runs fn immediately.
func (Immediate) Post(fn func()) { fn() }

// Serial runs posted functions inline on the posting goroutine, one at a
// time. It serializes callers on several goroutines (HTTP handlers, socket
// readers) that have no loop to post to. A posted function must not Post
// to the same Serial. The zero value is ready to use.
type Serial struct {
	mu sync.Mutex
}

// Post runs fn once no other posted function is running.
func (s *Serial) Post(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// Loop is a FIFO of posted functions drained by a single goroutine.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	stopped bool
}

// New creates an empty loop.
func New() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post enqueues fn. Functions posted after Run returns are dropped.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run drains the queue until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.Drain()
		select {
		case <-ctx.Done():
			l.mu.Lock()
			l.stopped = true
			l.queue = nil
			l.mu.Unlock()
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Drain runs every queued function, including ones posted while draining,
// and returns how many ran. Must only be called from the UI goroutine.
func (l *Loop) Drain() int {
	n := 0
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return n
		}
		fn := l.queue[0]
		l.queue = l.queue[1:]
		l.mu.Unlock()

		fn()
		n++
	}
}

// Len returns the number of queued functions.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}
