// Package history integrates navigation with a platform history stack.
//
// The resolver records one entry per push-mode navigation and re-applies
// the destination entry whenever the platform reports a pop (back/forward).
// Two implementations are provided: Memory, an in-process stack used by
// headless hosts and tests, and Socket, which mirrors a browser's history
// over a websocket.
package history

import "sync"

// Entry is one history record.
type Entry struct {
	// State is the value stored with the entry; the resolver stores the URL.
	State string `json:"state,omitempty"`

	// URL is the display URL of the entry.
	URL string `json:"url,omitempty"`
}

// Target returns the state, falling back to the URL for entries that were
// not created by a push (e.g. the initial page load).
func (e Entry) Target() string {
	if e.State != "" {
		return e.State
	}
	return e.URL
}

// History is the platform history stack.
type History interface {
	// Push records a new entry after the current one.
	Push(state, url string) error

	// OnPop registers fn for back/forward notifications. The returned
	// function removes the registration.
	OnPop(fn func(Entry)) (cancel func())
}

// listeners is a registration list shared by the implementations.
type listeners struct {
	mu    sync.Mutex
	next  int
	byID  map[int]func(Entry)
	order []int
}

func (l *listeners) add(fn func(Entry)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.byID == nil {
		l.byID = make(map[int]func(Entry))
	}
	id := l.next
	l.next++
	l.byID[id] = fn
	l.order = append(l.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			delete(l.byID, id)
			for i, v := range l.order {
				if v == id {
					l.order = append(l.order[:i], l.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (l *listeners) snapshot() []func(Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fns := make([]func(Entry), 0, len(l.order))
	for _, id := range l.order {
		fns = append(fns, l.byID[id])
	}
	return fns
}

func (l *listeners) fire(e Entry) {
	for _, fn := range l.snapshot() {
		fn(e)
	}
}
