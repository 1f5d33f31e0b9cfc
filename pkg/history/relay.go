package history

import (
	"errors"
	"sync"
)

// Relay is a History that fans pushes out to every attached history and
// reports pops from any of them. It lets browser sockets connect and
// disconnect while the resolver keeps a single History for its lifetime.
type Relay struct {
	mu      sync.RWMutex
	members map[int]member
	next    int
	pops    listeners
}

type member struct {
	h      History
	cancel func()
}

// NewRelay creates a relay with no members.
func NewRelay() *Relay {
	return &Relay{members: make(map[int]member)}
}

// Attach adds h. Pops reported by h reach the relay's listeners until the
// returned function is called.
func (r *Relay) Attach(h History) (detach func()) {
	r.mu.Lock()
	id := r.next
	r.next++
	r.members[id] = member{h: h, cancel: h.OnPop(r.pops.fire)}
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			m, ok := r.members[id]
			delete(r.members, id)
			r.mu.Unlock()
			if ok {
				m.cancel()
			}
		})
	}
}

// Len returns the number of attached histories.
func (r *Relay) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

// Push forwards the entry to every member. Failures are joined; a relay
// without members accepts the push.
func (r *Relay) Push(state, url string) error {
	r.mu.RLock()
	targets := make([]History, 0, len(r.members))
	for _, m := range r.members {
		targets = append(targets, m.h)
	}
	r.mu.RUnlock()

	var errs []error
	for _, h := range targets {
		if err := h.Push(state, url); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OnPop registers a pop listener.
func (r *Relay) OnPop(fn func(Entry)) func() {
	return r.pops.add(fn)
}
