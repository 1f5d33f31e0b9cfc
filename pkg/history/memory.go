package history

import "sync"

// Memory is an in-process history stack.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
	cursor  int
	pops    listeners
}

// NewMemory creates a stack whose first entry displays initialURL.
func NewMemory(initialURL string) *Memory {
	return &Memory{entries: []Entry{{URL: initialURL}}}
}

// Push records an entry after the cursor, discarding forward entries.
func (m *Memory) Push(state, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries[:m.cursor+1], Entry{State: state, URL: url})
	m.cursor = len(m.entries) - 1
	return nil
}

// OnPop registers a pop listener.
func (m *Memory) OnPop(fn func(Entry)) func() {
	return m.pops.add(fn)
}

// Back moves one entry back. It reports false at the start of the stack.
func (m *Memory) Back() bool {
	return m.Go(-1)
}

// Forward moves one entry forward. It reports false at the end.
func (m *Memory) Forward() bool {
	return m.Go(1)
}

// Go moves the cursor by delta and notifies pop listeners with the
// destination entry. Out-of-range moves are ignored.
func (m *Memory) Go(delta int) bool {
	m.mu.Lock()
	target := m.cursor + delta
	if delta == 0 || target < 0 || target >= len(m.entries) {
		m.mu.Unlock()
		return false
	}
	m.cursor = target
	entry := m.entries[target]
	m.mu.Unlock()

	m.pops.fire(entry)
	return true
}

// Current returns the entry under the cursor.
func (m *Memory) Current() Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[m.cursor]
}

// Len returns the number of entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Entries returns a copy of the stack.
func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}
