package history

import (
	"errors"
	"testing"
)

type failingHistory struct {
	err  error
	pops listeners
}

func (f *failingHistory) Push(state, url string) error { return f.err }

func (f *failingHistory) OnPop(fn func(Entry)) func() { return f.pops.add(fn) }

func TestRelayFansOutPushes(t *testing.T) {
	r := NewRelay()
	a, b := NewMemory("/"), NewMemory("/")
	r.Attach(a)
	detachB := r.Attach(b)

	if err := r.Push("/users", "/users"); err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	if a.Current().URL != "/users" || b.Current().URL != "/users" {
		t.Errorf("current = %+v, %+v", a.Current(), b.Current())
	}

	detachB()
	detachB()
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
	if err := r.Push("/about", "/about"); err != nil {
		t.Fatal(err)
	}
	if b.Current().URL != "/users" {
		t.Errorf("detached member received push: %+v", b.Current())
	}
}

func TestRelayForwardsPops(t *testing.T) {
	r := NewRelay()
	m := NewMemory("/")
	detach := r.Attach(m)

	var got []string
	r.OnPop(func(e Entry) { got = append(got, e.Target()) })

	_ = m.Push("/a", "/a")
	m.Back()
	if len(got) != 1 || got[0] != "/" {
		t.Fatalf("pops = %v, want [/]", got)
	}

	detach()
	m.Forward()
	if len(got) != 1 {
		t.Errorf("pop after detach delivered: %v", got)
	}
}

func TestRelayJoinsPushErrors(t *testing.T) {
	boom := errors.New("boom")
	r := NewRelay()
	r.Attach(&failingHistory{err: boom})
	ok := NewMemory("/")
	r.Attach(ok)

	err := r.Push("/x", "/x")
	if !errors.Is(err, boom) {
		t.Fatalf("Push() = %v, want boom", err)
	}
	if ok.Current().URL != "/x" {
		t.Errorf("healthy member skipped: %+v", ok.Current())
	}
}

func TestRelayWithoutMembers(t *testing.T) {
	if err := NewRelay().Push("/x", "/x"); err != nil {
		t.Errorf("Push() = %v, want nil", err)
	}
}
