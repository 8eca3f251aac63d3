package presence

import (
	"errors"
	"sync"
	"testing"

	"github.com/jmoreira/pulse/internal/event"
)

// fakeSession records sends and can be told to fail.
type fakeSession struct {
	id string

	mu     sync.Mutex
	sent   []event.Event
	failed bool
	closed bool
}

func newFakeSession(id string) *fakeSession {
	return &fakeSession{id: id}
}

func (f *fakeSession) ID() string { return f.id }

func (f *fakeSession) Send(ev event.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failed {
		return errors.New("transport gone")
	}
	f.sent = append(f.sent, ev)
	return nil
}

func (f *fakeSession) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeSession) events() []event.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]event.Event, len(f.sent))
	copy(out, f.sent)
	return out
}

func (f *fakeSession) fail() {
	f.mu.Lock()
	f.failed = true
	f.mu.Unlock()
}

func wantSnapshot(t *testing.T, r Registry, want ...string) {
	t.Helper()
	got := r.Snapshot()
	if len(got) != len(want) {
		t.Fatalf("Snapshot() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Snapshot() = %v, want %v", got, want)
		}
	}
}

func TestRegistry_BindUnbind(t *testing.T) {
	r := NewRegistry(16, nil)

	r.Bind("u1", newFakeSession("s1"))
	wantSnapshot(t, r, "u1")

	r.Bind("u2", newFakeSession("s2"))
	wantSnapshot(t, r, "u1", "u2")

	r.Unbind("s1")
	wantSnapshot(t, r, "u2")

	// Repeated unbind for the same session is a no-op.
	r.Unbind("s1")
	wantSnapshot(t, r, "u2")
}

func TestRegistry_LastWriterWins(t *testing.T) {
	r := NewRegistry(16, nil)

	s1 := newFakeSession("s1")
	s2 := newFakeSession("s2")

	r.Bind("u1", s1)
	r.Bind("u1", s2)

	wantSnapshot(t, r, "u1")

	got, ok := r.Lookup("u1")
	if !ok {
		t.Fatal("Lookup(u1) not found")
	}
	if got.ID() != "s2" {
		t.Errorf("Lookup(u1).ID() = %q, want %q", got.ID(), "s2")
	}
}

func TestRegistry_StaleUnbindIgnored(t *testing.T) {
	r := NewRegistry(16, nil)

	r.Bind("u1", newFakeSession("s1"))
	r.Bind("u1", newFakeSession("s2")) // reconnect supersedes s1

	// The old session's disconnect arrives late; it must not evict s2.
	r.Unbind("s1")
	wantSnapshot(t, r, "u1")

	r.Unbind("s2")
	wantSnapshot(t, r)
}

func TestRegistry_UnbindUnknownSession(t *testing.T) {
	r := NewRegistry(16, nil)

	r.Bind("u1", newFakeSession("s1"))
	r.Unbind("never-seen")
	wantSnapshot(t, r, "u1")
}

func TestRegistry_LookupAbsent(t *testing.T) {
	r := NewRegistry(16, nil)

	if _, ok := r.Lookup("nobody"); ok {
		t.Error("Lookup(nobody) = ok, want absent")
	}
}

func TestRegistry_Sessions(t *testing.T) {
	r := NewRegistry(16, nil)

	r.Bind("u1", newFakeSession("s1"))
	r.Bind("u2", newFakeSession("s2"))

	sessions := r.Sessions()
	if len(sessions) != 2 {
		t.Fatalf("len(Sessions()) = %d, want 2", len(sessions))
	}
}

func TestRegistry_ChangesCarrySnapshots(t *testing.T) {
	r := NewRegistry(16, nil)

	r.Bind("u1", newFakeSession("s1"))

	select {
	case snap := <-r.Changes():
		if len(snap) != 1 || snap[0] != "u1" {
			t.Errorf("change = %v, want [u1]", snap)
		}
	default:
		t.Fatal("expected a membership change signal after bind")
	}

	// A reconnect does not change membership, so no signal.
	r.Bind("u1", newFakeSession("s2"))
	select {
	case snap := <-r.Changes():
		t.Fatalf("unexpected change signal on rebind: %v", snap)
	default:
	}

	r.Unbind("s2")
	select {
	case snap := <-r.Changes():
		if len(snap) != 0 {
			t.Errorf("change = %v, want empty", snap)
		}
	default:
		t.Fatal("expected a membership change signal after unbind")
	}
}

func TestRegistry_ConcurrentBindUnbind(t *testing.T) {
	r := NewRegistry(1, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			sess := newFakeSession("s" + string(rune('a'+n%26)))
			r.Bind("u1", sess)
			r.Lookup("u1")
			r.Unbind(sess.ID())
			r.Snapshot()
		}(i)
	}
	wg.Wait()

	// Every goroutine's unbind only removes its own session, so the map must
	// be either empty or hold exactly the one surviving binding.
	if got := len(r.Snapshot()); got > 1 {
		t.Errorf("len(Snapshot()) = %d, want 0 or 1", got)
	}
}
