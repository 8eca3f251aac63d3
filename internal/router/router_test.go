package router

import (
	"errors"
	"sync"
	"testing"

	"github.com/jmoreira/pulse/internal/event"
	"github.com/jmoreira/pulse/internal/presence"
)

type fakeSession struct {
	id string

	mu     sync.Mutex
	sent   []event.Event
	failed bool
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

func (f *fakeSession) Close() error { return nil }

func mustEvent(t *testing.T, kind event.Kind, payload any) event.Event {
	t.Helper()
	ev, err := event.New(kind, payload)
	if err != nil {
		t.Fatalf("event.New failed: %v", err)
	}
	return ev
}

func TestRouter_PushUnboundReturnsFalse(t *testing.T) {
	reg := presence.NewRegistry(16, nil)
	r := New(reg, nil)

	delivered := r.Push("offline-user", mustEvent(t, event.KindMessage, "hi"))
	if delivered {
		t.Error("Push to unbound user = true, want false")
	}

	stats := r.Stats()
	if stats.Attempted != 1 || stats.Missed != 1 || stats.Delivered != 0 {
		t.Errorf("Stats = %+v, want attempted=1 missed=1 delivered=0", stats)
	}
}

func TestRouter_PushBoundDeliversExactPayload(t *testing.T) {
	reg := presence.NewRegistry(16, nil)
	r := New(reg, nil)

	sess := &fakeSession{id: "s1"}
	reg.Bind("u1", sess)

	ev := mustEvent(t, event.KindMessage, map[string]string{"body": "hello"})
	if !r.Push("u1", ev) {
		t.Fatal("Push to bound user = false, want true")
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if len(sess.sent) != 1 {
		t.Fatalf("len(sent) = %d, want 1", len(sess.sent))
	}
	if sess.sent[0].Kind != ev.Kind || string(sess.sent[0].Data) != string(ev.Data) {
		t.Errorf("sent = %+v, want %+v", sess.sent[0], ev)
	}
}

func TestRouter_PushSendFailureReturnsFalse(t *testing.T) {
	reg := presence.NewRegistry(16, nil)
	r := New(reg, nil)

	sess := &fakeSession{id: "s1", failed: true}
	reg.Bind("u1", sess)

	if r.Push("u1", mustEvent(t, event.KindNotification, "x")) {
		t.Error("Push over failed transport = true, want false")
	}

	// A failed send does not unbind the session.
	if _, ok := reg.Lookup("u1"); !ok {
		t.Error("session was evicted after a failed send")
	}

	stats := r.Stats()
	if stats.Missed != 1 {
		t.Errorf("Stats.Missed = %d, want 1", stats.Missed)
	}
}

func TestRouter_PerRecipientOrder(t *testing.T) {
	reg := presence.NewRegistry(16, nil)
	r := New(reg, nil)

	sess := &fakeSession{id: "s1"}
	reg.Bind("u1", sess)

	for _, body := range []string{"one", "two", "three"} {
		r.Push("u1", mustEvent(t, event.KindMessage, body))
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	want := []string{`"one"`, `"two"`, `"three"`}
	if len(sess.sent) != len(want) {
		t.Fatalf("len(sent) = %d, want %d", len(sess.sent), len(want))
	}
	for i, w := range want {
		if string(sess.sent[i].Data) != w {
			t.Errorf("sent[%d].Data = %s, want %s", i, sess.sent[i].Data, w)
		}
	}
}
