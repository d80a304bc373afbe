package app

import (
	"errors"
	"sync"
	"testing"

	"deception/internal/core"
)

// fakeConn records delivered frames; fail makes TrySend refuse, standing in
// for a dead or backpressured connection.
type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	fail   bool
	closed bool
}

func (f *fakeConn) TrySend(fr core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail || f.closed {
		return errors.New("unreachable")
	}
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeConn) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeConn) received() []core.Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]core.Frame, len(f.frames))
	copy(out, f.frames)
	return out
}

func (f *fakeConn) last(t *testing.T) core.Frame {
	t.Helper()
	frames := f.received()
	if len(frames) == 0 {
		t.Fatalf("no frames received")
	}
	return frames[len(frames)-1]
}

func TestBroadcastReachesGroupOnly(t *testing.T) {
	r := NewRegistry()
	a, b, outsider := &fakeConn{}, &fakeConn{}, &fakeConn{}
	r.Bind("sid-a", a)
	r.Bind("sid-b", b)
	r.Bind("sid-out", outsider)
	r.AddToGroup("sid-a", "ROOM01", "Alice")
	r.AddToGroup("sid-b", "ROOM01", "Bob")

	res := r.Broadcast("ROOM01", core.Frame(`{"type":"x"}`))
	if res.SentTo != 2 {
		t.Fatalf("expected 2 deliveries, got %d", res.SentTo)
	}
	if len(a.received()) != 1 || len(b.received()) != 1 {
		t.Fatalf("group members missed the frame")
	}
	if len(outsider.received()) != 0 {
		t.Fatalf("outsider received a frame")
	}
}

func TestBroadcastSkipsUnreachable(t *testing.T) {
	r := NewRegistry()
	ok, dead := &fakeConn{}, &fakeConn{fail: true}
	r.Bind("sid-ok", ok)
	r.Bind("sid-dead", dead)
	r.AddToGroup("sid-ok", "ROOM01", "Alice")
	r.AddToGroup("sid-dead", "ROOM01", "Bob")

	res := r.Broadcast("ROOM01", core.Frame(`{"type":"x"}`))
	if res.SentTo != 1 {
		t.Fatalf("expected 1 delivery, got %d", res.SentTo)
	}
	if len(res.Dropped) != 1 || res.Dropped[0] != "sid-dead" {
		t.Fatalf("expected sid-dead dropped, got %v", res.Dropped)
	}
	if len(ok.received()) != 1 {
		t.Fatalf("healthy member must still receive the frame")
	}
}

func TestRemoveFromGroupIsNoopForNonMembers(t *testing.T) {
	r := NewRegistry()
	c := &fakeConn{}
	r.Bind("sid-a", c)

	r.RemoveFromGroup("sid-a", "ROOM01")
	r.RemoveFromGroup("sid-unknown", "ROOM01")

	if res := r.Broadcast("ROOM01", core.Frame(`{}`)); res.SentTo != 0 {
		t.Fatalf("expected empty group, delivered to %d", res.SentTo)
	}
}

func TestAddToGroupIdempotent(t *testing.T) {
	r := NewRegistry()
	c := &fakeConn{}
	r.Bind("sid-a", c)
	r.AddToGroup("sid-a", "ROOM01", "Alice")
	r.AddToGroup("sid-a", "ROOM01", "Alice")

	if res := r.Broadcast("ROOM01", core.Frame(`{}`)); res.SentTo != 1 {
		t.Fatalf("expected single delivery, got %d", res.SentTo)
	}
}

func TestRoomsOfReturnsCopy(t *testing.T) {
	r := NewRegistry()
	c := &fakeConn{}
	r.Bind("sid-a", c)
	r.AddToGroup("sid-a", "ROOM01", "Alice")

	rooms := r.RoomsOf("sid-a")
	rooms["ROOM02"] = "Mallory"

	again := r.RoomsOf("sid-a")
	if _, leaked := again["ROOM02"]; leaked {
		t.Fatalf("mutating the returned map leaked into the registry")
	}
}

func TestUnbindStopsDelivery(t *testing.T) {
	r := NewRegistry()
	c := &fakeConn{}
	r.Bind("sid-a", c)
	r.AddToGroup("sid-a", "ROOM01", "Alice")
	r.Unbind("sid-a")

	if res := r.Broadcast("ROOM01", core.Frame(`{}`)); res.SentTo != 0 {
		t.Fatalf("unbound session still addressed, delivered to %d", res.SentTo)
	}
}
