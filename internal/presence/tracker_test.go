package presence

import (
	"testing"
	"time"
)

// fakeClock is advanced by hand.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTracker() (*Tracker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	tr := New()
	tr.now = clock.now
	return tr, clock
}

func TestRecord_BasicTracking(t *testing.T) {
	tr, _ := newTestTracker()

	tr.Record(Activity{Visitor: "203.0.113.7", Kind: KindPage})

	roster := tr.Roster(0)
	if len(roster) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(roster))
	}
	e := roster[0]
	if e.Visitor != "203.0.113.7" {
		t.Errorf("expected visitor 203.0.113.7, got %s", e.Visitor)
	}
	if e.LastKind != KindPage {
		t.Errorf("expected last_kind page, got %s", e.LastKind)
	}
	if e.Requests != 1 {
		t.Errorf("expected 1 request, got %d", e.Requests)
	}
}

func TestRecord_CountsChatsAndContact(t *testing.T) {
	tr, clock := newTestTracker()

	tr.Record(Activity{Visitor: "v", Kind: KindPage})
	clock.advance(time.Second)
	tr.Record(Activity{Visitor: "v", Kind: KindChat})
	tr.Record(Activity{Visitor: "v", Kind: KindChat})
	tr.Record(Activity{Visitor: "v", Kind: KindContact})

	e := tr.Roster(0)[0]
	if e.Requests != 4 || e.Chats != 2 || !e.Contacted {
		t.Errorf("entry = %+v, want 4 requests, 2 chats, contacted", e)
	}
	if e.LastKind != KindContact {
		t.Errorf("LastKind = %s, want contact", e.LastKind)
	}
	if !e.FirstSeen.Before(e.LastSeen) {
		t.Errorf("FirstSeen %v should precede LastSeen %v", e.FirstSeen, e.LastSeen)
	}
}

func TestRecord_IgnoresEmptyVisitor(t *testing.T) {
	tr, _ := newTestTracker()
	tr.Record(Activity{Kind: KindPage})
	if n := len(tr.Roster(0)); n != 0 {
		t.Errorf("expected empty roster, got %d", n)
	}
}

func TestRoster_WindowAndOrder(t *testing.T) {
	tr, clock := newTestTracker()

	tr.Record(Activity{Visitor: "old", Kind: KindPage})
	clock.advance(20 * time.Minute)
	tr.Record(Activity{Visitor: "middle", Kind: KindPage})
	clock.advance(time.Minute)
	tr.Record(Activity{Visitor: "new", Kind: KindPage})

	recent := tr.Roster(10 * time.Minute)
	if len(recent) != 2 {
		t.Fatalf("expected 2 entries in window, got %d", len(recent))
	}
	if recent[0].Visitor != "new" || recent[1].Visitor != "middle" {
		t.Errorf("order = %s, %s; want new, middle", recent[0].Visitor, recent[1].Visitor)
	}
	if all := tr.Roster(0); len(all) != 3 {
		t.Errorf("expected 3 entries without window, got %d", len(all))
	}
	if n := tr.Active(10 * time.Minute); n != 2 {
		t.Errorf("Active = %d, want 2", n)
	}
}

func TestSweep_MarksIdleVisitorsGone(t *testing.T) {
	tr, clock := newTestTracker()
	tr.Record(Activity{Visitor: "idle", Kind: KindPage})
	clock.advance(15 * time.Minute)
	tr.Record(Activity{Visitor: "busy", Kind: KindPage})

	var gone []string
	cfg := &ReaperConfig{
		GoneAfter:  10 * time.Minute,
		EvictAfter: 30 * time.Minute,
		OnGone:     func(e Entry) { gone = append(gone, e.Visitor) },
	}
	tr.sweep(cfg)

	if len(gone) != 1 || gone[0] != "idle" {
		t.Errorf("expected idle to be marked gone, got %v", gone)
	}
	if n := tr.Active(time.Hour); n != 1 {
		t.Errorf("Active = %d, want 1", n)
	}

	// A second sweep does not report it again.
	gone = nil
	tr.sweep(cfg)
	if len(gone) != 0 {
		t.Errorf("visitor reported gone twice: %v", gone)
	}
}

func TestSweep_ReturningVisitorNotGone(t *testing.T) {
	tr, clock := newTestTracker()
	tr.Record(Activity{Visitor: "back", Kind: KindPage})
	clock.advance(20 * time.Minute)

	cfg := &ReaperConfig{GoneAfter: 10 * time.Minute, EvictAfter: 30 * time.Minute}
	tr.sweep(cfg)

	tr.Record(Activity{Visitor: "back", Kind: KindChat})

	e := tr.Roster(0)[0]
	if e.Gone {
		t.Error("expected returning visitor to be active again")
	}
	if e.Requests != 2 {
		t.Errorf("expected 2 requests, got %d", e.Requests)
	}
}

func TestSweep_EvictsGoneVisitors(t *testing.T) {
	tr, clock := newTestTracker()
	tr.Record(Activity{Visitor: "v", Kind: KindPage})

	cfg := &ReaperConfig{GoneAfter: 10 * time.Minute, EvictAfter: 30 * time.Minute}
	clock.advance(11 * time.Minute)
	tr.sweep(cfg)
	clock.advance(31 * time.Minute)
	tr.sweep(cfg)

	if n := len(tr.Roster(0)); n != 0 {
		t.Errorf("expected visitor to be evicted, roster has %d", n)
	}
}

func TestStartReaper_StopsCleanly(t *testing.T) {
	tr := New()

	tr.StartReaper(&ReaperConfig{SweepInterval: 50 * time.Millisecond})
	time.Sleep(150 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		tr.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop() did not return within 2 seconds")
	}
}
