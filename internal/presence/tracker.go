// Package presence tracks recent visitor activity on the site.
//
// The server records an Activity for each page view, chat message and
// contact submission, keyed by client address. A background reaper marks
// visitors that have gone quiet as gone and later forgets them.
package presence

import (
	"log/slog"
	"slices"
	"sync"
	"time"
)

// Activity kinds recorded by the server.
const (
	KindPage    = "page"
	KindData    = "data"
	KindChat    = "chat"
	KindContact = "contact"
)

// Entry is a snapshot of one visitor.
type Entry struct {
	Visitor   string    `json:"visitor"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
	LastKind  string    `json:"last_kind"`
	IdleSecs  float64   `json:"idle_secs"`
	Requests  int64     `json:"requests"`
	Chats     int64     `json:"chats,omitempty"`
	Contacted bool      `json:"contacted,omitempty"`
	Gone      bool      `json:"gone,omitempty"`
}

// Activity is one thing a visitor did.
type Activity struct {
	Visitor string // client address
	Kind    string
}

// ReaperConfig configures the background reaper.
type ReaperConfig struct {
	// GoneAfter is how long a visitor must be idle before being marked gone.
	// Default: 10 minutes.
	GoneAfter time.Duration

	// EvictAfter is how long a gone visitor stays in the roster.
	// Default: 30 minutes.
	EvictAfter time.Duration

	// SweepInterval is how often the reaper scans. Default: 60 seconds.
	SweepInterval time.Duration

	// OnGone is called, outside the lock, for each visitor newly marked gone.
	OnGone func(e Entry)
}

// Tracker maintains an in-memory roster of visitors.
type Tracker struct {
	mu       sync.RWMutex
	visitors map[string]*visitorState
	now      func() time.Time

	reaperStop chan struct{}
	reaperDone chan struct{}
}

type visitorState struct {
	firstSeen time.Time
	lastSeen  time.Time
	lastKind  string
	requests  int64
	chats     int64
	contacted bool
	gone      bool
	goneAt    time.Time
}

// New creates an empty tracker.
func New() *Tracker {
	return &Tracker{
		visitors: make(map[string]*visitorState),
		now:      time.Now,
	}
}

// Record notes an activity. Visitors marked gone come back on their next
// activity.
func (t *Tracker) Record(a Activity) {
	if a.Visitor == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	st, ok := t.visitors[a.Visitor]
	if !ok {
		st = &visitorState{firstSeen: now}
		t.visitors[a.Visitor] = st
	}
	if st.gone {
		st.gone = false
		st.goneAt = time.Time{}
	}

	st.lastSeen = now
	st.lastKind = a.Kind
	st.requests++
	switch a.Kind {
	case KindChat:
		st.chats++
	case KindContact:
		st.contacted = true
	}
}

// Roster returns all visitors active within window, most recent first.
// A zero window includes everyone still tracked.
func (t *Tracker) Roster(window time.Duration) []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	now := t.now()
	entries := make([]Entry, 0, len(t.visitors))
	for visitor, st := range t.visitors {
		idle := now.Sub(st.lastSeen)
		if window > 0 && idle > window {
			continue
		}
		entries = append(entries, st.entry(visitor, idle))
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		return b.LastSeen.Compare(a.LastSeen)
	})
	return entries
}

// Active counts visitors seen within window that are not gone.
func (t *Tracker) Active(window time.Duration) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	now := t.now()
	n := 0
	for _, st := range t.visitors {
		if !st.gone && now.Sub(st.lastSeen) <= window {
			n++
		}
	}
	return n
}

func (st *visitorState) entry(visitor string, idle time.Duration) Entry {
	return Entry{
		Visitor:   visitor,
		FirstSeen: st.firstSeen,
		LastSeen:  st.lastSeen,
		LastKind:  st.lastKind,
		IdleSecs:  idle.Seconds(),
		Requests:  st.requests,
		Chats:     st.chats,
		Contacted: st.contacted,
		Gone:      st.gone,
	}
}

// StartReaper launches the background reaper. Call Stop to shut it down.
func (t *Tracker) StartReaper(cfg *ReaperConfig) {
	if cfg == nil {
		cfg = &ReaperConfig{}
	}
	if cfg.GoneAfter == 0 {
		cfg.GoneAfter = 10 * time.Minute
	}
	if cfg.EvictAfter == 0 {
		cfg.EvictAfter = 30 * time.Minute
	}
	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = 60 * time.Second
	}

	t.reaperStop = make(chan struct{})
	t.reaperDone = make(chan struct{})

	go t.reapLoop(cfg)
}

// Stop shuts down the reaper.
func (t *Tracker) Stop() {
	if t.reaperStop != nil {
		close(t.reaperStop)
		<-t.reaperDone
		t.reaperStop = nil
		t.reaperDone = nil
	}
}

func (t *Tracker) reapLoop(cfg *ReaperConfig) {
	defer close(t.reaperDone)

	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.reaperStop:
			return
		case <-ticker.C:
			t.sweep(cfg)
		}
	}
}

func (t *Tracker) sweep(cfg *ReaperConfig) {
	var newlyGone []Entry

	t.mu.Lock()
	now := t.now()
	for visitor, st := range t.visitors {
		if st.gone {
			if now.Sub(st.goneAt) > cfg.EvictAfter {
				delete(t.visitors, visitor)
			}
			continue
		}
		idle := now.Sub(st.lastSeen)
		if idle > cfg.GoneAfter {
			st.gone = true
			st.goneAt = now
			newlyGone = append(newlyGone, st.entry(visitor, idle))
		}
	}
	t.mu.Unlock()

	for _, e := range newlyGone {
		slog.Debug("presence: visitor gone", "visitor", e.Visitor, "requests", e.Requests)
		if cfg.OnGone != nil {
			cfg.OnGone(e)
		}
	}
}
