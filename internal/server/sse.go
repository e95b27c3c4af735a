package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// streamBacklog is how many recent events are kept for replay.
	streamBacklog = 256

	// streamKeepalive is the interval between comment lines on idle streams.
	streamKeepalive = 15 * time.Second

	// streamRetry is the reconnect delay suggested to EventSource clients.
	streamRetry = 3 * time.Second

	// streamPublicTopics is all a stream without a session may receive.
	// Contact and login events carry visitor details.
	streamPublicTopics = "site.document.>"
)

// streamEvent is one site event as delivered to stream subscribers.
type streamEvent struct {
	ID    uint64
	Topic string
	Data  []byte
}

// streamHub fans site events out to open event streams, so an editor left
// open in a browser sees saves made from the CLI or another tab.
type streamHub struct {
	mu      sync.Mutex
	lastID  uint64
	backlog []streamEvent
	subs    map[*subscriber]struct{}
}

// subscriber is one open event stream.
type subscriber struct {
	filters []string
	public  bool
	events  chan streamEvent
}

func newStreamHub() *streamHub {
	return &streamHub{subs: make(map[*subscriber]struct{})}
}

// broadcast assigns the next id to payload, keeps it in the backlog and
// offers it to every matching subscriber. Full subscribers drop the event.
func (h *streamHub) broadcast(topic string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastID++
	evt := streamEvent{ID: h.lastID, Topic: topic, Data: payload}

	if len(h.backlog) == streamBacklog {
		copy(h.backlog, h.backlog[1:])
		h.backlog = h.backlog[:streamBacklog-1]
	}
	h.backlog = append(h.backlog, evt)

	for sub := range h.subs {
		if !sub.wants(topic) {
			continue
		}
		select {
		case sub.events <- evt:
		default:
		}
	}
}

func (h *streamHub) subscribe(filters []string, public bool) *subscriber {
	sub := &subscriber{filters: filters, public: public, events: make(chan streamEvent, 64)}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

func (h *streamHub) unsubscribe(sub *subscriber) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
}

func (h *streamHub) subscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// since returns the backlog entries newer than id, oldest first.
func (h *streamHub) since(id uint64) []streamEvent {
	h.mu.Lock()
	defer h.mu.Unlock()

	// ids are contiguous, so the first newer entry is found by offset.
	if len(h.backlog) == 0 || id >= h.lastID {
		return nil
	}
	first := h.backlog[0].ID
	skip := 0
	if id >= first {
		skip = int(id - first + 1)
	}
	out := make([]streamEvent, len(h.backlog)-skip)
	copy(out, h.backlog[skip:])
	return out
}

func (sub *subscriber) wants(topic string) bool {
	if sub.public && !topicMatches(streamPublicTopics, topic) {
		return false
	}
	if len(sub.filters) == 0 {
		return true
	}
	for _, f := range sub.filters {
		if topicMatches(f, topic) {
			return true
		}
	}
	return false
}

// topicMatches reports whether topic satisfies a NATS-style subject
// filter: "*" stands for one segment and a trailing ">" for one or more.
func topicMatches(filter, topic string) bool {
	for {
		fseg, frest, fmore := strings.Cut(filter, ".")
		tseg, trest, tmore := strings.Cut(topic, ".")
		switch {
		case fseg == ">":
			return !fmore && tseg != ""
		case fseg != "*" && fseg != tseg:
			return false
		case !fmore || !tmore:
			return fmore == tmore
		}
		filter, topic = frest, trest
	}
}

// lastEventID reads the resume point from the Last-Event-ID header, falling
// back to ?since= for clients that cannot set headers on the first request.
func lastEventID(r *http.Request) (uint64, bool) {
	raw := r.Header.Get("Last-Event-ID")
	if raw == "" {
		raw = r.URL.Query().Get("since")
	}
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	return id, err == nil
}

// handleEventStream handles GET /api/events/stream. Without a session only
// document events are delivered.
func (s *SiteServer) handleEventStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	var filters []string
	for _, f := range strings.Split(r.URL.Query().Get("topics"), ",") {
		if f = strings.TrimSpace(f); f != "" {
			filters = append(filters, f)
		}
	}

	sub := s.stream.subscribe(filters, !s.hasSession(r))
	defer s.stream.unsubscribe(sub)

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "retry:%d\n\n", streamRetry.Milliseconds())

	// Replayed ids are skipped when the same event also reaches sub.events.
	var sent uint64
	if id, ok := lastEventID(r); ok {
		for _, evt := range s.stream.since(id) {
			if sub.wants(evt.Topic) {
				writeStreamEvent(w, evt)
				sent = evt.ID
			}
		}
	}
	flusher.Flush()

	keepalive := time.NewTicker(streamKeepalive)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case evt := <-sub.events:
			if evt.ID <= sent {
				continue
			}
			writeStreamEvent(w, evt)
			flusher.Flush()
		case <-keepalive.C:
			fmt.Fprint(w, ":keepalive\n\n")
			flusher.Flush()
		}
	}
}

func writeStreamEvent(w http.ResponseWriter, evt streamEvent) {
	fmt.Fprintf(w, "id:%d\nevent:%s\ndata:%s\n\n", evt.ID, evt.Topic, evt.Data)
}

// broadcastEvent fans event out to open streams.
func (s *SiteServer) broadcastEvent(topic string, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("failed to encode stream event", "topic", topic, "error", err)
		return
	}
	s.stream.broadcast(topic, payload)
}
