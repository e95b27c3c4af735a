package hooks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alfredjeanlab/marketpro/internal/events"
)

// Handler runs the publish hook for document updates. Updates that arrive
// while the hook is running are coalesced: only the latest is run next.
type Handler struct {
	command string
	timeout time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	pending []byte
	kick    chan struct{}

	// ran is called after each run, for tests.
	ran func(Result)
}

// NewHandler returns a handler for command. A zero timeout means DefaultTimeout.
func NewHandler(command string, timeout time.Duration, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		command: command,
		timeout: timeout,
		logger:  logger,
		kick:    make(chan struct{}, 1),
	}
}

// Notify queues a DocumentUpdated payload, replacing any not yet run.
func (h *Handler) Notify(payload []byte) {
	h.mu.Lock()
	h.pending = payload
	h.mu.Unlock()

	select {
	case h.kick <- struct{}{}:
	default:
	}
}

// Run executes queued updates until ctx is cancelled.
func (h *Handler) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-h.kick:
			h.mu.Lock()
			payload := h.pending
			h.pending = nil
			h.mu.Unlock()
			if payload != nil {
				h.handle(ctx, payload)
			}
		}
	}
}

func (h *Handler) handle(ctx context.Context, payload []byte) {
	var ev events.DocumentUpdated
	if err := json.Unmarshal(payload, &ev); err != nil {
		h.logger.Warn("hooks: bad event payload", "err", err)
		return
	}

	result := Execute(ctx, Invocation{
		Command: h.command,
		Timeout: h.timeout,
		Stdin:   ev.Document,
		Env: map[string]string{
			"MARKETPRO_EVENT":  events.TopicDocumentUpdated,
			"MARKETPRO_REMOTE": ev.Remote,
		},
	})
	if result.Err != nil {
		h.logger.Warn("hooks: publish hook failed", "err", result.Err, "exit", result.ExitCode, "output", result.Output)
	} else {
		h.logger.Info("hooks: publish hook ran", "duration", result.Duration, "output", result.Output)
	}
	if h.ran != nil {
		h.ran(result)
	}
}

// StartSubscriber feeds document updates from the event bus into the
// handler. It blocks until ctx is cancelled.
func (h *Handler) StartSubscriber(ctx context.Context, sub events.Subscriber) error {
	ch, cancel, err := sub.Subscribe(events.TopicDocumentUpdated)
	if err != nil {
		return fmt.Errorf("hooks: subscribe: %w", err)
	}
	defer cancel()

	h.logger.Info("hooks: subscriber started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case raw, ok := <-ch:
			if !ok {
				h.logger.Info("hooks: subscription channel closed")
				return nil
			}
			h.Notify(raw)
		}
	}
}

// Publisher wraps an events.Publisher so document updates also reach the
// handler without a broker round trip.
type Publisher struct {
	events.Publisher
	h *Handler
}

// Tap returns pub with h attached.
func Tap(pub events.Publisher, h *Handler) *Publisher {
	return &Publisher{Publisher: pub, h: h}
}

func (p *Publisher) Publish(ctx context.Context, topic string, event any) error {
	err := p.Publisher.Publish(ctx, topic, event)
	if topic == events.TopicDocumentUpdated {
		payload, merr := json.Marshal(event)
		if merr != nil {
			return fmt.Errorf("hooks: encode event: %w", merr)
		}
		p.h.Notify(payload)
	}
	return err
}
