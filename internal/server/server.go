// Package server exposes the site document, session gate, assistant and
// contact intake over HTTP, plus a gRPC health listener.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alfredjeanlab/marketpro/internal/assistant"
	"github.com/alfredjeanlab/marketpro/internal/events"
	"github.com/alfredjeanlab/marketpro/internal/presence"
	"github.com/alfredjeanlab/marketpro/internal/render"
	"github.com/alfredjeanlab/marketpro/internal/session"
	"github.com/alfredjeanlab/marketpro/internal/store"
)

// maxBodyBytes caps request bodies. The document carries image URLs, not
// image data, so this is generous.
const maxBodyBytes = 5 << 20

// Options configures a SiteServer. Zero values are usable: auth is off, the
// gate uses the default credentials, the assistant is offline and events
// go nowhere.
type Options struct {
	Publisher   events.Publisher
	Gate        *session.Gate
	RequireAuth bool
	// LoginRate is login attempts per second per client address.
	LoginRate float64
	Assistant *assistant.Assistant
	Renderer  *render.Renderer
	// StaticDir, when set, serves a compiled front end instead of the
	// server-rendered page.
	StaticDir string
	// Visitors, when set, is shared with the caller so it can run the reaper.
	Visitors *presence.Tracker
	Logger   *slog.Logger
}

// SiteServer serves the marketing site.
type SiteServer struct {
	store       store.Store
	publisher   events.Publisher
	gate        *session.Gate
	requireAuth bool
	logins      *session.Limiter
	chats       *session.Limiter
	assistant   *assistant.Assistant
	renderer    *render.Renderer
	staticDir   string
	visitors    *presence.Tracker
	logger      *slog.Logger
	stream      *streamHub
}

// NewSiteServer returns a SiteServer backed by the given store.
func NewSiteServer(s store.Store, opts Options) *SiteServer {
	if opts.Publisher == nil {
		opts.Publisher = &events.NoopPublisher{}
	}
	if opts.Gate == nil {
		opts.Gate = session.NewGate("", "")
	}
	if opts.LoginRate <= 0 {
		opts.LoginRate = 1
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Visitors == nil {
		opts.Visitors = presence.New()
	}
	if opts.Assistant == nil {
		opts.Assistant = assistant.New(nil, opts.Logger)
	}
	return &SiteServer{
		store:       s,
		publisher:   opts.Publisher,
		gate:        opts.Gate,
		requireAuth: opts.RequireAuth,
		logins:      session.NewLimiter(opts.LoginRate, 5),
		chats:       session.NewLimiter(2, 10),
		assistant:   opts.Assistant,
		renderer:    opts.Renderer,
		staticDir:   opts.StaticDir,
		visitors:    opts.Visitors,
		logger:      opts.Logger,
		stream:      newStreamHub(),
	}
}

// recordAndPublish publishes an event to the broker and fans it out to SSE
// clients. Failures are logged but do not block the caller.
func (s *SiteServer) recordAndPublish(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		s.logger.Warn("failed to publish event", "topic", topic, "error", err)
	}
	s.broadcastEvent(topic, event)
}

// visit records visitor activity for the roster.
func (s *SiteServer) visit(r *http.Request, kind string) {
	s.visitors.Record(presence.Activity{Visitor: clientAddr(r), Kind: kind})
}

// inputError indicates invalid user input.
// Transport layers map this to 400.
type inputError string

func (e inputError) Error() string { return string(e) }
