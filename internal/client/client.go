// Package client provides a transport-agnostic interface for the site
// service and an HTTP/JSON implementation that talks to its REST API.
package client

import (
	"context"
	"encoding/json"
	"time"

	"github.com/alfredjeanlab/marketpro/internal/contact"
	"github.com/alfredjeanlab/marketpro/internal/model"
	"github.com/alfredjeanlab/marketpro/internal/presence"
)

// SiteClient is the interface the CLI and the editor use to talk to the
// site server. It is implemented by HTTPClient.
type SiteClient interface {
	// Document
	GetDocument(ctx context.Context) (json.RawMessage, error)
	SaveDocument(ctx context.Context, doc *model.SiteDocument) (json.RawMessage, error)

	// Session
	Login(ctx context.Context, username, password string) (string, error)

	// Assistant
	Chat(ctx context.Context, message string) (string, error)
	Suggest(ctx context.Context, section string) ([]string, error)

	// Contact
	SubmitContact(ctx context.Context, form contact.Form) (string, error)

	// Visitors
	Visitors(ctx context.Context, window time.Duration) ([]presence.Entry, error)

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the body returned by POST /api/login.
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
}

// SaveResponse is the body returned by POST /api/data.
type SaveResponse struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the body returned by POST /api/chat.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// SuggestRequest is the body of POST /api/suggest.
type SuggestRequest struct {
	Section string `json:"section"`
}

// SuggestResponse is the body returned by POST /api/suggest.
type SuggestResponse struct {
	Suggestions []string `json:"suggestions"`
}

// ContactResponse is the body returned by POST /api/contact.
type ContactResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
