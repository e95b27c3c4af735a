// Package events carries site notifications between the server, the CLI and
// publish hooks. Payloads are JSON; topics are NATS subjects under "site.".
package events

import (
	"context"
	"encoding/json"
)

const (
	TopicDocumentUpdated  = "site.document.updated"
	TopicSessionLogin     = "site.session.login"
	TopicContactSubmitted = "site.contact.submitted"

	// TopicAll matches every site event.
	TopicAll = "site.>"
)

// DocumentUpdated is published after every successful document save.
type DocumentUpdated struct {
	Document json.RawMessage `json:"document"`
	// Remote is the client address that wrote the document.
	Remote string `json:"remote,omitempty"`
}

// SessionLogin is published for every login attempt, failed ones included.
type SessionLogin struct {
	Username string `json:"username"`
	Success  bool   `json:"success"`
	Remote   string `json:"remote,omitempty"`
}

type ContactSubmitted struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Publisher emits site events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Subscriber receives raw event payloads. The cancel func returned by
// Subscribe unsubscribes and closes the channel; it may be called twice.
type Subscriber interface {
	Subscribe(topic string) (<-chan []byte, func(), error)
	Close() error
}

// NoopPublisher drops every event. The server uses it when no broker is
// configured.
type NoopPublisher struct{}

func (*NoopPublisher) Publish(context.Context, string, any) error { return nil }

func (*NoopPublisher) Close() error { return nil }
