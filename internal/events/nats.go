package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// connect dials url, naming the connection so it is identifiable in
// server monitoring, and retrying forever after the first success.
func connect(url, role string, opts ...nats.Option) (*nats.Conn, error) {
	base := []nats.Option{
		nats.Name("marketpro-" + role),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	}
	nc, err := nats.Connect(url, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return nc, nil
}

// NATSPublisher publishes JSON-encoded site events to NATS subjects.
type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	nc, err := connect(url, "publisher")
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{conn: nc}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, topic string, event any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", topic, err)
	}
	if err := p.conn.Publish(topic, data); err != nil {
		return fmt.Errorf("publishing %s: %w", topic, err)
	}
	return nil
}

// Close flushes buffered events and closes the connection.
func (p *NATSPublisher) Close() error {
	err := p.conn.FlushTimeout(2 * time.Second)
	p.conn.Close()
	if err != nil {
		return fmt.Errorf("flushing events: %w", err)
	}
	return nil
}

// NATSSubscriber delivers site events from NATS subjects.
type NATSSubscriber struct {
	conn *nats.Conn
}

// NewNATSSubscriber connects to url. Extra options such as disconnect and
// reconnect handlers are applied after the defaults.
func NewNATSSubscriber(url string, opts ...nats.Option) (*NATSSubscriber, error) {
	nc, err := connect(url, "subscriber", opts...)
	if err != nil {
		return nil, err
	}
	return &NATSSubscriber{conn: nc}, nil
}

// Subscribe delivers payloads for topic, which may use NATS wildcards.
// Payloads are dropped while the channel is full.
func (s *NATSSubscriber) Subscribe(topic string) (<-chan []byte, func(), error) {
	f := &feed{ch: make(chan []byte, 64)}

	sub, err := s.conn.Subscribe(topic, func(msg *nats.Msg) { f.deliver(msg.Data) })
	if err != nil {
		f.close()
		return nil, nil, fmt.Errorf("subscribing to %s: %w", topic, err)
	}
	// The subscription must reach the server before messages published on
	// other connections are routed to it.
	if err := s.conn.Flush(); err != nil {
		_ = sub.Unsubscribe()
		f.close()
		return nil, nil, fmt.Errorf("registering %s subscription: %w", topic, err)
	}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			_ = sub.Unsubscribe()
			f.close()
		})
	}
	return f.ch, cancel, nil
}

func (s *NATSSubscriber) Close() error {
	s.conn.Close()
	return nil
}

// feed is a subscription channel that may be closed while the NATS client
// is still delivering to it.
type feed struct {
	mu     sync.Mutex
	ch     chan []byte
	closed bool
}

func (f *feed) deliver(data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	select {
	case f.ch <- data:
	default:
	}
}

func (f *feed) close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	// Unread payloads are discarded so a reader sees the close promptly.
	for {
		select {
		case <-f.ch:
		default:
			close(f.ch)
			return
		}
	}
}
