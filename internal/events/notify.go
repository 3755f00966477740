package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Notifier announces record changes to other clients.
type Notifier interface {
	Notify(ctx context.Context, c Change) error
	Close() error
}

// Discard drops every notice. It stands in when no event bus is configured.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(context.Context, Change) error { return nil }
func (discard) Close() error                         { return nil }

// flushTimeout bounds the flush after a publish when ctx has no deadline.
const flushTimeout = 2 * time.Second

// NATSNotifier publishes each change as JSON on its Topic.
type NATSNotifier struct {
	conn *nats.Conn
}

// NewNATSNotifier connects to the NATS server at url.
func NewNATSNotifier(url string, opts ...nats.Option) (*NATSNotifier, error) {
	nc, err := nats.Connect(url, append([]nats.Option{nats.Name("hrms")}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &NATSNotifier{conn: nc}, nil
}

// Notify publishes c and waits for the server to accept it, since the CLI
// usually exits right after a mutation. A zero At is stamped with now.
func (n *NATSNotifier) Notify(ctx context.Context, c Change) error {
	if c.Resource == "" || c.Action == "" {
		return fmt.Errorf("change notice needs a resource and an action")
	}
	if c.At.IsZero() {
		c.At = time.Now().UTC()
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding change: %w", err)
	}
	subject := Topic(c.Resource, c.Action)
	if err := n.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publishing to %s: %w", subject, err)
	}
	if _, ok := ctx.Deadline(); ok {
		return n.conn.FlushWithContext(ctx)
	}
	return n.conn.FlushTimeout(flushTimeout)
}

// Close drops the connection.
func (n *NATSNotifier) Close() error {
	n.conn.Close()
	return nil
}
