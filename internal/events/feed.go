package events

import (
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// feedBuffer is how many undelivered notices a stream holds before NATS
// starts dropping them as a slow consumer.
const feedBuffer = 64

// Feed is a reconnecting NATS connection that streams change notices.
type Feed struct {
	conn *nats.Conn
}

// Dial connects to NATS with unlimited reconnects. Extra options, such as
// disconnect and reconnect handlers, are applied after the defaults.
func Dial(url string, opts ...nats.Option) (*Feed, error) {
	defaults := []nats.Option{
		nats.Name("hrms-watch"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	}
	nc, err := nats.Connect(url, append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &Feed{conn: nc}, nil
}

// Connected reports whether the connection is currently up.
func (f *Feed) Connected() bool { return f.conn.IsConnected() }

// Watch streams the notices for resource, or for every resource when it
// is empty. The subscription is registered on the server before Watch
// returns.
func (f *Feed) Watch(resource string) (*Stream, error) {
	subject := ResourceTopic(resource)
	raw := make(chan *nats.Msg, feedBuffer)
	sub, err := f.conn.ChanSubscribe(subject, raw)
	if err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", subject, err)
	}
	if err := f.conn.Flush(); err != nil {
		_ = sub.Unsubscribe()
		return nil, fmt.Errorf("flushing subscription: %w", err)
	}

	out := make(chan Message)
	s := &Stream{
		C:      out,
		sub:    sub,
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go s.forward(raw, out)
	return s, nil
}

// Close drops the connection. Open streams stop receiving but must still
// be stopped.
func (f *Feed) Close() error {
	f.conn.Close()
	return nil
}

// Stream delivers the notices of one Watch on C. C is closed by Stop.
type Stream struct {
	C <-chan Message

	sub    *nats.Subscription
	done   chan struct{}
	exited chan struct{}
	once   sync.Once
}

func (s *Stream) forward(raw <-chan *nats.Msg, out chan<- Message) {
	defer close(s.exited)
	defer close(out)
	for {
		select {
		case <-s.done:
			return
		case m := <-raw:
			select {
			case out <- Message{Subject: m.Subject, Data: m.Data}:
			case <-s.done:
				return
			}
		}
	}
}

// Stop unsubscribes and closes C once the forwarding goroutine has exited.
// It is safe to call more than once.
func (s *Stream) Stop() {
	s.once.Do(func() {
		_ = s.sub.Unsubscribe()
		close(s.done)
	})
	<-s.exited
}
