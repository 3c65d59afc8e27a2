package broker

import (
	"context"
	"errors"
	"time"
)

// Routing and dead-letter header names.
const (
	HeaderVendor     = "vendor"
	HeaderInstrument = "instrument"
	HeaderError      = "error"
	HeaderSource     = "source"
)

// ErrClosed is returned by sources and publishers after Close.
var ErrClosed = errors.New("broker: closed")

// Message is a transport-neutral envelope.
type Message struct {
	Topic      string
	Key        []byte
	Value      []byte
	Headers    map[string]string
	ReceivedAt time.Time

	// Transport position, used by Commit.
	Partition int
	Offset    int64
}

// Header returns the named header, or "" when absent.
func (m Message) Header(name string) string {
	return m.Headers[name]
}

// WithHeaders returns a copy of m with extra headers merged over existing ones.
func (m Message) WithHeaders(kv map[string]string) Message {
	merged := make(map[string]string, len(m.Headers)+len(kv))
	for k, v := range m.Headers {
		merged[k] = v
	}
	for k, v := range kv {
		merged[k] = v
	}
	m.Headers = merged
	return m
}

// Source yields messages from a single topic.
type Source interface {
	// Fetch blocks until a message is available or ctx ends.
	Fetch(ctx context.Context) (Message, error)

	// Commit acknowledges msg. Uncommitted messages may be redelivered.
	Commit(ctx context.Context, msg Message) error

	Close() error
}

// Publisher writes messages to the topic named on each message.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// PublisherFunc is a function adapter for Publisher.
type PublisherFunc func(ctx context.Context, msg Message) error

func (f PublisherFunc) Publish(ctx context.Context, msg Message) error { return f(ctx, msg) }

func (f PublisherFunc) Close() error { return nil }
