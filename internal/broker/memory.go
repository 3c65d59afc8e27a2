package broker

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process broker with one queue per topic.
// Each message is delivered to exactly one consumer of its topic.
type Memory struct {
	mu       sync.Mutex
	topics   map[string]*memoryTopic
	capacity int
	closed   bool
}

type memoryTopic struct {
	name    string
	q       *queue[Message]
	offset  int64
	commits int64
}

// NewMemory creates an in-process broker whose topic queues start at the
// given capacity.
func NewMemory(capacity int) *Memory {
	return &Memory{
		topics:   make(map[string]*memoryTopic),
		capacity: capacity,
	}
}

func (m *Memory) topic(name string) *memoryTopic {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.topics[name]
	if !ok {
		t = &memoryTopic{name: name, q: newQueue[Message](m.capacity)}
		if m.closed {
			t.q.close()
		}
		m.topics[name] = t
	}
	return t
}

// Source returns a consumer of the named topic.
func (m *Memory) Source(topic string) Source {
	return &memorySource{m: m, t: m.topic(topic)}
}

// Publish appends msg to its topic.
func (m *Memory) Publish(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t := m.topic(msg.Topic)

	m.mu.Lock()
	t.offset++
	msg.Offset = t.offset
	m.mu.Unlock()

	if msg.ReceivedAt.IsZero() {
		msg.ReceivedAt = time.Now()
	}
	if !t.q.push(msg) {
		return ErrClosed
	}
	return nil
}

// Close closes every topic. Queued messages remain readable.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	for _, t := range m.topics {
		t.q.close()
	}
	return nil
}

// TopicStats returns queue statistics for a topic.
func (m *Memory) TopicStats(topic string) QueueStats {
	return m.topic(topic).q.stats()
}

// Committed returns the number of commits made on a topic.
func (m *Memory) Committed(topic string) int64 {
	t := m.topic(topic)
	m.mu.Lock()
	defer m.mu.Unlock()
	return t.commits
}

type memorySource struct {
	m *Memory
	t *memoryTopic
}

func (s *memorySource) Fetch(ctx context.Context) (Message, error) {
	return s.t.q.pop(ctx)
}

func (s *memorySource) Commit(_ context.Context, _ Message) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.t.commits++
	return nil
}

// Close is a no-op; the broker owns the topic.
func (s *memorySource) Close() error { return nil }
