package stream

import (
	"errors"
	"time"
)

// ErrHubClosed is returned when publishing to or subscribing on a closed hub.
var ErrHubClosed = errors.New("stream: hub closed")

// Config holds hub configuration.
type Config struct {
	SendBuffer   int           // Per-subscriber queue size (default: 256)
	WriteTimeout time.Duration // Deadline for a single write (default: 10s)
	PingInterval time.Duration // Interval between pings (default: 30s)
	PongWait     time.Duration // Max silence before a subscriber is dropped (default: 60s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		SendBuffer:   256,
		WriteTimeout: 10 * time.Second,
		PingInterval: 30 * time.Second,
		PongWait:     60 * time.Second,
	}
}

// Stats contains runtime statistics.
type Stats struct {
	Subscribers int   `json:"subscribers"`
	Delivered   int64 `json:"delivered"`
	Dropped     int64 `json:"dropped"`
}

// Observer is notified of subscriber and delivery events, typically for metrics.
type Observer interface {
	SubscriberAdded()
	SubscriberRemoved()
	DeliveryDropped()
}

type nopObserver struct{}

func (nopObserver) SubscriberAdded()   {}
func (nopObserver) SubscriberRemoved() {}
func (nopObserver) DeliveryDropped()   {}
