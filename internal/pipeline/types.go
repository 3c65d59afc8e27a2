package pipeline

import (
	"time"

	"github.com/rickgao/pricing-board/internal/broker"
	"github.com/rickgao/pricing-board/internal/model"
)

// Config holds pipeline configuration.
type Config struct {
	OutboundTopic   string        // Distribution topic (default: Outbound)
	DeadLetterTopic string        // Dead-letter topic (default: DeadLetters)
	FetchBackoff    time.Duration // Pause after a failed fetch or dead-letter publish (default: 1s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		OutboundTopic:   "Outbound",
		DeadLetterTopic: "DeadLetters",
		FetchBackoff:    time.Second,
	}
}

// Feed is an inbound stream attributed to exactly one vendor.
type Feed struct {
	Vendor model.VendorID
	Topic  string
	Source broker.Source
}

// Stats contains runtime statistics.
type Stats struct {
	Received     int64 `json:"received"`
	Published    int64 `json:"published"`
	Rejected     int64 `json:"rejected"`
	Failed       int64 `json:"failed"`
	DeadLettered int64 `json:"dead_lettered"`
}

// Message outcomes reported to a Recorder.
const (
	OutcomeReceived     = "received"
	OutcomePublished    = "published"
	OutcomeRejected     = "rejected"
	OutcomeFailed       = "failed"
	OutcomeDeadLettered = "dead_lettered"
)

// Recorder observes message outcomes, typically for metrics.
type Recorder interface {
	RecordMessage(vendor, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) RecordMessage(string, string) {}
