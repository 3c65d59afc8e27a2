// Package broker moves pricing messages between feeds, the board and
// downstream consumers.
//
// Sources yield messages one at a time and are acknowledged explicitly with
// Commit once the message has been fully handled. Publishers write to the
// topic named on each message. Two transports are provided:
//   - Kafka (segmentio/kafka-go) for deployments
//   - Memory, an in-process broker used by tests and single-node runs
package broker
