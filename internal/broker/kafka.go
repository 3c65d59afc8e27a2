package broker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaConfig holds connection settings shared by sources and publishers.
type KafkaConfig struct {
	Brokers        []string
	GroupID        string
	SessionTimeout time.Duration // Consumer group session timeout (default: 10s)
	MaxAttempts    int           // Write attempts before giving up (default: 3)
	BatchTimeout   time.Duration // Max wait to fill a write batch (default: 10ms)
}

// DefaultKafkaConfig returns sensible defaults.
func DefaultKafkaConfig() KafkaConfig {
	return KafkaConfig{
		Brokers:        []string{"localhost:9092"},
		GroupID:        "pricing-board",
		SessionTimeout: 10 * time.Second,
		MaxAttempts:    3,
		BatchTimeout:   10 * time.Millisecond,
	}
}

// KafkaSource consumes one topic as part of a consumer group and commits
// offsets explicitly.
type KafkaSource struct {
	reader *kafka.Reader
	logger *slog.Logger
}

// NewKafkaSource creates a consumer for topic.
func NewKafkaSource(cfg KafkaConfig, topic string, logger *slog.Logger) *KafkaSource {
	if logger == nil {
		logger = slog.Default()
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          topic,
		GroupID:        cfg.GroupID,
		SessionTimeout: cfg.SessionTimeout,
		StartOffset:    kafka.FirstOffset,
		MaxBytes:       10e6,
	})

	logger.Info("kafka source created",
		"brokers", cfg.Brokers,
		"topic", topic,
		"group_id", cfg.GroupID,
	)

	return &KafkaSource{reader: reader, logger: logger}
}

// Fetch implements Source. It does not commit.
func (s *KafkaSource) Fetch(ctx context.Context) (Message, error) {
	km, err := s.reader.FetchMessage(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Message{}, ErrClosed
		}
		return Message{}, fmt.Errorf("fetch %s: %w", s.reader.Config().Topic, err)
	}
	return fromKafka(km), nil
}

// Commit implements Source.
func (s *KafkaSource) Commit(ctx context.Context, msg Message) error {
	err := s.reader.CommitMessages(ctx, kafka.Message{
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
	})
	if err != nil {
		return fmt.Errorf("commit %s/%d@%d: %w", msg.Topic, msg.Partition, msg.Offset, err)
	}
	return nil
}

// Close implements Source.
func (s *KafkaSource) Close() error {
	return s.reader.Close()
}

// KafkaPublisher writes to any topic, waiting for all in-sync replicas.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewKafkaPublisher creates a publisher. The topic is taken from each message.
func NewKafkaPublisher(cfg KafkaConfig, logger *slog.Logger) *KafkaPublisher {
	if logger == nil {
		logger = slog.Default()
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		MaxAttempts:            cfg.MaxAttempts,
		BatchTimeout:           cfg.BatchTimeout,
	}

	logger.Info("kafka publisher created", "brokers", cfg.Brokers)

	return &KafkaPublisher{writer: writer, logger: logger}
}

// Publish implements Publisher.
func (p *KafkaPublisher) Publish(ctx context.Context, msg Message) error {
	if err := p.writer.WriteMessages(ctx, toKafka(msg)); err != nil {
		return fmt.Errorf("publish %s: %w", msg.Topic, err)
	}
	p.logger.Debug("kafka message sent", "topic", msg.Topic, "key", string(msg.Key))
	return nil
}

// Close flushes pending writes.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func fromKafka(km kafka.Message) Message {
	headers := make(map[string]string, len(km.Headers))
	for _, h := range km.Headers {
		headers[h.Key] = string(h.Value)
	}
	return Message{
		Topic:      km.Topic,
		Key:        km.Key,
		Value:      km.Value,
		Headers:    headers,
		ReceivedAt: time.Now(),
		Partition:  km.Partition,
		Offset:     km.Offset,
	}
}

func toKafka(msg Message) kafka.Message {
	headers := make([]kafka.Header, 0, len(msg.Headers))
	for k, v := range msg.Headers {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return kafka.Message{
		Topic:   msg.Topic,
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: headers,
	}
}
