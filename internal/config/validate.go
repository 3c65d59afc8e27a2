package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if !strings.HasPrefix(c.HTTP.BasePath, "/") {
		return fmt.Errorf("http.base_path must start with /, got %q", c.HTTP.BasePath)
	}

	if err := c.Kafka.validate(); err != nil {
		return err
	}

	if c.Eviction.RetentionDays < 1 {
		return errors.New("eviction.retention_days must be >= 1")
	}
	if _, err := time.Parse("15:04", c.Eviction.RunAt); err != nil {
		return fmt.Errorf("eviction.run_at must be HH:MM, got %q", c.Eviction.RunAt)
	}

	if c.Stream.SendBuffer < 1 {
		return errors.New("stream.send_buffer must be >= 1")
	}
	if c.Stream.PongWait <= c.Stream.PingInterval {
		return errors.New("stream.pong_wait must exceed stream.ping_interval")
	}

	switch c.Log.Output {
	case "stdout", "file", "both":
	default:
		return fmt.Errorf("log.output must be stdout, file or both, got %q", c.Log.Output)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text, got %q", c.Log.Format)
	}

	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /, got %q", c.Metrics.Path)
	}

	return nil
}

func (k *KafkaConfig) validate() error {
	switch k.Mode {
	case ModeKafka:
		if len(k.Brokers) == 0 {
			return errors.New("kafka.brokers is required in kafka mode")
		}
	case ModeMemory:
	default:
		return fmt.Errorf("kafka.mode must be %s or %s, got %q", ModeKafka, ModeMemory, k.Mode)
	}

	vendors := make(map[string]bool, len(k.Feeds))
	topics := make(map[string]bool, len(k.Feeds))
	for i, f := range k.Feeds {
		if f.Vendor == "" {
			return fmt.Errorf("kafka.feeds[%d].vendor is required", i)
		}
		if f.Topic == "" {
			return fmt.Errorf("kafka.feeds[%d].topic is required", i)
		}
		if vendors[f.Vendor] {
			return fmt.Errorf("kafka.feeds[%d]: duplicate vendor %q", i, f.Vendor)
		}
		if topics[f.Topic] {
			return fmt.Errorf("kafka.feeds[%d]: duplicate topic %q", i, f.Topic)
		}
		vendors[f.Vendor] = true
		topics[f.Topic] = true
	}

	if k.OutboundTopic == k.DeadLetterTopic {
		return errors.New("kafka.outbound_topic and kafka.dead_letter_topic must differ")
	}
	if topics[k.OutboundTopic] || topics[k.DeadLetterTopic] {
		return errors.New("kafka feed topics must differ from the outbound and dead-letter topics")
	}
	if k.MaxAttempts < 1 {
		return errors.New("kafka.max_attempts must be >= 1")
	}
	return nil
}
