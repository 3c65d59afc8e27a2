package config

import "time"

// Config is the root configuration for a pricing board instance.
type Config struct {
	Instance InstanceConfig `yaml:"instance"`
	HTTP     HTTPConfig     `yaml:"http"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Eviction EvictionConfig `yaml:"eviction"`
	Stream   StreamConfig   `yaml:"stream"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// InstanceConfig identifies this instance.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// HTTPConfig holds the API server settings.
type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	BasePath        string        `yaml:"base_path"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// KafkaConfig holds broker settings and topic names.
type KafkaConfig struct {
	Mode            string        `yaml:"mode"` // "kafka" or "memory"
	Brokers         []string      `yaml:"brokers"`
	GroupID         string        `yaml:"group_id"`
	Feeds           []FeedConfig  `yaml:"feeds"`
	OutboundTopic   string        `yaml:"outbound_topic"`
	DeadLetterTopic string        `yaml:"dead_letter_topic"`
	SessionTimeout  time.Duration `yaml:"session_timeout"`
	MaxAttempts     int           `yaml:"max_attempts"`
	FetchBackoff    time.Duration `yaml:"fetch_backoff"`
	MemoryCapacity  int           `yaml:"memory_capacity"`
}

// FeedConfig binds an inbound topic to the vendor it carries.
type FeedConfig struct {
	Vendor string `yaml:"vendor"`
	Topic  string `yaml:"topic"`
}

// EvictionConfig holds cache retention settings.
type EvictionConfig struct {
	RetentionDays int    `yaml:"retention_days"`
	RunAt         string `yaml:"run_at"` // HH:MM local time
	RunOnStart    bool   `yaml:"run_on_start"`
}

// StreamConfig holds WebSocket hub settings.
type StreamConfig struct {
	SendBuffer   int           `yaml:"send_buffer"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	PingInterval time.Duration `yaml:"ping_interval"`
	PongWait     time.Duration `yaml:"pong_wait"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `yaml:"level"`  // debug, info, warn, error
	Format     string `yaml:"format"` // json or text
	Output     string `yaml:"output"` // stdout, file or both
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// MetricsEnabled reports whether metrics are served (default: true).
func (c *Config) MetricsEnabled() bool {
	return c.Metrics.Enabled == nil || *c.Metrics.Enabled
}
