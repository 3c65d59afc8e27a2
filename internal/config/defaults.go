package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultHTTPAddr        = ":8080"
	DefaultBasePath        = "/marketplace/board"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultMode            = ModeKafka
	DefaultGroupID         = "pricing-board"
	DefaultOutboundTopic   = "Outbound"
	DefaultDeadLetterTopic = "DeadLetters"
	DefaultSessionTimeout  = 10 * time.Second
	DefaultMaxAttempts     = 3
	DefaultFetchBackoff    = 1 * time.Second
	DefaultMemoryCapacity  = 1024
	DefaultRetentionDays   = 30
	DefaultRunAt           = "00:00"
	DefaultSendBuffer      = 256
	DefaultStreamWrite     = 10 * time.Second
	DefaultPingInterval    = 30 * time.Second
	DefaultPongWait        = 60 * time.Second
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
	DefaultLogOutput       = "stdout"
	DefaultLogFile         = "logs/pricing-board.log"
	DefaultLogMaxSizeMB    = 100
	DefaultLogMaxBackups   = 5
	DefaultLogMaxAgeDays   = 30
	DefaultMetricsPath     = "/metrics"
)

// Broker modes.
const (
	ModeKafka  = "kafka"
	ModeMemory = "memory"
)

// DefaultFeeds are the vendor feeds used when none are configured.
func DefaultFeeds() []FeedConfig {
	return []FeedConfig{
		{Vendor: "VendorX", Topic: "VendorX-Inbound"},
		{Vendor: "VendorY", Topic: "VendorY-Inbound"},
	}
}

// ApplyDefaults fills every unset optional field.
func (c *Config) ApplyDefaults() {
	// HTTP defaults
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultHTTPAddr
	}
	if c.HTTP.BasePath == "" {
		c.HTTP.BasePath = DefaultBasePath
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = DefaultReadTimeout
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = DefaultWriteTimeout
	}
	if c.HTTP.ShutdownTimeout == 0 {
		c.HTTP.ShutdownTimeout = DefaultShutdownTimeout
	}

	// Kafka defaults
	if c.Kafka.Mode == "" {
		c.Kafka.Mode = DefaultMode
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = DefaultGroupID
	}
	if len(c.Kafka.Feeds) == 0 {
		c.Kafka.Feeds = DefaultFeeds()
	}
	if c.Kafka.OutboundTopic == "" {
		c.Kafka.OutboundTopic = DefaultOutboundTopic
	}
	if c.Kafka.DeadLetterTopic == "" {
		c.Kafka.DeadLetterTopic = DefaultDeadLetterTopic
	}
	if c.Kafka.SessionTimeout == 0 {
		c.Kafka.SessionTimeout = DefaultSessionTimeout
	}
	if c.Kafka.MaxAttempts == 0 {
		c.Kafka.MaxAttempts = DefaultMaxAttempts
	}
	if c.Kafka.FetchBackoff == 0 {
		c.Kafka.FetchBackoff = DefaultFetchBackoff
	}
	if c.Kafka.MemoryCapacity == 0 {
		c.Kafka.MemoryCapacity = DefaultMemoryCapacity
	}

	// Eviction defaults
	if c.Eviction.RetentionDays == 0 {
		c.Eviction.RetentionDays = DefaultRetentionDays
	}
	if c.Eviction.RunAt == "" {
		c.Eviction.RunAt = DefaultRunAt
	}

	// Stream defaults
	if c.Stream.SendBuffer == 0 {
		c.Stream.SendBuffer = DefaultSendBuffer
	}
	if c.Stream.WriteTimeout == 0 {
		c.Stream.WriteTimeout = DefaultStreamWrite
	}
	if c.Stream.PingInterval == 0 {
		c.Stream.PingInterval = DefaultPingInterval
	}
	if c.Stream.PongWait == 0 {
		c.Stream.PongWait = DefaultPongWait
	}

	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Log.Output == "" {
		c.Log.Output = DefaultLogOutput
	}
	if c.Log.File == "" {
		c.Log.File = DefaultLogFile
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = DefaultLogMaxSizeMB
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = DefaultLogMaxBackups
	}
	if c.Log.MaxAgeDays == 0 {
		c.Log.MaxAgeDays = DefaultLogMaxAgeDays
	}

	// Metrics defaults
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}
