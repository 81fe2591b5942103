// Package config defines the scoreboard configuration and how it is loaded.
package config

import (
	"fmt"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// TeamNameMaxLength caps team names in runes. 0 disables the cap.
	TeamNameMaxLength int `koanf:"team_name_max_length"`

	// StrictLifecycle rejects out-of-order match transitions.
	StrictLifecycle bool `koanf:"strict_lifecycle"`

	// FeedQueueSize bounds the in-memory feed event queue.
	FeedQueueSize int `koanf:"feed_queue_size"`

	// FeedDedupeSize is how many feed event ids are remembered. 0 remembers all.
	FeedDedupeSize int `koanf:"feed_dedupe_size"`

	// MetricsEnabled turns metric recording on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsNamespace prefixes every metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`

	// MetricsSubsystem is inserted between namespace and metric name.
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsLatencyBuckets overrides the recompute latency histogram
	// buckets, in seconds, strictly increasing.
	MetricsLatencyBuckets []float64 `koanf:"metrics_latency_buckets"`

	// MetricsConstLabels are attached to every metric.
	MetricsConstLabels map[string]string `koanf:"metrics_const_labels"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		TeamNameMaxLength: 64,
		StrictLifecycle:   false,
		FeedQueueSize:     1024,
		FeedDedupeSize:    10_000,
		MetricsEnabled:    true,
		MetricsNamespace:  "scoreboard",
	}
}

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.TeamNameMaxLength < 0 {
		return fmt.Errorf("%w: team_name_max_length must not be negative", ErrInvalidConfig)
	}
	if c.FeedQueueSize <= 0 {
		return fmt.Errorf("%w: feed_queue_size must be positive", ErrInvalidConfig)
	}
	if c.FeedDedupeSize < 0 {
		return fmt.Errorf("%w: feed_dedupe_size must not be negative", ErrInvalidConfig)
	}
	if c.MetricsNamespace == "" {
		return fmt.Errorf("%w: metrics_namespace must not be empty", ErrInvalidConfig)
	}
	for i := 1; i < len(c.MetricsLatencyBuckets); i++ {
		if c.MetricsLatencyBuckets[i] <= c.MetricsLatencyBuckets[i-1] {
			return fmt.Errorf("%w: metrics_latency_buckets must be strictly increasing", ErrInvalidConfig)
		}
	}
	for name := range c.MetricsConstLabels {
		if name == "" {
			return fmt.Errorf("%w: metrics_const_labels has an empty label name", ErrInvalidConfig)
		}
	}
	return nil
}
