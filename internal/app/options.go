package service

import (
	"time"

	"github.com/okian/scoreboard/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithQueueSize sets the capacity of the feed event queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many feed event ids are remembered. 0 remembers all.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size >= 0 {
			s.dedupeSize = size
		}
	}
}

// WithTeamNameMaxLength caps team names in runes. 0 disables the cap.
func WithTeamNameMaxLength(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.teamNameMaxLength = n
		}
	}
}

// WithStrictLifecycle rejects out-of-order match transitions.
func WithStrictLifecycle(strict bool) Option {
	return func(s *Service) {
		s.strictLifecycle = strict
	}
}

// WithClock sets the time source for match timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}
