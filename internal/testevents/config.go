// Package testevents generates synthetic match feeds together with the
// scoreboard they must produce, for load runs and end-to-end checks.
package testevents

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned for generator settings that cannot produce a feed.
var ErrInvalidConfig = errors.New("invalid generator config")

// Default generator settings.
const (
	DefaultMatches     = 8
	DefaultMaxGoals    = 6
	DefaultFinishEvery = 4
)

// Config holds configuration for feed generation.
type Config struct {
	Matches     int    // Number of matches; each gets two fresh teams
	MaxGoals    int    // Upper bound on goals per match
	FinishEvery int    // Every n-th match is finished at the end; 0 finishes none
	Seed        uint64 // Seed for the goal sequence
}

// DefaultConfig returns the default generator settings.
func DefaultConfig() Config {
	return Config{
		Matches:     DefaultMatches,
		MaxGoals:    DefaultMaxGoals,
		FinishEvery: DefaultFinishEvery,
		Seed:        1,
	}
}

// Validate reports settings that cannot produce a feed.
func (c Config) Validate() error {
	if c.Matches < 1 {
		return fmt.Errorf("%w: matches must be positive, got %d", ErrInvalidConfig, c.Matches)
	}
	if c.MaxGoals < 0 {
		return fmt.Errorf("%w: max goals must not be negative, got %d", ErrInvalidConfig, c.MaxGoals)
	}
	if c.FinishEvery < 0 {
		return fmt.Errorf("%w: finish every must not be negative, got %d", ErrInvalidConfig, c.FinishEvery)
	}
	return nil
}
