package model

import "time"

// Status is the lifecycle state of a match.
type Status int

// Match lifecycle states.
const (
	StatusRegistered Status = iota
	StatusInProgress
	StatusFinished
	StatusUnregistered
)

// Statuses lists every lifecycle state in order.
var Statuses = []Status{StatusRegistered, StatusInProgress, StatusFinished, StatusUnregistered}

func (s Status) String() string {
	switch s {
	case StatusRegistered:
		return "REGISTERED"
	case StatusInProgress:
		return "IN_PROGRESS"
	case StatusFinished:
		return "FINISHED"
	case StatusUnregistered:
		return "UNREGISTERED"
	default:
		return "UNKNOWN"
	}
}

// Match is an immutable snapshot of a match. Every mutation produces a new
// value stored under the same ID.
type Match struct {
	ID            int
	Home          Team
	HomeScore     int
	Away          Team
	AwayScore     int
	Status        Status
	StartedAt     time.Time
	LastUpdatedAt time.Time
}

// TotalScore is the sum of both teams' scores.
func (m Match) TotalScore() int {
	return m.HomeScore + m.AwayScore
}

// Active reports whether the match is currently being played.
func (m Match) Active() bool {
	return m.Status == StatusInProgress
}
