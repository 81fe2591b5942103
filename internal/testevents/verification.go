package testevents

import (
	"errors"
	"fmt"

	"github.com/okian/scoreboard/internal/domain/model"
)

// ErrMismatch is returned when a scoreboard differs from the expected one.
var ErrMismatch = errors.New("scoreboard mismatch")

// Verify checks that got lists exactly the expected entries in order.
func Verify(got *model.Summary, want []model.ScoreboardEntry) error {
	if got.Len() != len(want) {
		return fmt.Errorf("%w: %d entries, expected %d", ErrMismatch, got.Len(), len(want))
	}
	for i, w := range want {
		g := got.Entries[i]
		if g.MatchID != w.MatchID {
			return fmt.Errorf("%w: rank %d is match ID '%d', expected '%d'", ErrMismatch, i+1, g.MatchID, w.MatchID)
		}
		if g.String() != w.String() {
			return fmt.Errorf("%w: rank %d is %q, expected %q", ErrMismatch, i+1, g.String(), w.String())
		}
	}
	return nil
}

// VerifyOrdered checks ranks are contiguous from 1 and totals never increase
// down the board. It holds for any summary, not just generated ones.
func VerifyOrdered(s *model.Summary) error {
	for i := 0; i < s.Len(); i++ {
		e := s.Entries[i]
		if e.Rank != i+1 {
			return fmt.Errorf("%w: entry %d has rank %d", ErrMismatch, i, e.Rank)
		}
		if i == 0 {
			continue
		}
		prev := s.Entries[i-1]
		if e.HomeScore+e.AwayScore > prev.HomeScore+prev.AwayScore {
			return fmt.Errorf("%w: rank %d outscores rank %d", ErrMismatch, e.Rank, prev.Rank)
		}
	}
	return nil
}
