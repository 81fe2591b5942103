// Package scoreboard ranks active matches and publishes the summary as an
// immutable snapshot that readers load without locking.
package scoreboard

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/scoreboard/internal/domain/match"
	"github.com/okian/scoreboard/internal/domain/model"
	"github.com/okian/scoreboard/internal/domain/team"
	"github.com/okian/scoreboard/pkg/metrics"
)

// Matches is the subset of the match registry the board drives.
type Matches interface {
	Register(ctx context.Context, home, away team.Key) (model.Match, error)
	Start(ctx context.Context, sel match.Selector) (model.Match, error)
	UpdateScore(ctx context.Context, sel match.Selector, homeScore, awayScore int) (model.Match, error)
	Finish(ctx context.Context, sel match.Selector) (model.Match, error)
	Unregister(ctx context.Context, sel match.Selector) (model.Match, error)
	Get(ctx context.Context, sel match.Selector) (model.Match, error)
	IsRegistered(ctx context.Context, sel match.Selector) bool
	All(ctx context.Context) []model.Match
	Active(ctx context.Context) []model.Match
}

// Board decorates a match registry. Start, UpdateScore and Finish rebuild
// the summary after they succeed; Register and Unregister do not.
type Board struct {
	matches Matches

	// recompute serializes rebuilds so the last published summary reflects
	// the latest mutation.
	recompute sync.Mutex
	summary   atomic.Pointer[model.Summary]
}

// New creates a board over matches with an empty summary.
func New(matches Matches) *Board {
	b := &Board{matches: matches}
	b.summary.Store(&model.Summary{})
	return b
}

// Register delegates to the match registry.
func (b *Board) Register(ctx context.Context, home, away team.Key) (model.Match, error) {
	return b.matches.Register(ctx, home, away)
}

// Start starts the match and rebuilds the summary.
func (b *Board) Start(ctx context.Context, sel match.Selector) (model.Match, error) {
	return b.rebuildAfter(ctx, func() (model.Match, error) {
		return b.matches.Start(ctx, sel)
	})
}

// UpdateScore sets the match score and rebuilds the summary.
func (b *Board) UpdateScore(ctx context.Context, sel match.Selector, homeScore, awayScore int) (model.Match, error) {
	return b.rebuildAfter(ctx, func() (model.Match, error) {
		return b.matches.UpdateScore(ctx, sel, homeScore, awayScore)
	})
}

// Finish finishes the match and rebuilds the summary.
func (b *Board) Finish(ctx context.Context, sel match.Selector) (model.Match, error) {
	return b.rebuildAfter(ctx, func() (model.Match, error) {
		return b.matches.Finish(ctx, sel)
	})
}

// Unregister delegates to the match registry. An unregistered IN_PROGRESS
// match stays on the summary until the next rebuild.
func (b *Board) Unregister(ctx context.Context, sel match.Selector) (model.Match, error) {
	return b.matches.Unregister(ctx, sel)
}

// Get delegates to the match registry.
func (b *Board) Get(ctx context.Context, sel match.Selector) (model.Match, error) {
	return b.matches.Get(ctx, sel)
}

// IsRegistered delegates to the match registry.
func (b *Board) IsRegistered(ctx context.Context, sel match.Selector) bool {
	return b.matches.IsRegistered(ctx, sel)
}

// All delegates to the match registry.
func (b *Board) All(ctx context.Context) []model.Match { return b.matches.All(ctx) }

// Active delegates to the match registry.
func (b *Board) Active(ctx context.Context) []model.Match { return b.matches.Active(ctx) }

// Summary returns the last published summary. It is never nil.
func (b *Board) Summary() *model.Summary {
	return b.summary.Load()
}

// Refresh rebuilds the summary from the current registry state.
func (b *Board) Refresh(ctx context.Context) *model.Summary {
	b.recompute.Lock()
	defer b.recompute.Unlock()
	return b.publish(ctx)
}

// rebuildAfter holds the recompute lock across the mutation and the rebuild,
// so a later mutation can never be overwritten by an earlier rebuild.
func (b *Board) rebuildAfter(ctx context.Context, mutate func() (model.Match, error)) (model.Match, error) {
	b.recompute.Lock()
	defer b.recompute.Unlock()

	m, err := mutate()
	if err != nil {
		return model.Match{}, err
	}
	b.publish(ctx)
	return m, nil
}

// publish must be called with b.recompute held.
func (b *Board) publish(ctx context.Context) *model.Summary {
	start := time.Now()

	active := b.matches.Active(ctx)
	slices.SortFunc(active, Compare)

	entries := make([]model.ScoreboardEntry, len(active))
	for i, m := range active {
		entries[i] = model.ScoreboardEntry{
			MatchID:   m.ID,
			Rank:      i + 1,
			Home:      m.Home,
			HomeScore: m.HomeScore,
			Away:      m.Away,
			AwayScore: m.AwayScore,
		}
	}
	s := &model.Summary{Entries: entries}
	b.summary.Store(s)

	metrics.RecordSummaryRecompute(time.Since(start), len(entries))
	return s
}
