// Package match implements the match registry: canonical match state indexed
// by match id and by ordered team pair, with lifecycle operations.
package match

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/okian/scoreboard/internal/domain/ident"
	"github.com/okian/scoreboard/internal/domain/model"
	"github.com/okian/scoreboard/internal/domain/team"
	"github.com/okian/scoreboard/pkg/metrics"
)

const component = "match"

// TeamResolver resolves team keys to registered teams.
type TeamResolver interface {
	Get(ctx context.Context, key team.Key) (model.Team, error)
}

// pairKey is ordered: (A, B) and (B, A) are distinct matches.
type pairKey struct {
	home int
	away int
}

func pairOf(m model.Match) pairKey {
	return pairKey{home: m.Home.ID, away: m.Away.ID}
}

// Registry owns canonical match state. byID is the store; byPair only
// indexes into it. One lock guards both.
type Registry struct {
	mu     sync.RWMutex
	byID   map[int]model.Match
	byPair map[pairKey]int
	counts [statusCount]int

	teams  TeamResolver
	ids    *ident.Generator
	now    func() time.Time
	strict bool
}

const statusCount = int(model.StatusUnregistered) + 1

// New creates an empty registry resolving teams through teams.
func New(teams TeamResolver, opts ...Option) *Registry {
	r := &Registry{
		byID:   make(map[int]model.Match),
		byPair: make(map[pairKey]int),
		teams:  teams,
		ids:    ident.New(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register creates a REGISTERED 0-0 match between home and away.
func (r *Registry) Register(ctx context.Context, home, away team.Key) (m model.Match, err error) {
	defer func() { metrics.RecordOperation(component, "register", err) }()

	homeTeam, awayTeam, err := r.resolvePair(ctx, home, away)
	if err != nil {
		return model.Match{}, err
	}
	if homeTeam.ID == awayTeam.ID {
		return model.Match{}, fmt.Errorf("match between teams '%s' and '%s': %w", homeTeam.Name, awayTeam.Name, ErrSameTeam)
	}

	r.mu.Lock()
	key := pairKey{home: homeTeam.ID, away: awayTeam.ID}
	if _, ok := r.byPair[key]; ok {
		r.mu.Unlock()
		return model.Match{}, fmt.Errorf("match between teams '%s' and '%s' %w", homeTeam.Name, awayTeam.Name, ErrAlreadyRegistered)
	}
	now := r.now()
	m = model.Match{
		ID:            r.ids.Next(),
		Home:          homeTeam,
		Away:          awayTeam,
		Status:        model.StatusRegistered,
		StartedAt:     now,
		LastUpdatedAt: now,
	}
	r.byID[m.ID] = m
	r.byPair[key] = m.ID
	r.counts[m.Status]++
	publishCounts(r.counts)
	r.mu.Unlock()

	return m, nil
}

// Start moves the match to IN_PROGRESS, keeping its score.
func (r *Registry) Start(ctx context.Context, sel Selector) (model.Match, error) {
	return r.mutate(ctx, "start", sel, func(m model.Match) (model.Match, error) {
		if r.strict && m.Status != model.StatusRegistered {
			return m, transitionError(m, "start")
		}
		m.Status = model.StatusInProgress
		return m, nil
	})
}

// UpdateScore replaces both scores. Scores may go down; the last write wins.
func (r *Registry) UpdateScore(ctx context.Context, sel Selector, homeScore, awayScore int) (model.Match, error) {
	if homeScore < 0 || awayScore < 0 {
		err := fmt.Errorf("%s: %d-%d: %w", sel, homeScore, awayScore, ErrInvalidScore)
		metrics.RecordOperation(component, "update_score", err)
		return model.Match{}, err
	}
	return r.mutate(ctx, "update_score", sel, func(m model.Match) (model.Match, error) {
		if r.strict && m.Status != model.StatusInProgress {
			return m, transitionError(m, "update score")
		}
		m.HomeScore = homeScore
		m.AwayScore = awayScore
		return m, nil
	})
}

// Finish moves the match to FINISHED.
func (r *Registry) Finish(ctx context.Context, sel Selector) (model.Match, error) {
	return r.mutate(ctx, "finish", sel, func(m model.Match) (model.Match, error) {
		if r.strict && m.Status != model.StatusInProgress {
			return m, transitionError(m, "finish")
		}
		m.Status = model.StatusFinished
		return m, nil
	})
}

// Unregister removes the match from both indices and returns its final
// snapshot with status UNREGISTERED.
func (r *Registry) Unregister(ctx context.Context, sel Selector) (m model.Match, err error) {
	defer func() { metrics.RecordOperation(component, "unregister", err) }()

	pair, err := r.resolveSelector(ctx, sel)
	if err != nil {
		return model.Match{}, err
	}

	r.mu.Lock()
	current, err := r.locate(sel, pair)
	if err != nil {
		r.mu.Unlock()
		return model.Match{}, err
	}
	delete(r.byID, current.ID)
	delete(r.byPair, pairOf(current))
	r.counts[current.Status]--
	publishCounts(r.counts)
	now := r.now()
	r.mu.Unlock()

	current.Status = model.StatusUnregistered
	current.LastUpdatedAt = now
	return current, nil
}

// Get returns the current snapshot of the addressed match.
func (r *Registry) Get(ctx context.Context, sel Selector) (model.Match, error) {
	pair, err := r.resolveSelector(ctx, sel)
	if err != nil {
		return model.Match{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.locate(sel, pair)
}

// IsRegistered reports whether the addressed match exists. Selectors naming
// unknown teams report false.
func (r *Registry) IsRegistered(ctx context.Context, sel Selector) bool {
	_, err := r.Get(ctx, sel)
	return err == nil
}

// All returns every registered match, any status, ordered by id.
func (r *Registry) All(ctx context.Context) []model.Match {
	return r.collect(func(model.Match) bool { return true })
}

// Active returns the matches currently IN_PROGRESS, ordered by id.
func (r *Registry) Active(ctx context.Context) []model.Match {
	return r.collect(model.Match.Active)
}

// CountByStatus returns the number of registered matches per status.
func (r *Registry) CountByStatus(ctx context.Context) map[model.Status]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[model.Status]int, len(r.counts))
	for s, n := range r.counts {
		if n > 0 {
			out[model.Status(s)] = n
		}
	}
	return out
}

func (r *Registry) collect(keep func(model.Match) bool) []model.Match {
	r.mu.RLock()
	out := make([]model.Match, 0, len(r.byID))
	for _, m := range r.byID {
		if keep(m) {
			out = append(out, m)
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b model.Match) int { return a.ID - b.ID })
	return out
}

// mutate applies fn to the addressed match and stores the result under the
// same id. The pair index points at ids, so only byID changes.
func (r *Registry) mutate(ctx context.Context, op string, sel Selector, fn func(model.Match) (model.Match, error)) (m model.Match, err error) {
	defer func() { metrics.RecordOperation(component, op, err) }()

	pair, err := r.resolveSelector(ctx, sel)
	if err != nil {
		return model.Match{}, err
	}

	r.mu.Lock()
	current, err := r.locate(sel, pair)
	if err != nil {
		r.mu.Unlock()
		return model.Match{}, err
	}
	next, err := fn(current)
	if err != nil {
		r.mu.Unlock()
		return model.Match{}, err
	}
	next.LastUpdatedAt = r.now()
	r.byID[next.ID] = next
	r.counts[current.Status]--
	r.counts[next.Status]++
	publishCounts(r.counts)
	r.mu.Unlock()

	return next, nil
}

// resolvedPair carries the teams a team-pair selector resolved to.
type resolvedPair struct {
	key  pairKey
	home model.Team
	away model.Team
}

// resolveSelector resolves team-pair selectors through the team registry.
// It runs before the match lock is taken.
func (r *Registry) resolveSelector(ctx context.Context, sel Selector) (resolvedPair, error) {
	if !sel.byTeams {
		return resolvedPair{}, nil
	}
	home, away, err := r.resolvePair(ctx, sel.home, sel.away)
	if err != nil {
		return resolvedPair{}, err
	}
	return resolvedPair{key: pairKey{home: home.ID, away: away.ID}, home: home, away: away}, nil
}

func (r *Registry) resolvePair(ctx context.Context, home, away team.Key) (model.Team, model.Team, error) {
	homeTeam, err := r.teams.Get(ctx, home)
	if err != nil {
		return model.Team{}, model.Team{}, err
	}
	awayTeam, err := r.teams.Get(ctx, away)
	if err != nil {
		return model.Team{}, model.Team{}, err
	}
	return homeTeam, awayTeam, nil
}

// locate must be called with r.mu held.
func (r *Registry) locate(sel Selector, pair resolvedPair) (model.Match, error) {
	if sel.byTeams {
		id, ok := r.byPair[pair.key]
		if !ok {
			return model.Match{}, fmt.Errorf("match between teams '%s' and '%s' %w", pair.home.Name, pair.away.Name, ErrNotRegistered)
		}
		return r.byID[id], nil
	}
	m, ok := r.byID[sel.id]
	if !ok {
		return model.Match{}, fmt.Errorf("match ID '%d' %w", sel.id, ErrNotRegistered)
	}
	return m, nil
}

func transitionError(m model.Match, action string) error {
	return fmt.Errorf("match ID '%d' cannot %s while %s: %w", m.ID, action, m.Status, ErrInvalidTransition)
}

func publishCounts(counts [statusCount]int) {
	for s, n := range counts {
		metrics.UpdateMatchesByStatus(model.Status(s).String(), n)
	}
}
