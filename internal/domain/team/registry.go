// Package team implements the team registry: a name and id indexed set of
// registered teams guarded by a single reader/writer lock.
package team

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/okian/scoreboard/internal/domain/ident"
	"github.com/okian/scoreboard/internal/domain/model"
	"github.com/okian/scoreboard/pkg/metrics"
)

const component = "team"

// Registry maps team ids and names to teams. Both indices are updated in
// the same critical section and never diverge.
type Registry struct {
	mu     sync.RWMutex
	byID   map[int]model.Team
	byName map[string]model.Team

	ids           *ident.Generator
	maxNameLength int
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		byID:          make(map[int]model.Team),
		byName:        make(map[string]model.Team),
		ids:           ident.New(),
		maxNameLength: DefaultMaxNameLength,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a team under a freshly issued id.
func (r *Registry) Register(ctx context.Context, name string) (team model.Team, err error) {
	defer func() { metrics.RecordOperation(component, "register", err) }()

	if err := r.validateName(name); err != nil {
		return model.Team{}, err
	}

	r.mu.Lock()
	if _, ok := r.byName[name]; ok {
		r.mu.Unlock()
		return model.Team{}, fmt.Errorf("team name '%s' %w", name, ErrAlreadyRegistered)
	}
	team = model.Team{ID: r.ids.Next(), Name: name}
	r.byID[team.ID] = team
	r.byName[team.Name] = team
	metrics.UpdateTeamsRegistered(len(r.byID))
	r.mu.Unlock()

	return team, nil
}

// Unregister removes the addressed team from both indices.
func (r *Registry) Unregister(ctx context.Context, key Key) (err error) {
	defer func() { metrics.RecordOperation(component, "unregister", err) }()

	r.mu.Lock()
	team, ok := r.lookup(key)
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%s %w", key, ErrNotRegistered)
	}
	delete(r.byID, team.ID)
	delete(r.byName, team.Name)
	metrics.UpdateTeamsRegistered(len(r.byID))
	r.mu.Unlock()

	return nil
}

// IsRegistered reports whether the addressed team exists.
func (r *Registry) IsRegistered(ctx context.Context, key Key) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.lookup(key)
	return ok
}

// Get returns the addressed team.
func (r *Registry) Get(ctx context.Context, key Key) (model.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	team, ok := r.lookup(key)
	if !ok {
		return model.Team{}, fmt.Errorf("%s %w", key, ErrNotRegistered)
	}
	return team, nil
}

// All returns every registered team ordered by id.
func (r *Registry) All(ctx context.Context) []model.Team {
	r.mu.RLock()
	out := make([]model.Team, 0, len(r.byID))
	for _, t := range r.byID {
		out = append(out, t)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b model.Team) int { return a.ID - b.ID })
	return out
}

// Count returns the number of registered teams.
func (r *Registry) Count(ctx context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// lookup must be called with r.mu held.
func (r *Registry) lookup(key Key) (model.Team, bool) {
	if key.byName {
		t, ok := r.byName[key.name]
		return t, ok
	}
	t, ok := r.byID[key.id]
	return t, ok
}

// validateName rejects blank names, names with surrounding whitespace or
// control characters, and names longer than maxNameLength runes.
func (r *Registry) validateName(name string) error {
	var reason string
	switch {
	case strings.TrimSpace(name) == "":
		reason = "must not be blank"
	case strings.TrimSpace(name) != name:
		reason = "must not start or end with whitespace"
	case strings.IndexFunc(name, unicode.IsControl) >= 0:
		reason = "must not contain control characters"
	case r.maxNameLength > 0 && utf8.RuneCountInString(name) > r.maxNameLength:
		reason = fmt.Sprintf("must not exceed %d characters", r.maxNameLength)
	default:
		return nil
	}
	return fmt.Errorf("provided team name '%s' %w: %s", name, ErrNameInvalid, reason)
}
