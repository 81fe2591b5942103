package testevents

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"
	"github.com/okian/scoreboard/internal/domain/model"
	"github.com/okian/scoreboard/pkg/logger"
)

// Feed is a generated event sequence and the summary it produces when
// replayed into an empty scoreboard.
type Feed struct {
	Events   []model.Event
	Expected []model.ScoreboardEntry
}

type fixture struct {
	id         int
	home, away string
	homeScore  int
	awayScore  int
	finished   bool
}

// Generate builds a feed of cfg.Matches matches. Teams are registered
// first, then every match is registered and started, then goals arrive in
// a seeded random order, then every FinishEvery-th match is finished.
//
// Match and team IDs in the feed assume a scoreboard with no earlier
// registrations.
func Generate(ctx context.Context, cfg Config) (*Feed, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Get().Info(ctx, "generating feed",
		logger.Int("matches", cfg.Matches),
		logger.Int("maxGoals", cfg.MaxGoals),
	)

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	fixtures := make([]*fixture, cfg.Matches)
	var events []model.Event

	for i := range fixtures {
		f := &fixture{
			id:   i + 1,
			home: fmt.Sprintf("Home %03d", i+1),
			away: fmt.Sprintf("Away %03d", i+1),
		}
		fixtures[i] = f
		events = append(events,
			model.Event{ID: uuid.NewString(), Kind: model.EventRegisterTeam, Team: f.home},
			model.Event{ID: uuid.NewString(), Kind: model.EventRegisterTeam, Team: f.away},
		)
	}
	for _, f := range fixtures {
		events = append(events,
			model.Event{ID: uuid.NewString(), Kind: model.EventRegisterMatch, Home: f.home, Away: f.away},
			model.Event{ID: uuid.NewString(), Kind: model.EventStartMatch, MatchID: f.id},
		)
	}

	// One slot per goal, shuffled so matches score interleaved.
	var goals []int
	for i := range fixtures {
		for n := rng.IntN(cfg.MaxGoals + 1); n > 0; n-- {
			goals = append(goals, i)
		}
	}
	rng.Shuffle(len(goals), func(a, b int) { goals[a], goals[b] = goals[b], goals[a] })

	for n, i := range goals {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during feed generation: %w", err)
		}
		f := fixtures[i]
		if rng.IntN(2) == 0 {
			f.homeScore++
		} else {
			f.awayScore++
		}
		e := model.Event{
			ID:        uuid.NewString(),
			Kind:      model.EventUpdateScore,
			HomeScore: f.homeScore,
			AwayScore: f.awayScore,
		}
		// Alternate addressing so both lookups are exercised.
		if n%2 == 0 {
			e.MatchID = f.id
		} else {
			e.Home, e.Away = f.home, f.away
		}
		events = append(events, e)
	}

	if cfg.FinishEvery > 0 {
		for i := cfg.FinishEvery - 1; i < len(fixtures); i += cfg.FinishEvery {
			fixtures[i].finished = true
			events = append(events, model.Event{ID: uuid.NewString(), Kind: model.EventFinishMatch, MatchID: fixtures[i].id})
		}
	}

	feed := &Feed{Events: events, Expected: expected(fixtures)}
	logger.Get().Info(ctx, "generated feed successfully",
		logger.Int("events", len(feed.Events)),
		logger.Int("active", len(feed.Expected)),
	)
	return feed, nil
}

// expected ranks the unfinished fixtures. Matches are registered in ID
// order, so among equal totals the higher ID started no earlier and ranks
// first.
func expected(fixtures []*fixture) []model.ScoreboardEntry {
	var active []*fixture
	for _, f := range fixtures {
		if !f.finished {
			active = append(active, f)
		}
	}
	slices.SortFunc(active, func(a, b *fixture) int {
		if ta, tb := a.homeScore+a.awayScore, b.homeScore+b.awayScore; ta != tb {
			return tb - ta
		}
		return b.id - a.id
	})

	entries := make([]model.ScoreboardEntry, len(active))
	for i, f := range active {
		entries[i] = model.ScoreboardEntry{
			MatchID:   f.id,
			Rank:      i + 1,
			Home:      model.Team{ID: 2*f.id - 1, Name: f.home},
			HomeScore: f.homeScore,
			Away:      model.Team{ID: 2 * f.id, Name: f.away},
			AwayScore: f.awayScore,
		}
	}
	return entries
}
