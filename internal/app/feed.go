package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/okian/scoreboard/internal/adapters/feed"
	"github.com/okian/scoreboard/internal/domain/match"
	"github.com/okian/scoreboard/internal/domain/model"
	"github.com/okian/scoreboard/internal/domain/team"
	"github.com/okian/scoreboard/pkg/logger"
	"github.com/okian/scoreboard/pkg/metrics"
)

// Apply performs the registry operation a feed event names.
func (s *Service) Apply(ctx context.Context, e model.Event) error { //nolint:gocritic // hugeParam: worker contract
	if err := feed.Validate(e); err != nil {
		return err
	}

	var err error
	switch e.Kind {
	case model.EventRegisterTeam:
		_, err = s.RegisterTeam(ctx, e.Team)
	case model.EventUnregisterTeam:
		err = s.UnregisterTeam(ctx, team.ByName(e.Team))
	case model.EventRegisterMatch:
		_, err = s.RegisterMatch(ctx, team.ByName(e.Home), team.ByName(e.Away))
	case model.EventStartMatch:
		_, err = s.StartMatch(ctx, selectorOf(e))
	case model.EventUpdateScore:
		_, err = s.UpdateMatchScore(ctx, selectorOf(e), e.HomeScore, e.AwayScore)
	case model.EventFinishMatch:
		_, err = s.FinishMatch(ctx, selectorOf(e))
	case model.EventUnregisterMatch:
		_, err = s.UnregisterMatch(ctx, selectorOf(e))
	default:
		err = fmt.Errorf("%w: %q", feed.ErrUnknownKind, e.Kind)
	}
	return err
}

// Submit queues a feed event for the worker and returns the event id, which
// is generated when the event has none. An id seen before is counted as a
// duplicate and not queued again.
func (s *Service) Submit(ctx context.Context, e model.Event) (string, error) { //nolint:gocritic // hugeParam: value semantics
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return e.ID, ErrNotStarted
	}

	if s.deduper.SeenAndRecord(ctx, e.ID) {
		s.duplicates.Add(1)
		metrics.RecordFeedEvent(metrics.FeedDuplicate)
		s.logger.Debug(ctx, "duplicate feed event skipped", logger.String("event_id", e.ID))
		return e.ID, nil
	}

	if err := s.queue.Enqueue(ctx, e); err != nil {
		s.deduper.Unrecord(ctx, e.ID)
		s.rejected.Add(1)
		metrics.RecordFeedEvent(metrics.FeedRejected)
		s.logger.Warn(ctx, "feed event not queued",
			logger.String("event_id", e.ID),
			logger.Error(err),
		)
		return e.ID, err
	}
	return e.ID, nil
}

func selectorOf(e model.Event) match.Selector { //nolint:gocritic // hugeParam: value semantics
	if e.MatchID != 0 {
		return match.ByID(e.MatchID)
	}
	return match.ByTeamNames(e.Home, e.Away)
}
