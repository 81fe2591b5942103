package service

import (
	"context"

	"github.com/okian/scoreboard/internal/domain/match"
	"github.com/okian/scoreboard/internal/domain/model"
	"github.com/okian/scoreboard/internal/domain/team"
	"github.com/okian/scoreboard/pkg/logger"
)

// RegisterTeam registers a team under a new id.
func (s *Service) RegisterTeam(ctx context.Context, name string) (model.Team, error) {
	t, err := s.teams.Register(ctx, name)
	s.observe(ctx, "register team", err, logger.String("team", name))
	return t, err
}

// UnregisterTeam removes a team. Matches already referencing it keep their
// own copy of the team.
func (s *Service) UnregisterTeam(ctx context.Context, key team.Key) error {
	err := s.teams.Unregister(ctx, key)
	s.observe(ctx, "unregister team", err, logger.String("key", key.String()))
	return err
}

// Team returns the addressed team.
func (s *Service) Team(ctx context.Context, key team.Key) (model.Team, error) {
	return s.teams.Get(ctx, key)
}

// IsTeamRegistered reports whether the addressed team exists.
func (s *Service) IsTeamRegistered(ctx context.Context, key team.Key) bool {
	return s.teams.IsRegistered(ctx, key)
}

// Teams returns every registered team ordered by id.
func (s *Service) Teams(ctx context.Context) []model.Team {
	return s.teams.All(ctx)
}

// RegisterMatch registers a match between two registered teams.
func (s *Service) RegisterMatch(ctx context.Context, home, away team.Key) (model.Match, error) {
	m, err := s.board.Register(ctx, home, away)
	s.observe(ctx, "register match", err,
		logger.String("home", home.String()),
		logger.String("away", away.String()),
	)
	return m, err
}

// StartMatch puts a match on the scoreboard.
func (s *Service) StartMatch(ctx context.Context, sel match.Selector) (model.Match, error) {
	m, err := s.board.Start(ctx, sel)
	s.observe(ctx, "start match", err, logger.String("match", sel.String()))
	return m, err
}

// UpdateMatchScore replaces both scores of a match.
func (s *Service) UpdateMatchScore(ctx context.Context, sel match.Selector, homeScore, awayScore int) (model.Match, error) {
	m, err := s.board.UpdateScore(ctx, sel, homeScore, awayScore)
	s.observe(ctx, "update match score", err,
		logger.String("match", sel.String()),
		logger.Int("homeScore", homeScore),
		logger.Int("awayScore", awayScore),
	)
	return m, err
}

// FinishMatch takes a match off the scoreboard.
func (s *Service) FinishMatch(ctx context.Context, sel match.Selector) (model.Match, error) {
	m, err := s.board.Finish(ctx, sel)
	s.observe(ctx, "finish match", err, logger.String("match", sel.String()))
	return m, err
}

// UnregisterMatch removes a match. The summary keeps showing it until the
// next scoreboard rebuild.
func (s *Service) UnregisterMatch(ctx context.Context, sel match.Selector) (model.Match, error) {
	m, err := s.board.Unregister(ctx, sel)
	s.observe(ctx, "unregister match", err, logger.String("match", sel.String()))
	return m, err
}

// Match returns the addressed match.
func (s *Service) Match(ctx context.Context, sel match.Selector) (model.Match, error) {
	return s.board.Get(ctx, sel)
}

// Matches returns every registered match ordered by id.
func (s *Service) Matches(ctx context.Context) []model.Match {
	return s.board.All(ctx)
}

// ActiveMatches returns the matches in progress ordered by id.
func (s *Service) ActiveMatches(ctx context.Context) []model.Match {
	return s.board.Active(ctx)
}

// IsMatchRegistered reports whether the addressed match exists.
func (s *Service) IsMatchRegistered(ctx context.Context, sel match.Selector) bool {
	return s.board.IsRegistered(ctx, sel)
}

// Summary returns a copy of the current ranked scoreboard. It is never nil.
func (s *Service) Summary() *model.Summary {
	return s.board.Summary().Clone()
}

// RefreshSummary rebuilds the scoreboard from the registry and returns a
// copy of it.
func (s *Service) RefreshSummary(ctx context.Context) *model.Summary {
	return s.board.Refresh(ctx).Clone()
}

func (s *Service) observe(ctx context.Context, op string, err error, fields ...logger.Field) {
	if err != nil {
		s.logger.Warn(ctx, op+" rejected", append(fields, logger.Error(err))...)
		return
	}
	s.logger.Debug(ctx, op, fields...)
}
