package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/scoreboard/internal/app"
	"github.com/okian/scoreboard/internal/adapters/feed"
	"github.com/okian/scoreboard/internal/domain/match"
	"github.com/okian/scoreboard/internal/domain/model"
	"github.com/okian/scoreboard/internal/domain/team"
	"github.com/okian/scoreboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	_ = logger.SetLevelString("error")
}

type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func newService(opts ...service.Option) *service.Service {
	clock := &stepClock{now: time.Date(2026, 6, 11, 18, 0, 0, 0, time.UTC)}
	return service.New(append([]service.Option{service.WithClock(clock.Now)}, opts...)...)
}

func TestService_Facade(t *testing.T) {
	Convey("Given a new service", t, func() {
		ctx := context.Background()
		svc := newService()

		Convey("When registering teams and a match", func() {
			mexico, err := svc.RegisterTeam(ctx, "Mexico")
			So(err, ShouldBeNil)
			_, err = svc.RegisterTeam(ctx, "Canada")
			So(err, ShouldBeNil)
			m, err := svc.RegisterMatch(ctx, team.ByName("Mexico"), team.ByName("Canada"))
			So(err, ShouldBeNil)

			Convey("Then lookups should see them", func() {
				So(svc.IsTeamRegistered(ctx, team.ByID(mexico.ID)), ShouldBeTrue)
				got, err := svc.Team(ctx, team.ByName("Mexico"))
				So(err, ShouldBeNil)
				So(got, ShouldResemble, mexico)
				So(len(svc.Teams(ctx)), ShouldEqual, 2)
				So(svc.IsMatchRegistered(ctx, match.ByID(m.ID)), ShouldBeTrue)
				So(len(svc.Matches(ctx)), ShouldEqual, 1)
				So(svc.Summary().String(), ShouldEqual, "")
			})

			Convey("And playing the match should update the summary", func() {
				_, err := svc.StartMatch(ctx, match.ByID(m.ID))
				So(err, ShouldBeNil)
				_, err = svc.UpdateMatchScore(ctx, match.ByTeamNames("Mexico", "Canada"), 0, 5)
				So(err, ShouldBeNil)

				So(len(svc.ActiveMatches(ctx)), ShouldEqual, 1)
				So(svc.Summary().String(), ShouldEqual, "1. Mexico 0 - Canada 5")

				leaked := svc.Summary()
				leaked.Entries[0].Rank = 9
				leaked.Entries[0].AwayScore = 0
				So(svc.Summary().String(), ShouldEqual, "1. Mexico 0 - Canada 5")

				_, err = svc.FinishMatch(ctx, match.ByID(m.ID))
				So(err, ShouldBeNil)
				So(svc.Summary().String(), ShouldEqual, "")
				So(svc.Stats().MatchesByStatus[model.StatusFinished], ShouldEqual, 1)
			})

			Convey("And unregistering should keep the summary until refresh", func() {
				_, _ = svc.StartMatch(ctx, match.ByID(m.ID))
				final, err := svc.UnregisterMatch(ctx, match.ByID(m.ID))
				So(err, ShouldBeNil)
				So(final.Status, ShouldEqual, model.StatusUnregistered)
				So(svc.Summary().Len(), ShouldEqual, 1)
				So(svc.RefreshSummary(ctx).Len(), ShouldEqual, 0)
			})

			Convey("And unregistering a team should keep its matches", func() {
				So(svc.UnregisterTeam(ctx, team.ByName("Canada")), ShouldBeNil)
				So(svc.IsMatchRegistered(ctx, match.ByID(m.ID)), ShouldBeTrue)
				So(svc.IsMatchRegistered(ctx, match.ByTeamNames("Mexico", "Canada")), ShouldBeFalse)
			})
		})

		Convey("When an operation is rejected", func() {
			_, err := svc.StartMatch(ctx, match.ByID(7))

			Convey("Then the registry error should be returned", func() {
				So(errors.Is(err, match.ErrNotRegistered), ShouldBeTrue)
			})
		})
	})
}

func TestService_Options(t *testing.T) {
	Convey("Given a service with strict lifecycle and short names", t, func() {
		ctx := context.Background()
		svc := newService(
			service.WithStrictLifecycle(true),
			service.WithTeamNameMaxLength(5),
			service.WithQueueSize(4),
			service.WithDedupeSize(8),
		)

		Convey("Then long names should be rejected", func() {
			_, err := svc.RegisterTeam(ctx, "Netherlands")
			So(errors.Is(err, team.ErrNameInvalid), ShouldBeTrue)
		})

		Convey("Then scoring an unstarted match should be rejected", func() {
			_, _ = svc.RegisterTeam(ctx, "Peru")
			_, _ = svc.RegisterTeam(ctx, "Chile")
			m, err := svc.RegisterMatch(ctx, team.ByName("Peru"), team.ByName("Chile"))
			So(err, ShouldBeNil)
			_, err = svc.UpdateMatchScore(ctx, match.ByID(m.ID), 1, 0)
			So(errors.Is(err, match.ErrInvalidTransition), ShouldBeTrue)
		})
	})
}

func TestService_Apply(t *testing.T) {
	Convey("Given a service", t, func() {
		ctx := context.Background()
		svc := newService()

		Convey("When applying a sequence of feed events", func() {
			events := []model.Event{
				{Kind: model.EventRegisterTeam, Team: "Spain"},
				{Kind: model.EventRegisterTeam, Team: "Brazil"},
				{Kind: model.EventRegisterMatch, Home: "Spain", Away: "Brazil"},
				{Kind: model.EventStartMatch, Home: "Spain", Away: "Brazil"},
				{Kind: model.EventUpdateScore, MatchID: 1, HomeScore: 10, AwayScore: 2},
			}
			for _, e := range events {
				So(svc.Apply(ctx, e), ShouldBeNil)
			}

			Convey("Then the registry should reflect them", func() {
				So(svc.Summary().String(), ShouldEqual, "1. Spain 10 - Brazil 2")
			})

			Convey("And finishing, unregistering the match and a team should apply", func() {
				So(svc.Apply(ctx, model.Event{Kind: model.EventFinishMatch, MatchID: 1}), ShouldBeNil)
				So(svc.Apply(ctx, model.Event{Kind: model.EventUnregisterMatch, Home: "Spain", Away: "Brazil"}), ShouldBeNil)
				So(svc.Apply(ctx, model.Event{Kind: model.EventUnregisterTeam, Team: "Brazil"}), ShouldBeNil)
				So(len(svc.Matches(ctx)), ShouldEqual, 0)
				So(len(svc.Teams(ctx)), ShouldEqual, 1)
			})
		})

		Convey("When applying invalid events", func() {
			errKind := svc.Apply(ctx, model.Event{Kind: "penalty"})
			errData := svc.Apply(ctx, model.Event{Kind: model.EventRegisterTeam})
			errState := svc.Apply(ctx, model.Event{Kind: model.EventStartMatch, MatchID: 3})

			Convey("Then each should report why", func() {
				So(errors.Is(errKind, feed.ErrUnknownKind), ShouldBeTrue)
				So(errors.Is(errData, feed.ErrMissingData), ShouldBeTrue)
				So(errors.Is(errState, match.ErrNotRegistered), ShouldBeTrue)
			})
		})
	})
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		ctx := context.Background()
		svc := newService()
		defer svc.Stop()

		Convey("When submitting before start", func() {
			_, err := svc.Submit(ctx, model.Event{Kind: model.EventRegisterTeam, Team: "Peru"})

			Convey("Then it should be refused", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
				So(errors.Is(svc.Drain(ctx), service.ErrNotStarted), ShouldBeTrue)
			})
		})

		Convey("When starting the service twice", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then it should be marked as started", func() {
				So(svc.Stats().Started, ShouldBeTrue)
			})

			Convey("And stopping should mark it stopped", func() {
				svc.Stop()
				svc.Stop()
				So(svc.Stats().Started, ShouldBeFalse)
			})
		})
	})
}
