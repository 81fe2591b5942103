// Package service composes the team registry, the match registry and the
// scoreboard into one façade, and runs the feed pipeline that applies
// queued events to it.
package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	eventqueue "github.com/okian/scoreboard/internal/adapters/mq/queue"
	feedworker "github.com/okian/scoreboard/internal/adapters/mq/worker"
	"github.com/okian/scoreboard/internal/domain/dedupe"
	"github.com/okian/scoreboard/internal/domain/match"
	"github.com/okian/scoreboard/internal/domain/model"
	"github.com/okian/scoreboard/internal/domain/scoreboard"
	"github.com/okian/scoreboard/internal/domain/team"
	"github.com/okian/scoreboard/pkg/logger"
)

const stopTimeout = 5 * time.Second

// Service is the scoreboard façade. Registry operations work as soon as the
// service is built; feed submission needs Start.
type Service struct {
	mu sync.RWMutex

	// Core components
	teams   *team.Registry
	matches *match.Registry
	board   *scoreboard.Board

	// Feed pipeline, present while started
	deduper dedupe.Deduper
	queue   eventqueue.Queue
	worker  *feedworker.InMemoryWorker
	cancel  context.CancelFunc

	// Configuration
	queueSize         int
	dedupeSize        int
	teamNameMaxLength int
	strictLifecycle   bool
	now               func() time.Time

	// Feed counters; applied and failed carry over from stopped workers.
	applied    atomic.Int64
	failed     atomic.Int64
	duplicates atomic.Int64
	rejected   atomic.Int64

	started bool
	logger  logger.Logger
}

// New constructs a Service with empty registries.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:         1024,
		dedupeSize:        dedupe.DefaultMaxSize,
		teamNameMaxLength: team.DefaultMaxNameLength,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("scoreboard")
	}

	s.teams = team.New(team.WithMaxNameLength(s.teamNameMaxLength))
	s.matches = match.New(s.teams,
		match.WithClock(s.now),
		match.WithStrictLifecycle(s.strictLifecycle),
	)
	s.board = scoreboard.New(s.matches)
	s.deduper = dedupe.New(dedupe.WithMaxSize(s.dedupeSize))
	return s
}

// Start launches the feed worker. Starting a started service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.worker = feedworker.NewInMemoryWorker(s.queue, s,
		feedworker.WithName("feed"),
		feedworker.WithLogger(s.logger.Named("feed")),
	)

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	go s.worker.Run(runCtx)

	s.started = true
	s.logger.Info(ctx, "scoreboard service started",
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Bool("strictLifecycle", s.strictLifecycle),
	)
	return nil
}

// Stop halts the feed worker. Events still queued may be dropped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		s.stopLocked()
	}
}

// stopLocked must be called with s.mu held while started.
func (s *Service) stopLocked() {
	_ = s.queue.Close()

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	if err := s.worker.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "feed worker did not stop cleanly", logger.Error(err))
	}
	s.release()
	s.logger.Info(ctx, "scoreboard service stopped")
}

// Drain stops accepting feed events, waits until every queued event has
// been applied, then stops the service.
func (s *Service) Drain(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return ErrNotStarted
	}
	_ = s.queue.Close()
	w := s.worker
	s.mu.Unlock()

	select {
	case <-w.Done():
		s.finishDrain(ctx, w, false)
		return nil
	case <-ctx.Done():
		s.finishDrain(ctx, w, true)
		return fmt.Errorf("drain feed: %w", ctx.Err())
	}
}

// finishDrain tears down w unless a concurrent Stop and Start already
// replaced it. It reports whether w was torn down.
func (s *Service) finishDrain(ctx context.Context, w *feedworker.InMemoryWorker, abort bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || s.worker != w {
		return false
	}
	if abort {
		s.stopLocked()
		return true
	}
	s.release()
	s.logger.Info(ctx, "feed drained")
	return true
}

// release must be called with s.mu held and the worker stopped.
func (s *Service) release() {
	st := s.worker.Stats()
	s.applied.Add(st.Applied)
	s.failed.Add(st.Failed)
	s.cancel()
	s.queue, s.worker, s.cancel = nil, nil, nil
	s.started = false
}

// Stats summarizes registry and feed state.
type Stats struct {
	Started         bool
	Teams           int
	MatchesByStatus map[model.Status]int
	ActiveMatches   int
	QueueLength     int
	DedupeSize      int
	FeedApplied     int64
	FeedFailed      int64
	FeedDuplicates  int64
	FeedRejected    int64
}

// Stats returns a point-in-time view of the service.
func (s *Service) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	byStatus := s.matches.CountByStatus(ctx)
	st := Stats{
		Started:         s.started,
		Teams:           s.teams.Count(ctx),
		MatchesByStatus: byStatus,
		ActiveMatches:   byStatus[model.StatusInProgress],
		DedupeSize:      s.deduper.Size(),
		FeedApplied:     s.applied.Load(),
		FeedFailed:      s.failed.Load(),
		FeedDuplicates:  s.duplicates.Load(),
		FeedRejected:    s.rejected.Load(),
	}
	if s.started {
		ws := s.worker.Stats()
		st.FeedApplied += ws.Applied
		st.FeedFailed += ws.Failed
		st.QueueLength = s.queue.Len(ctx)
	}
	return st
}
