// Package worker applies queued feed events to the scoreboard.
package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/okian/scoreboard/internal/domain/model"
	"github.com/okian/scoreboard/pkg/logger"
	"github.com/okian/scoreboard/pkg/metrics"
)

// Applier applies one feed event.
type Applier interface {
	Apply(ctx context.Context, e model.Event) error
}

// Queue defines how the worker receives events.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.Event
}

// Stats counts the events a worker has handled.
type Stats struct {
	Applied int64
	Failed  int64
}

// InMemoryWorker is a single consumer, so events are applied in the order
// they were queued.
type InMemoryWorker struct {
	queue   Queue
	applier Applier
	name    string

	applied atomic.Int64
	failed  atomic.Int64

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker reading from queue and applying to applier.
func NewInMemoryWorker(queue Queue, applier Applier, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		applier:  applier,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run consumes events until the queue is drained and closed, ctx is
// cancelled, or Shutdown is called.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	events := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			w.process(ctx, event)
		}
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

// Shutdown stops the worker and waits for Run to return.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	stopped := true
	w.shutdownOnce.Do(func() {
		close(w.shutdown)
		stopped = false
	})
	if stopped {
		return ErrStopped
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Stats returns the counts so far.
func (w *InMemoryWorker) Stats() Stats {
	return Stats{Applied: w.applied.Load(), Failed: w.failed.Load()}
}

func (w *InMemoryWorker) process(ctx context.Context, event model.Event) { //nolint:gocritic // hugeParam: channel element
	if err := w.applier.Apply(ctx, event); err != nil {
		w.failed.Add(1)
		metrics.RecordFeedEvent(metrics.FeedFailed)
		metrics.RecordErrorByComponent("worker", string(event.Kind))
		w.logger.Warn(ctx, "feed event rejected",
			logger.String("event_id", event.ID),
			logger.String("kind", string(event.Kind)),
			logger.Error(err),
		)
		return
	}
	w.applied.Add(1)
	metrics.RecordFeedEvent(metrics.FeedApplied)
	w.logger.Debug(ctx, "feed event applied",
		logger.String("event_id", event.ID),
		logger.String("kind", string(event.Kind)),
	)
}
