// Package queue buffers feed events between submission and the worker that
// applies them.
package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/scoreboard/internal/domain/model"
	"github.com/okian/scoreboard/pkg/metrics"
)

const defaultCapacity = 1024

// Event is the payload flowing through the queue.
type Event = model.Event

// Queue provides non-blocking enqueue and channel-based, in-order dequeue.
type Queue interface {
	// Enqueue adds an event. It fails with ErrFull when the queue is at
	// capacity and ErrClosed after Close.
	Enqueue(ctx context.Context, e Event) error

	// Dequeue returns a channel of queued events in submission order. The
	// channel is closed once the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Event

	Len(ctx context.Context) int

	// Close stops accepting events; queued events are still delivered.
	Close() error
}

// InMemoryQueue implements Queue on a buffered channel.
type InMemoryQueue struct {
	events   chan Event
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a queue holding up to the configured capacity.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.events = make(chan Event, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueDepth(0)
	return q
}

// Enqueue adds an event without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, e Event) error { //nolint:gocritic // hugeParam: channel element
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordErrorByComponent("queue", "closed")
		return fmt.Errorf("event %s: %w", e.ID, ErrClosed)
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return fmt.Errorf("event %s: %w", e.ID, err)
	}

	select {
	case q.events <- e:
		metrics.UpdateQueueDepth(len(q.events))
		return nil
	default:
		metrics.RecordErrorByComponent("queue", "full")
		return fmt.Errorf("event %s: %w", e.ID, ErrFull)
	}
}

// Dequeue forwards queued events until the queue is drained after Close or
// ctx is cancelled.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)
		for event := range q.events {
			select {
			case out <- event:
				metrics.UpdateQueueDepth(len(q.events))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the number of events waiting.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	return len(q.events)
}

// Close stops accepting events. Events already queued are still delivered.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.events)
	q.closed = true
	return nil
}
