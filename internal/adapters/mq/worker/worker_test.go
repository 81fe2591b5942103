package worker_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	worker "github.com/okian/scoreboard/internal/adapters/mq/worker"
	model "github.com/okian/scoreboard/internal/domain/model"
	logging "github.com/okian/scoreboard/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type mockQueue struct {
	eventChan chan model.Event
}

func newMockQueue() *mockQueue {
	return &mockQueue{eventChan: make(chan model.Event, 10)}
}

func (mq *mockQueue) Dequeue(ctx context.Context) <-chan model.Event {
	return mq.eventChan
}

func (mq *mockQueue) addEvent(event model.Event) { //nolint:gocritic // hugeParam: channel element
	mq.eventChan <- event
}

type mockApplier struct {
	mu      sync.Mutex
	applied []string
	fail    map[string]error
}

func newMockApplier() *mockApplier {
	return &mockApplier{fail: make(map[string]error)}
}

func (ma *mockApplier) Apply(ctx context.Context, e model.Event) error { //nolint:gocritic // hugeParam: interface contract
	ma.mu.Lock()
	defer ma.mu.Unlock()
	if err, ok := ma.fail[e.ID]; ok {
		return err
	}
	ma.applied = append(ma.applied, e.ID)
	return nil
}

func (ma *mockApplier) appliedIDs() []string {
	ma.mu.Lock()
	defer ma.mu.Unlock()
	return append([]string(nil), ma.applied...)
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker over a queue", t, func() {
		_ = logging.InitWithWriter(io.Discard)

		queue := newMockQueue()
		applier := newMockApplier()
		w := worker.NewInMemoryWorker(queue, applier, worker.WithName("test-worker"))

		convey.Convey("When the queue is drained and closed", func() {
			queue.addEvent(model.Event{ID: "e1", Kind: model.EventRegisterTeam, Team: "Spain"})
			queue.addEvent(model.Event{ID: "e2", Kind: model.EventRegisterTeam, Team: "Brazil"})
			queue.addEvent(model.Event{ID: "e3", Kind: model.EventRegisterMatch, Home: "Spain", Away: "Brazil"})
			close(queue.eventChan)

			w.Run(context.Background())

			convey.Convey("Then every event should be applied in order", func() {
				convey.So(applier.appliedIDs(), convey.ShouldResemble, []string{"e1", "e2", "e3"})
				convey.So(w.Stats(), convey.ShouldResemble, worker.Stats{Applied: 3})
			})
		})

		convey.Convey("When an event fails to apply", func() {
			applier.fail["bad"] = errors.New("match ID '9' not registered")
			queue.addEvent(model.Event{ID: "bad", Kind: model.EventStartMatch, MatchID: 9})
			queue.addEvent(model.Event{ID: "good", Kind: model.EventRegisterTeam, Team: "Peru"})
			close(queue.eventChan)

			w.Run(context.Background())

			convey.Convey("Then the worker should count it and keep going", func() {
				convey.So(applier.appliedIDs(), convey.ShouldResemble, []string{"good"})
				convey.So(w.Stats(), convey.ShouldResemble, worker.Stats{Applied: 1, Failed: 1})
			})
		})

		convey.Convey("When shutting down a running worker", func() {
			go w.Run(context.Background())

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			err := w.Shutdown(ctx)

			convey.Convey("Then Run should return and a second shutdown should fail", func() {
				convey.So(err, convey.ShouldBeNil)
				<-w.Done()
				convey.So(errors.Is(w.Shutdown(ctx), worker.ErrStopped), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			go w.Run(ctx)
			cancel()

			convey.Convey("Then Run should return", func() {
				select {
				case <-w.Done():
				case <-time.After(time.Second):
					convey.So("worker did not stop", convey.ShouldBeEmpty)
				}
			})
		})
	})
}
