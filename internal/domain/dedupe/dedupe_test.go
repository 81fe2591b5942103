package dedupe_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/okian/scoreboard/internal/domain/dedupe"
	"github.com/sourcegraph/conc"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new deduper", t, func() {
		ctx := context.Background()

		Convey("When recording events", func() {
			d := dedupe.New()

			Convey("And the event is new", func() {
				seen := d.SeenAndRecord(ctx, "event-1")

				Convey("Then it should return false and record the event", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the event was already seen", func() {
				d.SeenAndRecord(ctx, "event-1")
				seen := d.SeenAndRecord(ctx, "event-1")

				Convey("Then it should return true", func() {
					So(seen, ShouldBeTrue)
					So(d.Size(), ShouldEqual, 1)
				})
			})
		})

		Convey("When unrecording an event", func() {
			d := dedupe.New()
			d.SeenAndRecord(ctx, "event-1")
			d.Unrecord(ctx, "event-1")
			d.Unrecord(ctx, "nonexistent")

			Convey("Then it should be accepted again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "event-1"), ShouldBeFalse)
			})
		})

		Convey("When the bounded deduper is at capacity", func() {
			d := dedupe.New(dedupe.WithMaxSize(3))
			for _, id := range []string{"event-1", "event-2", "event-3"} {
				So(d.SeenAndRecord(ctx, id), ShouldBeFalse)
			}
			So(d.SeenAndRecord(ctx, "event-4"), ShouldBeFalse)

			Convey("Then the oldest id should be evicted first", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "event-4"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "event-3"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "event-2"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "event-1"), ShouldBeFalse)
				So(d.Size(), ShouldEqual, 3)
			})
		})

		Convey("When an id is unrecorded and recorded again in a full deduper", func() {
			d := dedupe.New(dedupe.WithMaxSize(2))
			d.SeenAndRecord(ctx, "a")
			d.SeenAndRecord(ctx, "b")
			d.Unrecord(ctx, "a")
			d.SeenAndRecord(ctx, "a")

			Convey("Then evicting its stale slot should keep the fresh record", func() {
				So(d.SeenAndRecord(ctx, "a"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "c"), ShouldBeFalse)
				So(d.SeenAndRecord(ctx, "a"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 2)
			})
		})

		Convey("When eviction is disabled", func() {
			d := dedupe.New(dedupe.WithMaxSize(0))
			const n = 1000
			for i := 0; i < n; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("event-%d", i))
			}

			Convey("Then every id should be remembered", func() {
				So(d.Size(), ShouldEqual, n)
				So(d.SeenAndRecord(ctx, "event-0"), ShouldBeTrue)
			})
		})
	})
}

func TestDedupeConcurrency(t *testing.T) {
	Convey("Given callers racing on the same ids", t, func() {
		ctx := context.Background()
		d := dedupe.New(dedupe.WithMaxSize(1000))
		const goroutines = 10
		const ids = 100

		fresh := make([]int, goroutines)
		var wg conc.WaitGroup
		for g := 0; g < goroutines; g++ {
			wg.Go(func() {
				for i := 0; i < ids; i++ {
					if !d.SeenAndRecord(ctx, fmt.Sprintf("event-%d", i)) {
						fresh[g]++
					}
				}
			})
		}
		wg.Wait()

		Convey("Then each id should be new exactly once", func() {
			total := 0
			for _, n := range fresh {
				total += n
			}
			So(total, ShouldEqual, ids)
			So(d.Size(), ShouldEqual, ids)
		})
	})
}
