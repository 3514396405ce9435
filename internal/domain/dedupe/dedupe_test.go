package dedupe_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/solen/qflick/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a fresh deduper", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper()

		Convey("When recording a new request ID", func() {
			seen := d.SeenAndRecord(ctx, "req-1")

			Convey("Then it should not be seen yet", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And recording it again should report a duplicate", func() {
				So(d.SeenAndRecord(ctx, "req-1"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When unrecording an ID", func() {
			d.SeenAndRecord(ctx, "req-2")
			d.Unrecord(ctx, "req-2")

			Convey("Then it can be recorded again", func() {
				So(d.SeenAndRecord(ctx, "req-2"), ShouldBeFalse)
			})
		})

		Convey("When unrecording an unknown ID", func() {
			d.Unrecord(ctx, "never-seen")

			Convey("Then size stays untouched", func() {
				So(d.Size(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a deduper bounded to 3 entries", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))

		Convey("When recording more IDs than the bound", func() {
			for i := 0; i < 5; i++ {
				So(d.SeenAndRecord(ctx, fmt.Sprintf("req-%d", i)), ShouldBeFalse)
			}

			Convey("Then the oldest entries should be evicted FIFO", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "req-0"), ShouldBeFalse) // evicted, records anew
				So(d.SeenAndRecord(ctx, "req-4"), ShouldBeTrue)  // still held
			})
		})
	})
}
