package speedrun_test

import (
	"testing"
	"time"

	rules "github.com/acc-is-sponge/beat-speedrun-mod/internal/domain/rules"
	"github.com/acc-is-sponge/beat-speedrun-mod/internal/domain/speedrun"
	. "github.com/smartystreets/goconvey/convey"
)

var runStart = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newProgress(target *rules.Segment) *speedrun.Progress {
	return speedrun.NewProgress(runStart, time.Hour, target, rules.DefaultSegmentRequirements())
}

func TestProgressThresholds(t *testing.T) {
	Convey("Given a fresh progress tracker", t, func() {
		progress := newProgress(nil)

		Convey("Then the start sentinel is reached at zero", func() {
			segments := progress.Segments()
			So(segments[0].Segment, ShouldEqual, rules.SegmentStart)
			reached, ok := segments[0].ReachedAt()
			So(ok, ShouldBeTrue)
			So(reached, ShouldEqual, time.Duration(0))
		})

		Convey("And thresholds are sorted ascending by required pp", func() {
			segments := progress.Segments()
			for i := 1; i < len(segments); i++ {
				So(segments[i].RequiredPP, ShouldBeGreaterThanOrEqualTo, segments[i-1].RequiredPP)
			}
		})

		Convey("When the total crosses several thresholds at once", func() {
			at := runStart.Add(10 * time.Minute)
			progress.Update(at, func() float64 { return 2500 })

			Convey("Then every satisfied threshold is reached at that instant", func() {
				segments := progress.Segments()
				bronze, silver := segments[1], segments[2]
				So(bronze.Segment, ShouldEqual, rules.SegmentBronze)

				reached, ok := bronze.ReachedAt()
				So(ok, ShouldBeTrue)
				So(reached, ShouldEqual, 10*time.Minute)

				reached, ok = silver.ReachedAt()
				So(ok, ShouldBeTrue)
				So(reached, ShouldEqual, 10*time.Minute)

				_, ok = segments[3].ReachedAt()
				So(ok, ShouldBeFalse)
			})

			Convey("And the current segment advances", func() {
				So(progress.CurrentSegment().Segment, ShouldEqual, rules.SegmentSilver)
				next, ok := progress.NextSegment()
				So(ok, ShouldBeTrue)
				So(next.Segment, ShouldEqual, rules.SegmentGold)
			})

			Convey("And a later lower total never resets a reached time", func() {
				progress.Update(runStart.Add(20*time.Minute), func() float64 { return 0 })
				reached, ok := progress.Segments()[2].ReachedAt()
				So(ok, ShouldBeTrue)
				So(reached, ShouldEqual, 10*time.Minute)
			})
		})
	})
}

func TestProgressStates(t *testing.T) {
	Convey("Given a tracker without a target", t, func() {
		progress := newProgress(nil)

		Convey("It is running before the limit", func() {
			now := runStart.Add(30 * time.Minute)
			So(progress.State(now), ShouldEqual, speedrun.StateRunning)
			So(progress.ElapsedTime(now), ShouldEqual, 30*time.Minute)
		})

		Convey("Time is up at and after the limit", func() {
			So(progress.State(runStart.Add(time.Hour)), ShouldEqual, speedrun.StateTimeIsUp)
			So(progress.State(runStart.Add(2*time.Hour)), ShouldEqual, speedrun.StateTimeIsUp)
			So(progress.ElapsedTime(runStart.Add(2*time.Hour)), ShouldEqual, time.Hour)

			Convey("And updates past the limit are ignored", func() {
				called := false
				progress.Update(runStart.Add(time.Hour), func() float64 {
					called = true
					return 9999
				})
				So(called, ShouldBeFalse)
				So(progress.CurrentSegment().Segment, ShouldEqual, rules.SegmentStart)
			})
		})

		Convey("Finishing freezes the elapsed time", func() {
			finish := runStart.Add(45 * time.Minute)
			progress.Finish(finish)

			now := runStart.Add(50 * time.Minute)
			So(progress.State(now), ShouldEqual, speedrun.StateFinished)
			So(progress.ElapsedTime(now), ShouldEqual, 45*time.Minute)

			Convey("And finishing again is a no-op", func() {
				progress.Finish(runStart.Add(55 * time.Minute))
				finishedAt, ok := progress.FinishedAt()
				So(ok, ShouldBeTrue)
				So(finishedAt.Equal(finish), ShouldBeTrue)
			})

			Convey("And updates after the finish are ignored", func() {
				progress.Update(runStart.Add(50*time.Minute), func() float64 { return 9999 })
				So(progress.CurrentSegment().Segment, ShouldEqual, rules.SegmentStart)
			})
		})
	})

	Convey("Given a tracker targeting Bronze", t, func() {
		target := rules.SegmentBronze
		progress := newProgress(&target)

		Convey("Reaching the target freezes advancement and elapsed time", func() {
			at := runStart.Add(20 * time.Minute)
			progress.Update(at, func() float64 { return 1500 })

			So(progress.TargetReached(), ShouldBeTrue)
			So(progress.State(runStart.Add(40*time.Minute)), ShouldEqual, speedrun.StateTargetReached)
			So(progress.ElapsedTime(runStart.Add(40*time.Minute)), ShouldEqual, 20*time.Minute)

			_, ok := progress.NextSegment()
			So(ok, ShouldBeFalse)

			Convey("And later updates are ignored even with a higher total", func() {
				progress.Update(runStart.Add(30*time.Minute), func() float64 { return 5000 })
				So(progress.CurrentSegment().Segment, ShouldEqual, rules.SegmentBronze)
			})

			Convey("And target-reached wins over a simultaneous time expiry", func() {
				So(progress.State(runStart.Add(time.Hour)), ShouldEqual, speedrun.StateTargetReached)
				So(progress.ElapsedTime(runStart.Add(time.Hour)), ShouldEqual, 20*time.Minute)
			})
		})
	})
}
