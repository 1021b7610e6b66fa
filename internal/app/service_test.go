package service_test

import (
	"context"
	"testing"
	"time"

	service "github.com/acc-is-sponge/beat-speedrun-mod/internal/app"
	"github.com/acc-is-sponge/beat-speedrun-mod/internal/adapters/repository"
	"github.com/acc-is-sponge/beat-speedrun-mod/internal/domain/leaderboard"
	"github.com/acc-is-sponge/beat-speedrun-mod/internal/domain/rules"
	"github.com/acc-is-sponge/beat-speedrun-mod/internal/domain/speedrun"
	"github.com/acc-is-sponge/beat-speedrun-mod/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

const serviceRuleSetDoc = `{
	"version": 1,
	"title": "Service Rules",
	"rules": {
		"catalog": "service-catalog",
		"base": 1,
		"curve": [[0, 0], [1, 1]],
		"weight": 0.9,
		"timeLimit": 3600,
		"segmentRequirements": {
			"bronze": 30,
			"silver": 200,
			"gold": 300,
			"platinum": 400,
			"emerald": 500,
			"sapphire": 600,
			"ruby": 700,
			"diamond": 800,
			"master": 900,
			"grandmaster": 1000
		}
	}
}`

const serviceCatalogDoc = `{
	"song-a": {"expert": 10},
	"song-b": {"expert": 20},
	"song-c": {"expert": 50}
}`

var serviceStart = time.Date(2024, 7, 20, 14, 0, 0, 0, time.UTC)

// fixedClock advances only when the test moves it.
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func newService(t *testing.T, opts ...service.Option) (*service.Service, *fixedClock) {
	rs, err := rules.ParseRuleSet([]byte(serviceRuleSetDoc))
	So(err, ShouldBeNil)
	catalog, err := rules.ParseSongCatalog([]byte(serviceCatalogDoc))
	So(err, ShouldBeNil)
	store, err := repository.NewFileStore(t.TempDir())
	So(err, ShouldBeNil)

	clock := &fixedClock{now: serviceStart}
	opts = append([]service.Option{service.WithClock(clock.Now)}, opts...)
	return service.New("service/rules.json", rs, catalog, store, store, opts...), clock
}

func play(song string, accuracy float64, at time.Time) speedrun.Result {
	return speedrun.Result{
		CompletedAt:  at,
		Song:         song,
		Difficulty:   "expert",
		BaseAccuracy: accuracy,
	}
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a fresh facilitator", t, func() {
		ctx := context.Background()
		svc, clock := newService(t)

		Convey("Submitting without an active run fails", func() {
			_, err := svc.Submit(ctx, play("song-a", 1, clock.Now()))
			So(err, ShouldWrap, service.ErrNoActiveRun)
		})

		Convey("When a run is started", func() {
			run, err := svc.Start(ctx, nil)
			So(err, ShouldBeNil)
			So(run, ShouldNotBeNil)
			So(svc.Current(), ShouldEqual, run)

			Convey("Starting again while it is active fails", func() {
				_, err := svc.Start(ctx, nil)
				So(err, ShouldWrap, service.ErrRunInProgress)
			})

			Convey("Submitted results are scored and persisted", func() {
				clock.now = serviceStart.Add(5 * time.Minute)
				scored, err := svc.Submit(ctx, play("song-c", 1, clock.Now()))
				So(err, ShouldBeNil)
				So(scored.PP, ShouldAlmostEqual, 50)
				So(run.TotalPP(), ShouldAlmostEqual, 50)
				So(run.Progress().CurrentSegment().Segment, ShouldEqual, rules.SegmentBronze)
			})

			Convey("Stopping a run with results writes the leaderboard", func() {
				clock.now = serviceStart.Add(5 * time.Minute)
				_, err := svc.Submit(ctx, play("song-c", 1, clock.Now()))
				So(err, ShouldBeNil)

				clock.now = serviceStart.Add(30 * time.Minute)
				So(svc.Stop(ctx), ShouldBeNil)
				So(svc.Current(), ShouldBeNil)

				ranked, err := svc.Leaderboard(ctx, "Total pp", leaderboard.SortBest)
				So(err, ShouldBeNil)
				So(len(ranked), ShouldEqual, 1)
				So(ranked[0].RunID, ShouldEqual, run.ID())
				So(ranked[0].Rank, ShouldEqual, 1)
				So(ranked[0].Value, ShouldAlmostEqual, 50)
			})

			Convey("Stopping a run with no results discards it", func() {
				So(svc.Stop(ctx), ShouldBeNil)
				So(svc.Current(), ShouldBeNil)

				ids, err := svc.SavedRuns(ctx)
				So(err, ShouldBeNil)
				So(ids, ShouldBeEmpty)
			})
		})
	})
}

func TestServiceResume(t *testing.T) {
	Convey("Given a run that was saved mid-flight", t, func() {
		ctx := context.Background()
		svc, clock := newService(t)

		run, err := svc.Start(ctx, nil)
		So(err, ShouldBeNil)
		clock.now = serviceStart.Add(2 * time.Minute)
		_, err = svc.Submit(ctx, play("song-b", 1, clock.Now()))
		So(err, ShouldBeNil)

		Convey("Resuming while it is still active fails", func() {
			_, err := svc.Resume(ctx, run.ID())
			So(err, ShouldWrap, service.ErrRunInProgress)
		})

		Convey("Resuming an id that was never saved fails", func() {
			fresh, _ := newService(t)
			_, err := fresh.Resume(ctx, run.ID())
			So(err, ShouldWrap, repository.ErrRunNotFound)
		})

		Convey("After the run is stopped, Resume restores the same state", func() {
			clock.now = serviceStart.Add(10 * time.Minute)
			So(svc.Stop(ctx), ShouldBeNil)

			restored, err := svc.Resume(ctx, run.ID())
			So(err, ShouldBeNil)
			So(restored.TotalPP(), ShouldAlmostEqual, 20)
			So(len(restored.Results()), ShouldEqual, 1)
		})
	})
}

func TestServiceAutoStop(t *testing.T) {
	Convey("Given a facilitator that stops on target", t, func() {
		ctx := context.Background()
		svc, clock := newService(t, service.WithAutoStopOnTarget(true))

		target := rules.SegmentBronze
		run, err := svc.Start(ctx, &target)
		So(err, ShouldBeNil)

		Convey("Reaching the target finishes the run immediately", func() {
			clock.now = serviceStart.Add(5 * time.Minute)
			scored, err := svc.Submit(ctx, play("song-c", 1, clock.Now()))
			So(err, ShouldBeNil)
			So(scored, ShouldNotBeNil)

			So(svc.Current(), ShouldBeNil)
			_, finished := run.Progress().FinishedAt()
			So(finished, ShouldBeTrue)
		})
	})
}

func TestServiceUnknownIndex(t *testing.T) {
	Convey("Given a facilitator", t, func() {
		ctx := context.Background()
		svc, _ := newService(t)

		Convey("Querying an unregistered index fails", func() {
			_, err := svc.Leaderboard(ctx, "No such index", leaderboard.SortBest)
			So(err, ShouldWrap, service.ErrUnknownIndex)
		})

		Convey("BestRecords works on an empty board", func() {
			bests, err := svc.BestRecords(ctx, leaderboard.GroupStats, leaderboard.SortBest)
			So(err, ShouldBeNil)
			So(len(bests), ShouldBeGreaterThan, 0)
			for _, best := range bests {
				So(best.Best, ShouldBeNil)
			}
		})
	})
}
