// Package service provides the run facilitator: the single entry point
// the host uses to start, resume, play, and stop speedruns, and to read
// local leaderboards.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	repository "github.com/acc-is-sponge/beat-speedrun-mod/internal/adapters/repository"
	"github.com/acc-is-sponge/beat-speedrun-mod/internal/domain/leaderboard"
	"github.com/acc-is-sponge/beat-speedrun-mod/internal/domain/rules"
	"github.com/acc-is-sponge/beat-speedrun-mod/internal/domain/speedrun"
	"github.com/acc-is-sponge/beat-speedrun-mod/pkg/logger"
	"github.com/acc-is-sponge/beat-speedrun-mod/pkg/metrics"
)

// Clock supplies wall-clock time. Swappable in tests.
type Clock func() time.Time

// Service drives at most one active run at a time over the configured
// rule documents and persists every state change through the stores.
// All methods are safe for concurrent use; run mutations are serialized
// behind the mutex.
type Service struct {
	mu sync.Mutex

	ruleSetRef string
	ruleSet    *rules.RuleSet
	catalog    *rules.SongCatalog

	runs     repository.RunStore
	boards   repository.BoardStore
	registry *leaderboard.Registry

	clock    Clock
	autoStop bool
	logger   logger.Logger

	current *speedrun.Speedrun
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the wall-clock source.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithRegistry sets the leaderboard index registry.
func WithRegistry(registry *leaderboard.Registry) Option {
	return func(s *Service) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// WithAutoStopOnTarget stops the active run as soon as its target
// segment is reached.
func WithAutoStopOnTarget(enabled bool) Option {
	return func(s *Service) {
		s.autoStop = enabled
	}
}

// New constructs a Service over the given rule documents and stores.
func New(ruleSetRef string, ruleSet *rules.RuleSet, catalog *rules.SongCatalog, runs repository.RunStore, boards repository.BoardStore, opts ...Option) *Service {
	s := &Service{
		ruleSetRef: ruleSetRef,
		ruleSet:    ruleSet,
		catalog:    catalog,
		runs:       runs,
		boards:     boards,
		registry:   leaderboard.NewRegistry(),
		clock:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		_ = logger.Init()
		s.logger = logger.Named("service")
	}

	return s
}

// Start begins a new run, optionally aiming for a target segment, and
// saves it immediately. Fails with ErrRunInProgress while another run
// is active.
func (s *Service) Start(ctx context.Context, target *rules.Segment) (*speedrun.Speedrun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		return nil, fmt.Errorf("%w: %s", ErrRunInProgress, s.current.ID())
	}

	now := s.clock()
	run, err := speedrun.New(uuid.NewString(), now, s.ruleSetRef, s.ruleSet, s.catalog, target)
	if err != nil {
		return nil, err
	}
	if err := s.runs.SaveRun(ctx, run); err != nil {
		return nil, err
	}

	s.current = run
	metrics.RecordRunStarted()
	fields := []logger.Field{
		logger.String("run", run.ID()),
		logger.String("ruleSet", s.ruleSet.Title),
		logger.Duration("timeLimit", run.Progress().TimeLimit()),
	}
	if target != nil {
		fields = append(fields, logger.String("target", target.String()))
	}
	s.logger.Info(ctx, "run started", fields...)
	return run, nil
}

// Resume restores a saved run and makes it the active run. Fails with
// ErrRunInProgress while another run is active.
func (s *Service) Resume(ctx context.Context, id string) (*speedrun.Speedrun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		return nil, fmt.Errorf("%w: %s", ErrRunInProgress, s.current.ID())
	}

	run, err := s.runs.LoadRun(ctx, id, s.ruleSet, s.catalog)
	if err != nil {
		return nil, err
	}

	s.current = run
	metrics.RecordRunResumed()
	s.logger.Info(ctx, "run resumed",
		logger.String("run", run.ID()),
		logger.Float64("totalPp", run.TotalPP()),
		logger.Int("results", len(run.Results())),
	)
	return run, nil
}

// Submit applies a play result to the active run and saves the run.
// The scored result is nil when the run was already finished and the
// submission was ignored.
func (s *Service) Submit(ctx context.Context, result speedrun.Result) (*speedrun.ScoredResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run := s.current
	if run == nil {
		return nil, ErrNoActiveRun
	}

	metrics.RecordResultSubmitted()
	before := run.Progress().CurrentSegment().Segment

	started := time.Now()
	scored := run.AddResult(result)
	metrics.RecordAggregationLatency(float64(time.Since(started).Milliseconds()))

	if scored == nil {
		metrics.RecordResultIgnored("finished")
		s.logger.Debug(ctx, "result ignored, run already finished",
			logger.String("run", run.ID()),
			logger.String("song", result.Song),
		)
		return nil, nil
	}
	if scored.PP <= 0 {
		metrics.RecordResultIgnored("unrated")
	}

	metrics.UpdateTotalPP(run.TotalPP())
	metrics.UpdateTopScoreCount(len(run.TopScores()))

	after := run.Progress().CurrentSegment().Segment
	for segment := before + 1; segment <= after; segment++ {
		metrics.RecordSegmentReached(segment.String())
		s.logger.Info(ctx, "segment reached",
			logger.String("run", run.ID()),
			logger.String("segment", segment.String()),
			logger.Float64("totalPp", run.TotalPP()),
		)
	}

	if err := s.runs.SaveRun(ctx, run); err != nil {
		return scored, err
	}

	if s.autoStop && run.Progress().TargetReached() {
		if err := s.stopLocked(ctx); err != nil {
			return scored, err
		}
	}
	return scored, nil
}

// Stop finishes the active run. A run with no results is discarded
// instead of finished; otherwise the run is frozen, written to its
// leaderboard, and saved. Fails with ErrNoActiveRun when nothing is
// active.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopLocked(ctx)
}

func (s *Service) stopLocked(ctx context.Context) error {
	run := s.current
	if run == nil {
		return ErrNoActiveRun
	}

	if len(run.Results()) == 0 {
		s.current = nil
		s.logger.Info(ctx, "empty run discarded", logger.String("run", run.ID()))
		return s.runs.DeleteRun(ctx, run.ID())
	}

	now := s.clock()
	run.Finish(now)
	if err := s.runs.SaveRun(ctx, run); err != nil {
		return err
	}

	board, err := s.boards.Board(ctx, s.ruleSet.CompatibilityKey())
	if err != nil {
		return err
	}
	if err := board.Write(s.registry, run, now); err != nil {
		metrics.RecordLeaderboardError()
		return err
	}
	if err := s.boards.SaveBoard(ctx, board); err != nil {
		return err
	}

	s.current = nil
	metrics.RecordRunFinished()
	metrics.RecordLeaderboardWrite()
	s.logger.Info(ctx, "run finished",
		logger.String("run", run.ID()),
		logger.Float64("totalPp", run.TotalPP()),
		logger.Duration("elapsed", run.Progress().ElapsedTime(now)),
		logger.String("segment", run.Progress().CurrentSegment().Segment.String()),
	)
	return nil
}

// Save persists the active run's snapshot without changing its state.
func (s *Service) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return ErrNoActiveRun
	}
	return s.runs.SaveRun(ctx, s.current)
}

// Current returns the active run, or nil when none is active.
func (s *Service) Current() *speedrun.Speedrun {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SavedRuns lists the ids of every saved run.
func (s *Service) SavedRuns(ctx context.Context) ([]string, error) {
	return s.runs.ListRuns(ctx)
}

// Registry returns the leaderboard index registry in use.
func (s *Service) Registry() *leaderboard.Registry {
	return s.registry
}

// Leaderboard returns ranked records for one index of the current rule
// set's leaderboard. Fails with ErrUnknownIndex for an unregistered key.
func (s *Service) Leaderboard(ctx context.Context, indexKey string, sort leaderboard.Sort) ([]leaderboard.RankedRecord, error) {
	index, ok := s.registry.Lookup(indexKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIndex, indexKey)
	}

	board, err := s.boards.Board(ctx, s.ruleSet.CompatibilityKey())
	if err != nil {
		return nil, err
	}
	return board.Query(index, sort, s.clock()), nil
}

// BestRecords returns each index of a group paired with its best record
// on the current rule set's leaderboard.
func (s *Service) BestRecords(ctx context.Context, group leaderboard.Group, sort leaderboard.Sort) ([]leaderboard.IndexBest, error) {
	board, err := s.boards.Board(ctx, s.ruleSet.CompatibilityKey())
	if err != nil {
		return nil, err
	}
	return board.BestPerIndex(s.registry, group, sort, s.clock()), nil
}
