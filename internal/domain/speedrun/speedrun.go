package speedrun

import (
	"time"

	"github.com/acc-is-sponge/beat-speedrun-mod/internal/domain/rules"
	"github.com/acc-is-sponge/beat-speedrun-mod/internal/domain/scoring"
)

// Speedrun is the root state of one run: the rule documents it is played
// under, the progress tracker, the append-only result log, and the
// current aggregation over it. It is mutated only by AddResult and
// Finish, from a single logical thread of control.
type Speedrun struct {
	id         string
	ruleSetRef string
	ruleSet    *rules.RuleSet
	catalog    *rules.SongCatalog
	calculator *scoring.Calculator
	progress   *Progress
	checksum   Checksum

	results []*ScoredResult
	agg     AggregateResult
}

// New starts an empty run under the given rule documents. ruleSetRef is
// the external reference (path or id) the snapshot will carry so the
// host can reload the same document later.
func New(id string, startedAt time.Time, ruleSetRef string, ruleSet *rules.RuleSet, catalog *rules.SongCatalog, target *rules.Segment) (*Speedrun, error) {
	calculator, err := scoring.NewCalculator(
		ruleSet.Rules.Base,
		ruleSet.Rules.Curve,
		ruleSet.Rules.ModifierOverrides,
	)
	if err != nil {
		return nil, err
	}

	return &Speedrun{
		id:         id,
		ruleSetRef: ruleSetRef,
		ruleSet:    ruleSet,
		catalog:    catalog,
		calculator: calculator,
		progress: NewProgress(
			startedAt,
			time.Duration(ruleSet.Rules.TimeLimit)*time.Second,
			target,
			ruleSet.Rules.SegmentRequirements,
		),
		checksum: Checksum{
			RuleSet:     ruleSet.Checksum(),
			SongCatalog: catalog.Checksum(),
		},
	}, nil
}

// Load reconstructs a run from its snapshot by replaying the result log
// in order and reapplying the stored finish time. It fails when the
// snapshot's pinned checksums do not match the supplied rule documents.
func Load(snapshot *Snapshot, ruleSet *rules.RuleSet, catalog *rules.SongCatalog) (*Speedrun, error) {
	if err := snapshot.validate(ruleSet, catalog); err != nil {
		return nil, err
	}

	run, err := New(snapshot.ID, snapshot.StartedAt, snapshot.RuleSet, ruleSet, catalog, snapshot.TargetSegment)
	if err != nil {
		return nil, err
	}
	for _, result := range snapshot.Results {
		run.AddResult(result)
	}
	if snapshot.FinishedAt != nil {
		run.Finish(*snapshot.FinishedAt)
	}
	return run, nil
}

// AddResult scores a raw result and applies it to the run: the scored
// result is appended to the log, the top-score set and total are
// recomputed, the pp delta is stamped on the new result, and segment
// progress is evaluated against the fresh total in the same step. It
// returns the scored result, or nil when the run is already finished
// and the submission is ignored.
func (s *Speedrun) AddResult(raw Result) *ScoredResult {
	if _, finished := s.progress.FinishedAt(); finished {
		return nil
	}

	// Score before mutating anything so a submission either fully
	// applies or leaves the run untouched.
	star, _ := s.catalog.Star(raw.Song, raw.Difficulty)
	scored := &ScoredResult{
		Result: raw,
		Star:   star,
		PP:     s.calculator.PP(star, raw.BaseAccuracy, raw.Modifiers),
	}

	s.results = append(s.results, scored)
	s.progress.Update(raw.CompletedAt, func() float64 {
		previousTotal := s.agg.TotalPP
		s.agg = Aggregate(s.results, s.ruleSet.Rules.Weight)
		change := s.agg.TotalPP - previousTotal
		scored.latestPPChange = &change
		return s.agg.TotalPP
	})
	return scored
}

// Finish freezes the run. Finishing twice is a no-op.
func (s *Speedrun) Finish(now time.Time) {
	s.progress.Finish(now)
}

// ID returns the run identifier.
func (s *Speedrun) ID() string { return s.id }

// RuleSetRef returns the external reference of the run's rule set.
func (s *Speedrun) RuleSetRef() string { return s.ruleSetRef }

// RuleSet returns the rule set the run is played under.
func (s *Speedrun) RuleSet() *rules.RuleSet { return s.ruleSet }

// Catalog returns the song catalog the run is played against.
func (s *Speedrun) Catalog() *rules.SongCatalog { return s.catalog }

// Progress returns the run's progress tracker.
func (s *Speedrun) Progress() *Progress { return s.progress }

// Results returns the full result log in submission order.
func (s *Speedrun) Results() []*ScoredResult {
	out := make([]*ScoredResult, len(s.results))
	copy(out, s.results)
	return out
}

// TopScores returns the current deduplicated top-score set, descending
// by pp.
func (s *Speedrun) TopScores() []*ScoredResult {
	out := make([]*ScoredResult, len(s.agg.TopScores))
	copy(out, s.agg.TopScores)
	return out
}

// TotalPP returns the current rank-decayed total.
func (s *Speedrun) TotalPP() float64 { return s.agg.TotalPP }

// SongsPP returns the rank-decayed total over only the top n scores,
// reporting false while the run has fewer than n top scores.
func (s *Speedrun) SongsPP(n int) (float64, bool) {
	if len(s.agg.TopScores) < n {
		return 0, false
	}
	return TotalPP(s.agg.TopScores[:n], s.ruleSet.Rules.Weight), true
}

// TimePP returns the rank-decayed total over only the results completed
// within the first span of the run, re-aggregated from scratch so
// deduplication and rank decay apply within the window.
func (s *Speedrun) TimePP(span time.Duration) float64 {
	cutoff := s.progress.StartedAt().Add(span)
	within := make([]*ScoredResult, 0, len(s.results))
	for _, result := range s.results {
		if !result.CompletedAt.After(cutoff) {
			within = append(within, result)
		}
	}
	top := TopScores(within)
	return TotalPP(top, s.ruleSet.Rules.Weight)
}

// ToSnapshot captures the run in its serializable form.
func (s *Speedrun) ToSnapshot() *Snapshot {
	results := make([]Result, len(s.results))
	for i, scored := range s.results {
		results[i] = scored.Result
	}

	var finishedAt *time.Time
	if at, ok := s.progress.FinishedAt(); ok {
		finishedAt = &at
	}
	var target *rules.Segment
	if segment, ok := s.progress.Target(); ok {
		target = &segment.Segment
	}

	return &Snapshot{
		ID:            s.id,
		StartedAt:     s.progress.StartedAt(),
		FinishedAt:    finishedAt,
		RuleSet:       s.ruleSetRef,
		TargetSegment: target,
		Checksum:      s.checksum,
		Results:       results,
	}
}
