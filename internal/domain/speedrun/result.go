// Package speedrun implements the run state itself: the append-only
// result log, the deduplicated top-score aggregation with rank-decayed
// totals, the segment progress state machine, and the snapshot round
// trip used for persistence. Wall-clock time is always supplied by the
// caller, never read internally, so every operation is replayable.
package speedrun

import (
	"time"

	"github.com/acc-is-sponge/beat-speedrun-mod/internal/domain/scoring"
)

// Result is one raw song attempt as reported by the host. Immutable once
// recorded; every attempt is kept in the run's log, not just the best.
type Result struct {
	CompletedAt   time.Time         `json:"completedAt"`
	Song          string            `json:"song"`
	Difficulty    string            `json:"difficulty"`
	BaseAccuracy  float64           `json:"baseAccuracy"`
	BadCutCount   int               `json:"badCutCount"`
	MissNoteCount int               `json:"missNoteCount"`
	FullCombo     bool              `json:"fullCombo,omitempty"`
	Modifiers     scoring.Modifiers `json:"modifiers"`
}

// Key identifies the song+difficulty bucket the result competes in.
func (r Result) Key() string {
	return r.Song + r.Difficulty
}

// MissOrBadCutCount is the combined count of missed and badly cut notes.
func (r Result) MissOrBadCutCount() int {
	return r.BadCutCount + r.MissNoteCount
}

// ScoredResult is a Result with its derived star rating and pp value,
// plus the mutable annotations reassigned on every aggregation pass:
// the rank among the current top scores (nil when the result is not a
// top score) and the total-pp delta the result most recently caused
// (nil except on the result that triggered the last aggregation).
type ScoredResult struct {
	Result

	Star float64
	PP   float64

	rank           *int
	latestPPChange *float64
}

// Rank returns the result's position among the run's top scores,
// reporting false when it is not currently a top score.
func (s *ScoredResult) Rank() (int, bool) {
	if s.rank == nil {
		return 0, false
	}
	return *s.rank, true
}

// LatestPPChange returns the total-pp delta this result caused when it
// was submitted, reporting false once a later submission cleared it.
func (s *ScoredResult) LatestPPChange() (float64, bool) {
	if s.latestPPChange == nil {
		return 0, false
	}
	return *s.latestPPChange, true
}
