package speedrun

import (
	"sort"
	"time"

	"github.com/acc-is-sponge/beat-speedrun-mod/internal/domain/rules"
)

// State describes where a run stands at a given instant. It is derived
// from stored facts (start, finish, reached times) every time it is
// asked for, never stored, so the two can't drift apart.
type State int

const (
	// StateRunning means the run is live and new results still count.
	StateRunning State = iota
	// StateTargetReached means the configured target segment has been
	// reached; no further thresholds are evaluated.
	StateTargetReached
	// StateTimeIsUp means the time limit expired before any finish.
	StateTimeIsUp
	// StateFinished means the run was explicitly finished.
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateTargetReached:
		return "target reached"
	case StateTimeIsUp:
		return "time is up"
	case StateFinished:
		return "finished"
	}
	return "unknown"
}

// SegmentProgress is one threshold in the ordered list: the segment, the
// pp required to reach it, and when it was reached (if ever). The start
// sentinel is always present and reached at zero.
type SegmentProgress struct {
	Segment    rules.Segment
	RequiredPP int

	reachedAt *time.Duration
}

// ReachedAt returns the elapsed time at which the segment was reached,
// reporting false if it has not been.
func (p SegmentProgress) ReachedAt() (time.Duration, bool) {
	if p.reachedAt == nil {
		return 0, false
	}
	return *p.reachedAt, true
}

// Progress tracks a run's crossing of segment thresholds against its
// time limit. Reached times are monotonic: once set they never change.
type Progress struct {
	startedAt  time.Time
	timeLimit  time.Duration
	finishedAt *time.Time

	// segments is sorted ascending by required pp; index 0 is the start
	// sentinel.
	segments     []SegmentProgress
	targetIndex  int // -1 when no target segment is configured
	currentIndex int
}

// NewProgress builds the threshold list for a run starting at startedAt.
// A nil target means the run only ends by finish or time limit.
func NewProgress(startedAt time.Time, timeLimit time.Duration, target *rules.Segment, requirements rules.SegmentRequirements) *Progress {
	zero := time.Duration(0)
	segments := make([]SegmentProgress, 0, len(rules.NamedSegments())+1)
	segments = append(segments, SegmentProgress{
		Segment:   rules.SegmentStart,
		reachedAt: &zero,
	})
	for _, s := range rules.NamedSegments() {
		segments = append(segments, SegmentProgress{
			Segment:    s,
			RequiredPP: requirements.Value(s),
		})
	}
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].RequiredPP < segments[j].RequiredPP
	})

	targetIndex := -1
	if target != nil {
		for i, segment := range segments {
			if segment.Segment == *target {
				targetIndex = i
				break
			}
		}
	}

	return &Progress{
		startedAt:    startedAt,
		timeLimit:    timeLimit,
		segments:     segments,
		targetIndex:  targetIndex,
		currentIndex: 0,
	}
}

// StartedAt returns the run's start time.
func (p *Progress) StartedAt() time.Time { return p.startedAt }

// TimeLimit returns the run's configured duration.
func (p *Progress) TimeLimit() time.Duration { return p.timeLimit }

// TimeIsUpAt returns the instant the time limit expires.
func (p *Progress) TimeIsUpAt() time.Time { return p.startedAt.Add(p.timeLimit) }

// FinishedAt returns the finish time, reporting false while the run is
// not finished.
func (p *Progress) FinishedAt() (time.Time, bool) {
	if p.finishedAt == nil {
		return time.Time{}, false
	}
	return *p.finishedAt, true
}

// Segments returns the threshold list, ascending by required pp.
func (p *Progress) Segments() []SegmentProgress {
	out := make([]SegmentProgress, len(p.segments))
	copy(out, p.segments)
	return out
}

// Target returns the target segment threshold, reporting false when no
// target is configured.
func (p *Progress) Target() (SegmentProgress, bool) {
	if p.targetIndex < 0 {
		return SegmentProgress{}, false
	}
	return p.segments[p.targetIndex], true
}

// TargetReached reports whether the configured target segment has been
// reached. Always false without a target.
func (p *Progress) TargetReached() bool {
	target, ok := p.Target()
	if !ok {
		return false
	}
	_, reached := target.ReachedAt()
	return reached
}

// CurrentSegment returns the highest threshold reached so far.
func (p *Progress) CurrentSegment() SegmentProgress {
	if p.TargetReached() {
		return p.segments[p.targetIndex]
	}
	return p.segments[p.currentIndex]
}

// NextSegment returns the next threshold to reach, reporting false when
// the run is past the last one or the target has been reached.
func (p *Progress) NextSegment() (SegmentProgress, bool) {
	if p.TargetReached() {
		return SegmentProgress{}, false
	}
	if p.currentIndex+1 >= len(p.segments) {
		return SegmentProgress{}, false
	}
	return p.segments[p.currentIndex+1], true
}

// State derives the run state at the given instant. Target-reached is
// checked first and is sticky, so it wins over a simultaneous time
// expiry.
func (p *Progress) State(now time.Time) State {
	if p.TargetReached() {
		return StateTargetReached
	}
	if !now.Before(p.TimeIsUpAt()) && (p.finishedAt == nil || p.TimeIsUpAt().Before(*p.finishedAt)) {
		return StateTimeIsUp
	}
	if p.finishedAt != nil && !now.Before(*p.finishedAt) {
		return StateFinished
	}
	return StateRunning
}

// ElapsedTime returns how much run time has been consumed at the given
// instant: the target's reached time once the target is reached, the
// full limit once time is up, finish minus start once finished, and
// now minus start while running.
func (p *Progress) ElapsedTime(now time.Time) time.Duration {
	switch p.State(now) {
	case StateTargetReached:
		reached, _ := p.segments[p.targetIndex].ReachedAt()
		return reached
	case StateTimeIsUp:
		return p.timeLimit
	case StateFinished:
		return p.finishedAt.Sub(p.startedAt)
	default:
		return now.Sub(p.startedAt)
	}
}

// Update evaluates threshold crossings against the total pp obtained
// from the supplier. It is a no-op unless the run is still running at
// eventTime. Thresholds are walked in ascending order starting just past
// the last-reached one, each satisfied threshold is marked reached at
// eventTime minus start, and the walk stops at the first unmet
// requirement. A threshold's reached time is never overwritten.
func (p *Progress) Update(eventTime time.Time, totalPP func() float64) {
	if p.State(eventTime) != StateRunning {
		return
	}

	pp := totalPP()
	reached := eventTime.Sub(p.startedAt)
	for i := p.currentIndex + 1; i < len(p.segments); i++ {
		if float64(p.segments[i].RequiredPP) > pp {
			break
		}
		if p.segments[i].reachedAt == nil {
			at := reached
			p.segments[i].reachedAt = &at
		}
		p.currentIndex = i
	}
}

// Finish records the finish time. Calling it again is a no-op.
func (p *Progress) Finish(now time.Time) {
	if p.finishedAt != nil {
		return
	}
	at := now
	p.finishedAt = &at
}
