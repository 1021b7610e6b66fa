package leaderboard

import (
	"fmt"
	"time"

	"github.com/acc-is-sponge/beat-speedrun-mod/internal/domain/rules"
	"github.com/acc-is-sponge/beat-speedrun-mod/internal/domain/speedrun"
)

// Registry is the immutable set of indices a leaderboard records and
// queries. It is constructed explicitly and passed in wherever needed;
// there is no process-wide registry.
type Registry struct {
	indices []*Index
	byKey   map[string]*Index
}

// Window sets for the derived-stat indices.
var (
	defaultMinuteWindows = []int{15, 30, 60, 90, 120}
	defaultSongWindows   = []int{3, 6}
)

// NewRegistry builds the standard registry: one segment-time index per
// milestone segment, plus the derived stats (total pp, song count,
// total time, pp within the first N songs, pp within the first T
// minutes).
func NewRegistry() *Registry {
	r := &Registry{byKey: make(map[string]*Index)}

	for _, segment := range rules.NamedSegments() {
		r.register(segmentTimeIndex(segment))
	}

	r.register(&Index{
		Key:       "Total pp",
		Group:     GroupStats,
		Direction: Descending,
		Value: func(run *speedrun.Speedrun, _ time.Time) (float64, bool) {
			return run.TotalPP(), true
		},
		Format: formatPP,
	})
	r.register(&Index{
		Key:       "Song count",
		Group:     GroupStats,
		Direction: Descending,
		Value: func(run *speedrun.Speedrun, _ time.Time) (float64, bool) {
			return float64(len(run.TopScores())), true
		},
		Format: formatSongs,
	})
	r.register(&Index{
		Key:       "Total time",
		Group:     GroupStats,
		Direction: Ascending,
		Value: func(run *speedrun.Speedrun, now time.Time) (float64, bool) {
			return float64(run.Progress().ElapsedTime(now).Milliseconds()), true
		},
		Format: formatTimer,
	})

	for _, minutes := range defaultMinuteWindows {
		r.register(minutesPPIndex(minutes))
	}
	for _, count := range defaultSongWindows {
		r.register(songsPPIndex(count))
	}

	return r
}

func (r *Registry) register(index *Index) {
	r.indices = append(r.indices, index)
	r.byKey[index.Key] = index
}

// Lookup resolves an index by key.
func (r *Registry) Lookup(key string) (*Index, bool) {
	index, ok := r.byKey[key]
	return index, ok
}

// Group returns the indices in a group, in registration order.
func (r *Registry) Group(group Group) []*Index {
	out := make([]*Index, 0, len(r.indices))
	for _, index := range r.indices {
		if index.Group == group {
			out = append(out, index)
		}
	}
	return out
}

// All returns every registered index in registration order.
func (r *Registry) All() []*Index {
	out := make([]*Index, len(r.indices))
	copy(out, r.indices)
	return out
}

// segmentTimeIndex measures how long a run took to reach a segment;
// undefined until the segment is reached.
func segmentTimeIndex(segment rules.Segment) *Index {
	return &Index{
		Key:       fmt.Sprintf("%s time", segment),
		Group:     GroupSegments,
		Direction: Ascending,
		Value: func(run *speedrun.Speedrun, _ time.Time) (float64, bool) {
			for _, progress := range run.Progress().Segments() {
				if progress.Segment != segment {
					continue
				}
				if at, ok := progress.ReachedAt(); ok {
					return float64(at.Milliseconds()), true
				}
				return 0, false
			}
			return 0, false
		},
		Format: formatTimer,
	}
}

// minutesPPIndex is the rank-decayed total over results completed in
// the first few minutes of a run; undefined until that much time has
// elapsed.
func minutesPPIndex(minutes int) *Index {
	span := time.Duration(minutes) * time.Minute
	return &Index{
		Key:       fmt.Sprintf("%d minutes pp", minutes),
		Group:     GroupStats,
		Direction: Descending,
		Value: func(run *speedrun.Speedrun, now time.Time) (float64, bool) {
			if run.Progress().ElapsedTime(now) < span {
				return 0, false
			}
			return run.TimePP(span), true
		},
		Format: formatPP,
	}
}

// songsPPIndex is the rank-decayed total over just the top few songs;
// undefined until the run has that many top scores.
func songsPPIndex(count int) *Index {
	return &Index{
		Key:       fmt.Sprintf("%d songs pp", count),
		Group:     GroupStats,
		Direction: Descending,
		Value: func(run *speedrun.Speedrun, _ time.Time) (float64, bool) {
			return run.SongsPP(count)
		},
		Format: formatPP,
	}
}
