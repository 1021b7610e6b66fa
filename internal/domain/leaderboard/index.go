// Package leaderboard ranks finished runs. An immutable Registry of
// named indices extracts comparable values from runs; a Board collects
// per-run records for one rule-set compatibility key and answers
// ranked queries over any index.
package leaderboard

import (
	"fmt"
	"time"

	"github.com/acc-is-sponge/beat-speedrun-mod/internal/domain/speedrun"
)

// Group partitions indices for dashboard-style views.
type Group int

const (
	// GroupSegments holds the time-to-reach-segment indices.
	GroupSegments Group = iota
	// GroupStats holds the derived score/count indices.
	GroupStats
)

// Direction fixes how an index's values compare: time-valued indices
// rank ascending (lower is better), pp/count indices rank descending.
type Direction int

const (
	Ascending  Direction = 1
	Descending Direction = -1
)

// Index is a named, stateless extractor of one comparable metric from a
// run. Value reports false when the metric is not defined for the run
// (e.g. a segment that was never reached); undefined values are omitted
// from records rather than stored as zero.
type Index struct {
	Key       string
	Group     Group
	Direction Direction
	Value     func(run *speedrun.Speedrun, now time.Time) (float64, bool)
	Format    func(value float64) string
}

// formatPP renders a pp value for display.
func formatPP(value float64) string {
	return fmt.Sprintf("%.1fpp", value)
}

// formatTimer renders a millisecond value as h:mm:ss.
func formatTimer(value float64) string {
	d := time.Duration(value) * time.Millisecond
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
}

// formatSongs renders a song count.
func formatSongs(value float64) string {
	return fmt.Sprintf("%.0f songs", value)
}
