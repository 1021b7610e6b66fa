package leaderboard

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/acc-is-sponge/beat-speedrun-mod/internal/domain/speedrun"
)

// Sort selects the display ordering of a query. Rank values are always
// computed under Best ordering regardless of the requested sort, so
// they stay stable across display modes.
type Sort int

const (
	// SortBest orders by index value, best first.
	SortBest Sort = iota
	// SortRecent orders by start time, most recent first.
	SortRecent
)

// Record is one finished run's row on a board: identity, start time,
// and the index values that were computable when the run finished.
type Record struct {
	RunID     string             `json:"run"`
	StartedAt time.Time          `json:"startedAt"`
	Values    map[string]float64 `json:"indices"`
}

// RankedRecord is a record focused on a single index for query output.
type RankedRecord struct {
	RunID     string
	StartedAt time.Time
	Value     float64
	Rank      int
}

// IndexBest pairs an index with the best eligible record for it, if any.
type IndexBest struct {
	Index *Index
	Best  *RankedRecord
}

// Board accumulates records of finished runs played under compatible
// rule sets. Writes are upserts keyed by run id; records are never
// removed automatically.
type Board struct {
	Key     string             `json:"key"`
	Records map[string]*Record `json:"records"`
}

// NewBoard creates an empty board for a compatibility key.
func NewBoard(key string) *Board {
	return &Board{
		Key:     key,
		Records: make(map[string]*Record),
	}
}

// ParseBoard decodes a board document.
func ParseBoard(data []byte) (*Board, error) {
	var board Board
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBoard, err)
	}
	if board.Records == nil {
		board.Records = make(map[string]*Record)
	}
	return &board, nil
}

// Marshal encodes the board as JSON.
func (b *Board) Marshal() ([]byte, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("marshal leaderboard %s: %w", b.Key, err)
	}
	return data, nil
}

// Write records a finished run. The run must be finished and its rule
// set must share this board's compatibility key. Writing the same run
// again refreshes its record in place. Only indices that are computable
// for the run are stored; the rest are omitted, not zero-filled.
func (b *Board) Write(registry *Registry, run *speedrun.Speedrun, now time.Time) error {
	if _, finished := run.Progress().FinishedAt(); !finished {
		return fmt.Errorf("%w: run %s", ErrRunNotFinished, run.ID())
	}
	if run.RuleSet().CompatibilityKey() != b.Key {
		return fmt.Errorf("%w: run %s", ErrIncompatibleRuleSet, run.ID())
	}

	record, ok := b.Records[run.ID()]
	if !ok {
		record = &Record{
			RunID:     run.ID(),
			StartedAt: run.Progress().StartedAt(),
			Values:    make(map[string]float64),
		}
		b.Records[run.ID()] = record
	}

	for _, index := range registry.All() {
		value, ok := index.Value(run, now)
		if !ok {
			continue
		}
		record.Values[index.Key] = value
	}
	return nil
}

// Query returns every record holding a value for the index, annotated
// with its rank. Ranks run 1..k with no gaps over the eligible records,
// computed under Best ordering; the requested sort only affects the
// output order.
func (b *Board) Query(index *Index, order Sort, now time.Time) []RankedRecord {
	eligible := b.eligible(index)

	ranked := make([]RankedRecord, 0, len(eligible))
	orderBest(eligible, index)
	for i, record := range eligible {
		ranked = append(ranked, RankedRecord{
			RunID:     record.RunID,
			StartedAt: record.StartedAt,
			Value:     record.Values[index.Key],
			Rank:      i + 1,
		})
	}

	if order == SortRecent {
		orderRecent(ranked)
	}
	return ranked
}

// BestPerIndex returns, for each index of a group, the single best
// eligible record under the requested sort, or none when no record
// holds a value for that index. Used for dashboard-style views.
func (b *Board) BestPerIndex(registry *Registry, group Group, order Sort, now time.Time) []IndexBest {
	out := make([]IndexBest, 0)
	for _, index := range registry.Group(group) {
		ranked := b.Query(index, order, now)
		best := IndexBest{Index: index}
		if len(ranked) > 0 {
			top := ranked[0]
			best.Best = &top
		}
		out = append(out, best)
	}
	return out
}

// eligible collects the records holding a value for the index.
func (b *Board) eligible(index *Index) []*Record {
	records := make([]*Record, 0, len(b.Records))
	for _, record := range b.Records {
		if _, ok := record.Values[index.Key]; ok {
			records = append(records, record)
		}
	}
	return records
}

// orderBest sorts records by value*direction ascending, so descending-
// sense indices effectively sort by negated value. Ties break on the
// earlier start, then the run id, to keep rankings deterministic.
func orderBest(records []*Record, index *Index) {
	sort.Slice(records, func(i, j int) bool {
		a := records[i].Values[index.Key] * float64(index.Direction)
		b := records[j].Values[index.Key] * float64(index.Direction)
		if a != b {
			return a < b
		}
		if !records[i].StartedAt.Equal(records[j].StartedAt) {
			return records[i].StartedAt.Before(records[j].StartedAt)
		}
		return records[i].RunID < records[j].RunID
	})
}

// orderRecent sorts ranked output by start time, most recent first.
func orderRecent(records []RankedRecord) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].StartedAt.Equal(records[j].StartedAt) {
			return records[i].StartedAt.After(records[j].StartedAt)
		}
		return records[i].RunID < records[j].RunID
	})
}
