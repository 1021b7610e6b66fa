package speedrun

import (
	"math"
	"sort"
)

// AggregateResult is the outcome of one aggregation pass over a run's
// full result log.
type AggregateResult struct {
	// TopScores holds the best positive-pp result per song+difficulty,
	// sorted descending by pp.
	TopScores []*ScoredResult

	// TotalPP is the rank-decayed weighted sum over TopScores.
	TotalPP float64
}

// TopScores deduplicates results to the single best per song+difficulty
// and returns the survivors sorted descending by pp. Within a bucket the
// first-seen result wins exact pp ties (a later result must be strictly
// better to replace it); survivors with pp <= 0 are dropped. The sort is
// stable, so equal-pp survivors keep their submission order.
func TopScores(results []*ScoredResult) []*ScoredResult {
	bestByKey := make(map[string]*ScoredResult, len(results))
	order := make([]string, 0, len(results))

	for _, result := range results {
		key := result.Key()
		best, seen := bestByKey[key]
		if !seen {
			bestByKey[key] = result
			order = append(order, key)
			continue
		}
		if best.PP < result.PP {
			bestByKey[key] = result
		}
	}

	top := make([]*ScoredResult, 0, len(order))
	for _, key := range order {
		if best := bestByKey[key]; best.PP > 0 {
			top = append(top, best)
		}
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].PP > top[j].PP
	})
	return top
}

// TotalPP computes the rank-decayed total sum(pp_i * weight^i) over an
// already-descending top-score list. The top result is undiscounted and
// each following rank is discounted by one more power of weight; a
// weight of 1 degenerates to the plain sum. The input order is a
// precondition, not enforced here.
func TotalPP(topScores []*ScoredResult, weight float64) float64 {
	total := 0.0
	for i, score := range topScores {
		total += score.PP * math.Pow(weight, float64(i))
	}
	return total
}

// Aggregate recomputes the top-score set and total over the full result
// log. Every result's rank and pp-delta annotations are cleared first;
// ranks 1..n are then assigned to the new top scores. The caller stamps
// the pp delta on whichever result triggered the pass.
func Aggregate(results []*ScoredResult, weight float64) AggregateResult {
	for _, result := range results {
		result.rank = nil
		result.latestPPChange = nil
	}

	top := TopScores(results)
	for i, score := range top {
		rank := i + 1
		score.rank = &rank
	}

	return AggregateResult{
		TopScores: top,
		TotalPP:   TotalPP(top, weight),
	}
}
