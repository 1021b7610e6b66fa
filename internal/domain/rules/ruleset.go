// Package rules holds the externally loaded rule documents a speedrun
// is played under: the RuleSet (scoring constants, time limit, segment
// thresholds) and the SongCatalog (per-song star ratings). Both are
// immutable once parsed and carry reproducible checksums so persisted
// runs can detect when their rules changed underneath them.
package rules

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/acc-is-sponge/beat-speedrun-mod/internal/domain/scoring"
)

// ruleSetVersion is the only document version this engine understands.
const ruleSetVersion = 1

// RuleSet is a parsed rule set document. Title and Description are
// cosmetic and excluded from the checksum; everything under Rules is
// load-bearing.
type RuleSet struct {
	Version     int    `json:"version"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Rules       Rules  `json:"rules"`
}

// Rules carries the fields that define how a speedrun is scored and
// progressed.
type Rules struct {
	// Catalog references the song catalog document this rule set is
	// defined against.
	Catalog string `json:"catalog"`

	// Base is the constant every pp value is scaled by.
	Base float64 `json:"base"`

	// Curve lists [accuracy, weight] control points, ascending by
	// accuracy.
	Curve [][]float64 `json:"curve"`

	// Weight is the rank-decay multiplier in (0, 1] applied once per
	// rank position below the top score.
	Weight float64 `json:"weight"`

	// TimeLimit is the run duration in seconds.
	TimeLimit int `json:"timeLimit"`

	SegmentRequirements SegmentRequirements `json:"segmentRequirements"`

	ModifierOverrides scoring.Overrides `json:"modifierOverrides"`
}

// ParseRuleSet decodes and validates a rule set document.
func ParseRuleSet(data []byte) (*RuleSet, error) {
	rs := &RuleSet{
		Rules: Rules{
			SegmentRequirements: DefaultSegmentRequirements(),
			ModifierOverrides:   scoring.DefaultOverrides(),
		},
	}
	if err := json.Unmarshal(data, rs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRuleSet, err)
	}
	if rs.Version != ruleSetVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidRuleSet, rs.Version)
	}
	if rs.Rules.Weight <= 0 || rs.Rules.Weight > 1 {
		return nil, fmt.Errorf("%w: weight must be in (0, 1], got %v", ErrInvalidRuleSet, rs.Rules.Weight)
	}
	if rs.Rules.TimeLimit <= 0 {
		return nil, fmt.Errorf("%w: timeLimit must be positive, got %d", ErrInvalidRuleSet, rs.Rules.TimeLimit)
	}
	// Curve validation fails fast here rather than at first use.
	if _, err := scoring.NewCurve(rs.Rules.Curve); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRuleSet, err)
	}
	return rs, nil
}

// Checksum returns a reproducible hex digest of the load-bearing rules.
// Cosmetic fields (title, description) may change without affecting it.
func (r *RuleSet) Checksum() string {
	// Marshal of a fixed struct layout is canonical enough: field order
	// is the declaration order, and maps are not involved.
	data, err := json.Marshal(r.Rules)
	if err != nil {
		// Rules contains only plain values; this cannot fail.
		panic(fmt.Sprintf("rules: marshal rules for checksum: %v", err))
	}
	return checksum(data)
}

// CompatibilityKey groups rule sets whose runs are comparable on the
// same local leaderboard. Rule sets sharing a title are considered
// compatible even when their thresholds are tuned between versions.
func (r *RuleSet) CompatibilityKey() string {
	return checksum([]byte(r.Title))
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
