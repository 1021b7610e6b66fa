package speedrun

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/acc-is-sponge/beat-speedrun-mod/internal/domain/rules"
)

// Snapshot is the serializable form of a run: identity, timing, rule
// references with checksums, and the ordered raw result log. All derived
// state (top scores, totals, reached thresholds) is reconstructed by
// replaying the log, so a snapshot stays valid as long as its rule
// documents do.
type Snapshot struct {
	ID            string         `json:"id"`
	StartedAt     time.Time      `json:"startedAt"`
	FinishedAt    *time.Time     `json:"finishedAt,omitempty"`
	RuleSet       string         `json:"ruleSet"`
	TargetSegment *rules.Segment `json:"targetSegment,omitempty"`
	Checksum      Checksum       `json:"checksum"`
	Results       []Result       `json:"results"`
}

// Checksum pins the rule documents a snapshot was recorded under, so a
// reload can detect when they changed underneath the saved run.
type Checksum struct {
	RuleSet     string `json:"ruleSet"`
	SongCatalog string `json:"songCatalog"`
}

// ParseSnapshot decodes a snapshot document.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if snap.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidSnapshot)
	}
	return &snap, nil
}

// Marshal encodes the snapshot as JSON.
func (s *Snapshot) Marshal() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot %s: %w", s.ID, err)
	}
	return data, nil
}

// validate checks the snapshot's pinned checksums against the supplied
// rule documents.
func (s *Snapshot) validate(ruleSet *rules.RuleSet, catalog *rules.SongCatalog) error {
	if s.Checksum.RuleSet != ruleSet.Checksum() {
		return fmt.Errorf("%w: snapshot %s", ErrRuleSetChecksumMismatch, s.ID)
	}
	if s.Checksum.SongCatalog != catalog.Checksum() {
		return fmt.Errorf("%w: snapshot %s", ErrCatalogChecksumMismatch, s.ID)
	}
	return nil
}
