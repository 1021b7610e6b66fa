package rules

import "fmt"

// Segment is a milestone a run reaches by accumulating pp. SegmentStart
// is the sentinel for the beginning of a run; it requires no pp and is
// always reached at time zero.
type Segment int

const (
	SegmentStart Segment = iota
	SegmentBronze
	SegmentSilver
	SegmentGold
	SegmentPlatinum
	SegmentEmerald
	SegmentSapphire
	SegmentRuby
	SegmentDiamond
	SegmentMaster
	SegmentGrandmaster
)

var segmentNames = map[Segment]string{
	SegmentStart:       "Start",
	SegmentBronze:      "Bronze",
	SegmentSilver:      "Silver",
	SegmentGold:        "Gold",
	SegmentPlatinum:    "Platinum",
	SegmentEmerald:     "Emerald",
	SegmentSapphire:    "Sapphire",
	SegmentRuby:        "Ruby",
	SegmentDiamond:     "Diamond",
	SegmentMaster:      "Master",
	SegmentGrandmaster: "Grandmaster",
}

// NamedSegments returns every milestone segment in ascending order,
// excluding the start sentinel.
func NamedSegments() []Segment {
	return []Segment{
		SegmentBronze,
		SegmentSilver,
		SegmentGold,
		SegmentPlatinum,
		SegmentEmerald,
		SegmentSapphire,
		SegmentRuby,
		SegmentDiamond,
		SegmentMaster,
		SegmentGrandmaster,
	}
}

// Named reports whether s is a milestone rather than the start sentinel.
func (s Segment) Named() bool { return s != SegmentStart }

func (s Segment) String() string {
	if name, ok := segmentNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Segment(%d)", int(s))
}

// ParseSegment resolves a segment by its name.
func ParseSegment(name string) (Segment, error) {
	for s, n := range segmentNames {
		if n == name {
			return s, nil
		}
	}
	return SegmentStart, fmt.Errorf("%w: %q", ErrUnknownSegment, name)
}

// MarshalText implements encoding.TextMarshaler so segments serialize as
// their names in JSON documents.
func (s Segment) MarshalText() ([]byte, error) {
	name, ok := segmentNames[s]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSegment, int(s))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Segment) UnmarshalText(text []byte) error {
	parsed, err := ParseSegment(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// SegmentRequirements maps each milestone segment to the pp required to
// reach it.
type SegmentRequirements struct {
	Bronze      int `json:"bronze"`
	Silver      int `json:"silver"`
	Gold        int `json:"gold"`
	Platinum    int `json:"platinum"`
	Emerald     int `json:"emerald"`
	Sapphire    int `json:"sapphire"`
	Ruby        int `json:"ruby"`
	Diamond     int `json:"diamond"`
	Master      int `json:"master"`
	Grandmaster int `json:"grandmaster"`
}

// DefaultSegmentRequirements returns the standard thresholds used when a
// rule set does not override them.
func DefaultSegmentRequirements() SegmentRequirements {
	return SegmentRequirements{
		Bronze:      1000,
		Silver:      2000,
		Gold:        3000,
		Platinum:    4000,
		Emerald:     5000,
		Sapphire:    6000,
		Ruby:        7000,
		Diamond:     8000,
		Master:      9000,
		Grandmaster: 10000,
	}
}

// Value returns the required pp for a milestone segment. The start
// sentinel requires nothing.
func (r SegmentRequirements) Value(s Segment) int {
	switch s {
	case SegmentStart:
		return 0
	case SegmentBronze:
		return r.Bronze
	case SegmentSilver:
		return r.Silver
	case SegmentGold:
		return r.Gold
	case SegmentPlatinum:
		return r.Platinum
	case SegmentEmerald:
		return r.Emerald
	case SegmentSapphire:
		return r.Sapphire
	case SegmentRuby:
		return r.Ruby
	case SegmentDiamond:
		return r.Diamond
	case SegmentMaster:
		return r.Master
	case SegmentGrandmaster:
		return r.Grandmaster
	}
	return 0
}
