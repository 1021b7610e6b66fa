package scoring

import "strings"

// Modifiers holds the gameplay modifier flags active during one song
// attempt. The zero value means no modifiers.
type Modifiers struct {
	UsePause           bool `json:"usePause,omitempty"`
	BatteryEnergy      bool `json:"batteryEnergy,omitempty"`
	NoFail             bool `json:"noFail,omitempty"`
	InstaFail          bool `json:"instaFail,omitempty"`
	NoObstacles        bool `json:"noObstacles,omitempty"`
	NoBombs            bool `json:"noBombs,omitempty"`
	StrictAngles       bool `json:"strictAngles,omitempty"`
	DisappearingArrows bool `json:"disappearingArrows,omitempty"`
	FasterSong         bool `json:"fasterSong,omitempty"`
	SlowerSong         bool `json:"slowerSong,omitempty"`
	NoArrows           bool `json:"noArrows,omitempty"`
	GhostNotes         bool `json:"ghostNotes,omitempty"`
	SuperFastSong      bool `json:"superFastSong,omitempty"`
	ProMode            bool `json:"proMode,omitempty"`
	SmallCubes         bool `json:"smallCubes,omitempty"`
}

// String renders the active modifiers as a short comma-separated list of
// the conventional two-letter abbreviations, e.g. "NF,FS".
func (m Modifiers) String() string {
	mods := make([]string, 0, 4)
	if m.UsePause {
		mods = append(mods, "*P")
	}
	if m.BatteryEnergy {
		mods = append(mods, "BE")
	}
	if m.NoFail {
		mods = append(mods, "NF")
	}
	if m.InstaFail {
		mods = append(mods, "IF")
	}
	if m.NoObstacles {
		mods = append(mods, "NO")
	}
	if m.NoBombs {
		mods = append(mods, "NB")
	}
	if m.StrictAngles {
		mods = append(mods, "SA")
	}
	if m.DisappearingArrows {
		mods = append(mods, "DA")
	}
	if m.FasterSong {
		mods = append(mods, "FS")
	}
	if m.SlowerSong {
		mods = append(mods, "SS")
	}
	if m.NoArrows {
		mods = append(mods, "NA")
	}
	if m.GhostNotes {
		mods = append(mods, "GN")
	}
	if m.SuperFastSong {
		mods = append(mods, "SF")
	}
	if m.ProMode {
		mods = append(mods, "PM")
	}
	if m.SmallCubes {
		mods = append(mods, "SC")
	}
	return strings.Join(mods, ",")
}

// Overrides maps each gameplay modifier to the multiplicative factor it
// contributes when active. A factor of 1 leaves the pp value unchanged.
type Overrides struct {
	UsePause           float64 `json:"usePause"`
	BatteryEnergy      float64 `json:"batteryEnergy"`
	NoFail             float64 `json:"noFail"`
	InstaFail          float64 `json:"instaFail"`
	NoObstacles        float64 `json:"noObstacles"`
	NoBombs            float64 `json:"noBombs"`
	StrictAngles       float64 `json:"strictAngles"`
	DisappearingArrows float64 `json:"disappearingArrows"`
	FasterSong         float64 `json:"fasterSong"`
	SlowerSong         float64 `json:"slowerSong"`
	NoArrows           float64 `json:"noArrows"`
	GhostNotes         float64 `json:"ghostNotes"`
	SuperFastSong      float64 `json:"superFastSong"`
	ProMode            float64 `json:"proMode"`
	SmallCubes         float64 `json:"smallCubes"`
}

// DefaultOverrides returns the standard modifier multipliers applied when
// a rule set does not override them.
func DefaultOverrides() Overrides {
	return Overrides{
		UsePause:           1,
		BatteryEnergy:      1,
		NoFail:             0.5,
		InstaFail:          1,
		NoObstacles:        0.95,
		NoBombs:            0.9,
		StrictAngles:       1,
		DisappearingArrows: 1.07,
		FasterSong:         1.08,
		SlowerSong:         0.7,
		NoArrows:           0.7,
		GhostNotes:         1.11,
		SuperFastSong:      1.1,
		ProMode:            1,
		SmallCubes:         1,
	}
}

// Factor returns the product of the override values for every active
// modifier. No active modifiers yields 1. Multiplication is commutative,
// so the result does not depend on any flag ordering.
func (o Overrides) Factor(m Modifiers) float64 {
	factor := 1.0
	if m.UsePause {
		factor *= o.UsePause
	}
	if m.BatteryEnergy {
		factor *= o.BatteryEnergy
	}
	if m.NoFail {
		factor *= o.NoFail
	}
	if m.InstaFail {
		factor *= o.InstaFail
	}
	if m.NoObstacles {
		factor *= o.NoObstacles
	}
	if m.NoBombs {
		factor *= o.NoBombs
	}
	if m.StrictAngles {
		factor *= o.StrictAngles
	}
	if m.DisappearingArrows {
		factor *= o.DisappearingArrows
	}
	if m.FasterSong {
		factor *= o.FasterSong
	}
	if m.SlowerSong {
		factor *= o.SlowerSong
	}
	if m.NoArrows {
		factor *= o.NoArrows
	}
	if m.GhostNotes {
		factor *= o.GhostNotes
	}
	if m.SuperFastSong {
		factor *= o.SuperFastSong
	}
	if m.ProMode {
		factor *= o.ProMode
	}
	if m.SmallCubes {
		factor *= o.SmallCubes
	}
	return factor
}
