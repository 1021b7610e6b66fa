// Command mkresults generates a synthetic play session for a song
// catalog: a JSON array of results in completion order, suitable for
// replaying with the bsr command.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/acc-is-sponge/beat-speedrun-mod/internal/domain/rules"
	"github.com/acc-is-sponge/beat-speedrun-mod/internal/domain/scoring"
	"github.com/acc-is-sponge/beat-speedrun-mod/internal/domain/speedrun"
)

// Accuracy distribution bounds.
const (
	baseAccuracyMin   = 0.70
	baseAccuracyRange = 0.28
	retryChance       = 0.2
	modifierChance    = 0.15
	missChance        = 0.4
	maxMissCount      = 5
)

func main() {
	var (
		catalogPath = flag.String("catalog", "documents/catalog.json", "Song catalog document to sample from")
		count       = flag.Int("count", 50, "Number of results to generate")
		start       = flag.String("start", "", "Session start time, RFC3339 (default: now)")
		interval    = flag.Duration("interval", 4*time.Minute, "Mean gap between completions")
		seed        = flag.Int64("seed", 0, "Random seed (default: time-based)")
		out         = flag.String("out", "", "Output file (default: stdout)")
	)
	flag.Parse()

	if err := run(*catalogPath, *count, *start, *interval, *seed, *out); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run(catalogPath string, count int, start string, interval time.Duration, seed int64, out string) error {
	data, err := os.ReadFile(catalogPath)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	catalog, err := rules.ParseSongCatalog(data)
	if err != nil {
		return err
	}
	if catalog.Len() == 0 {
		return fmt.Errorf("catalog %s has no songs", catalogPath)
	}

	startedAt := time.Now().UTC()
	if start != "" {
		startedAt, err = time.Parse(time.RFC3339, start)
		if err != nil {
			return fmt.Errorf("parse start time: %w", err)
		}
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	results := generate(catalog, count, startedAt, interval, rand.New(rand.NewSource(seed)))

	encoded, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	encoded = append(encoded, '\n')

	if out == "" {
		_, err = os.Stdout.Write(encoded)
		return err
	}
	return os.WriteFile(out, encoded, 0o644)
}

// generate samples the catalog into a plausible session: mostly new
// songs, the occasional retry of an earlier one, completion times
// jittered around the mean gap.
func generate(catalog *rules.SongCatalog, count int, startedAt time.Time, interval time.Duration, rng *rand.Rand) []speedrun.Result {
	songs := catalog.Songs()
	sort.Strings(songs)

	results := make([]speedrun.Result, 0, count)
	completedAt := startedAt
	for i := 0; i < count; i++ {
		var song string
		if len(results) > 0 && rng.Float64() < retryChance {
			song = results[rng.Intn(len(results))].Song
		} else {
			song = songs[rng.Intn(len(songs))]
		}

		difficulties := catalog.Difficulties(song)
		sort.Strings(difficulties)
		difficulty := difficulties[rng.Intn(len(difficulties))]

		// Jitter the gap to half..1.5x of the mean.
		gap := time.Duration((0.5 + rng.Float64()) * float64(interval))
		completedAt = completedAt.Add(gap)

		result := speedrun.Result{
			CompletedAt:  completedAt,
			Song:         song,
			Difficulty:   difficulty,
			BaseAccuracy: baseAccuracyMin + rng.Float64()*baseAccuracyRange,
		}
		if rng.Float64() < missChance {
			result.MissNoteCount = rng.Intn(maxMissCount)
			result.BadCutCount = rng.Intn(maxMissCount)
		}
		result.FullCombo = result.MissNoteCount == 0 && result.BadCutCount == 0
		if rng.Float64() < modifierChance {
			result.Modifiers = randomModifiers(rng)
		}
		results = append(results, result)
	}
	return results
}

func randomModifiers(rng *rand.Rand) scoring.Modifiers {
	var m scoring.Modifiers
	switch rng.Intn(4) {
	case 0:
		m.FasterSong = true
	case 1:
		m.SlowerSong = true
	case 2:
		m.NoFail = true
	case 3:
		m.GhostNotes = true
	}
	return m
}
