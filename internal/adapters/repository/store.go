// Package repository persists runs and leaderboards as JSON documents
// on the local filesystem.
package repository

import (
	"context"

	"github.com/acc-is-sponge/beat-speedrun-mod/internal/domain/leaderboard"
	"github.com/acc-is-sponge/beat-speedrun-mod/internal/domain/rules"
	"github.com/acc-is-sponge/beat-speedrun-mod/internal/domain/speedrun"
)

// RunStore provides read/write access to saved run snapshots.
type RunStore interface {
	// SaveRun writes the run's snapshot, replacing any previous save.
	SaveRun(ctx context.Context, run *speedrun.Speedrun) error

	// LoadRun restores a run from its snapshot, revalidating the pinned
	// checksums against the supplied documents.
	// Returns ErrRunNotFound if no snapshot exists for the id.
	LoadRun(ctx context.Context, id string, ruleSet *rules.RuleSet, catalog *rules.SongCatalog) (*speedrun.Speedrun, error)

	// LoadSnapshot reads a saved snapshot without replaying it.
	// Returns ErrRunNotFound if no snapshot exists for the id.
	LoadSnapshot(ctx context.Context, id string) (*speedrun.Snapshot, error)

	// ListRuns returns the ids of every saved run.
	ListRuns(ctx context.Context) ([]string, error)

	// DeleteRun removes a saved run. Deleting an unknown id is not an error.
	DeleteRun(ctx context.Context, id string) error
}

// BoardStore provides read/write access to saved leaderboards.
type BoardStore interface {
	// Board returns the leaderboard for a compatibility key, or a fresh
	// empty board when none has been saved yet.
	Board(ctx context.Context, key string) (*leaderboard.Board, error)

	// SaveBoard writes the leaderboard, replacing any previous save.
	SaveBoard(ctx context.Context, board *leaderboard.Board) error
}
