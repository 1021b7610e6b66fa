package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/acc-is-sponge/beat-speedrun-mod/internal/domain/leaderboard"
	"github.com/acc-is-sponge/beat-speedrun-mod/internal/domain/rules"
	"github.com/acc-is-sponge/beat-speedrun-mod/internal/domain/speedrun"
	"github.com/acc-is-sponge/beat-speedrun-mod/pkg/metrics"
)

const (
	runsDir   = "runs"
	boardsDir = "leaderboards"

	defaultDirMode  = 0o755
	defaultFileMode = 0o644
)

// FileStore implements RunStore and BoardStore on a local data
// directory. Each run snapshot lives in runs/<id>.json and each
// leaderboard in leaderboards/<compatibility-key>.json. Writes go
// through a temp file and rename so a crash never leaves a truncated
// document behind.
type FileStore struct {
	dataDir  string
	dirMode  os.FileMode
	fileMode os.FileMode
}

var _ RunStore = (*FileStore)(nil)
var _ BoardStore = (*FileStore)(nil)

// NewFileStore opens (creating if needed) a data directory.
func NewFileStore(dataDir string, opts ...Option) (*FileStore, error) {
	s := &FileStore{
		dataDir:  dataDir,
		dirMode:  defaultDirMode,
		fileMode: defaultFileMode,
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, sub := range []string{runsDir, boardsDir} {
		if err := os.MkdirAll(filepath.Join(dataDir, sub), s.dirMode); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	return s, nil
}

// SaveRun writes the run's snapshot, replacing any previous save.
func (s *FileStore) SaveRun(ctx context.Context, run *speedrun.Speedrun) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	started := time.Now()

	data, err := run.ToSnapshot().Marshal()
	if err != nil {
		metrics.RecordStoreError("save_run")
		return err
	}
	if err := s.writeFile(s.runPath(run.ID()), data); err != nil {
		metrics.RecordStoreError("save_run")
		return fmt.Errorf("save run %s: %w", run.ID(), err)
	}

	metrics.RecordStoreSaveLatency(float64(time.Since(started).Milliseconds()))
	return nil
}

// LoadSnapshot reads a saved snapshot without replaying it.
func (s *FileStore) LoadSnapshot(ctx context.Context, id string) (*speedrun.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	started := time.Now()

	data, err := os.ReadFile(s.runPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		metrics.RecordStoreError("load_run")
		return nil, fmt.Errorf("load run %s: %w", id, err)
	}

	snapshot, err := speedrun.ParseSnapshot(data)
	if err != nil {
		metrics.RecordStoreError("load_run")
		return nil, fmt.Errorf("%w: run %s: %w", ErrCorruptSave, id, err)
	}

	metrics.RecordStoreLoadLatency(float64(time.Since(started).Milliseconds()))
	return snapshot, nil
}

// LoadRun restores a run from its snapshot, revalidating the pinned
// checksums against the supplied documents.
func (s *FileStore) LoadRun(ctx context.Context, id string, ruleSet *rules.RuleSet, catalog *rules.SongCatalog) (*speedrun.Speedrun, error) {
	snapshot, err := s.LoadSnapshot(ctx, id)
	if err != nil {
		return nil, err
	}

	run, err := speedrun.Load(snapshot, ruleSet, catalog)
	if err != nil {
		metrics.RecordStoreError("load_run")
		return nil, fmt.Errorf("restore run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns the ids of every saved run.
func (s *FileStore) ListRuns(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(filepath.Join(s.dataDir, runsDir))
	if err != nil {
		metrics.RecordStoreError("list_runs")
		return nil, fmt.Errorf("list runs: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}

// DeleteRun removes a saved run. Deleting an unknown id is not an error.
func (s *FileStore) DeleteRun(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(s.runPath(id))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		metrics.RecordStoreError("delete_run")
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	return nil
}

// Board returns the leaderboard for a compatibility key, or a fresh
// empty board when none has been saved yet.
func (s *FileStore) Board(ctx context.Context, key string) (*leaderboard.Board, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	started := time.Now()

	data, err := os.ReadFile(s.boardPath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return leaderboard.NewBoard(key), nil
	}
	if err != nil {
		metrics.RecordStoreError("load_board")
		return nil, fmt.Errorf("load leaderboard %s: %w", key, err)
	}

	board, err := leaderboard.ParseBoard(data)
	if err != nil {
		metrics.RecordStoreError("load_board")
		return nil, fmt.Errorf("%w: leaderboard %s: %w", ErrCorruptSave, key, err)
	}

	metrics.RecordStoreLoadLatency(float64(time.Since(started).Milliseconds()))
	return board, nil
}

// SaveBoard writes the leaderboard, replacing any previous save.
func (s *FileStore) SaveBoard(ctx context.Context, board *leaderboard.Board) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	started := time.Now()

	data, err := board.Marshal()
	if err != nil {
		metrics.RecordStoreError("save_board")
		return err
	}
	if err := s.writeFile(s.boardPath(board.Key), data); err != nil {
		metrics.RecordStoreError("save_board")
		return fmt.Errorf("save leaderboard %s: %w", board.Key, err)
	}

	metrics.RecordStoreSaveLatency(float64(time.Since(started).Milliseconds()))
	return nil
}

func (s *FileStore) runPath(id string) string {
	return filepath.Join(s.dataDir, runsDir, id+".json")
}

func (s *FileStore) boardPath(key string) string {
	return filepath.Join(s.dataDir, boardsDir, key+".json")
}

// writeFile writes data to a sibling temp file and renames it over the
// target.
func (s *FileStore) writeFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, s.fileMode); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
