// Command bsr replays a recorded play session against a rule set and
// prints the run's progress and the resulting leaderboards.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	service "github.com/acc-is-sponge/beat-speedrun-mod/internal/app"
	"github.com/acc-is-sponge/beat-speedrun-mod/internal/adapters/repository"
	"github.com/acc-is-sponge/beat-speedrun-mod/internal/config"
	"github.com/acc-is-sponge/beat-speedrun-mod/internal/domain/leaderboard"
	"github.com/acc-is-sponge/beat-speedrun-mod/internal/domain/rules"
	"github.com/acc-is-sponge/beat-speedrun-mod/internal/domain/speedrun"
	"github.com/acc-is-sponge/beat-speedrun-mod/pkg/logger"
	"github.com/acc-is-sponge/beat-speedrun-mod/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	// Initialize logging
	if err := logger.Init(); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	ruleSet, catalog, err := loadDocuments(cfg)
	if err != nil {
		return err
	}
	log.Info(ctx, "rule documents loaded",
		logger.String("ruleSet", ruleSet.Title),
		logger.Int("songs", catalog.Len()),
	)

	results, err := loadResults(cfg.ResultsPath)
	if err != nil {
		return err
	}

	store, err := repository.NewFileStore(cfg.DataDir)
	if err != nil {
		return err
	}

	target, err := cfg.Target()
	if err != nil {
		return err
	}

	svc := service.New(cfg.RuleSetPath, ruleSet, catalog, store, store,
		service.WithLogger(log),
		service.WithAutoStopOnTarget(cfg.AutoStopOnTarget),
	)

	// Optional Prometheus endpoint for long replays.
	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr, log)
	}

	run, err := svc.Start(ctx, target)
	if err != nil {
		return err
	}

	for _, result := range results {
		if ctx.Err() != nil {
			break
		}
		scored, err := svc.Submit(ctx, result)
		if err != nil {
			return err
		}
		if scored == nil {
			// Run finished mid-session; the rest of the log cannot count.
			break
		}
	}

	if svc.Current() != nil {
		if err := svc.Stop(ctx); err != nil {
			return err
		}
	}

	printRun(run)
	return printLeaderboards(ctx, svc)
}

// loadDocuments reads and parses the rule set and the catalog it pins.
func loadDocuments(cfg *config.Config) (*rules.RuleSet, *rules.SongCatalog, error) {
	ruleSetData, err := os.ReadFile(cfg.RuleSetPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read rule set: %w", err)
	}
	ruleSet, err := rules.ParseRuleSet(ruleSetData)
	if err != nil {
		return nil, nil, err
	}

	catalogData, err := os.ReadFile(cfg.CatalogPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read catalog: %w", err)
	}
	catalog, err := rules.ParseSongCatalog(catalogData)
	if err != nil {
		return nil, nil, err
	}
	return ruleSet, catalog, nil
}

// loadResults reads a recorded play session: a JSON array of results in
// completion order.
func loadResults(path string) ([]speedrun.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	var results []speedrun.Result
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return results, nil
}

func serveMetrics(ctx context.Context, addr string, log logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	log.Info(ctx, "serving metrics", logger.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error(ctx, "metrics server failed", logger.Error(err))
	}
}

func printRun(run *speedrun.Speedrun) {
	progress := run.Progress()
	finishedAt, _ := progress.FinishedAt()

	fmt.Printf("run %s\n", run.ID())
	fmt.Printf("  total: %.2fpp over %d songs\n", run.TotalPP(), len(run.TopScores()))
	fmt.Printf("  elapsed: %s\n", progress.ElapsedTime(finishedAt).Round(time.Second))
	for _, segment := range progress.Segments() {
		reachedAt, ok := segment.ReachedAt()
		if !ok {
			fmt.Printf("  %-12s %dpp  not reached\n", segment.Segment, segment.RequiredPP)
			continue
		}
		fmt.Printf("  %-12s %dpp  reached at %s\n", segment.Segment, segment.RequiredPP, reachedAt.Round(time.Second))
	}
}

func printLeaderboards(ctx context.Context, svc *service.Service) error {
	for _, group := range []leaderboard.Group{leaderboard.GroupSegments, leaderboard.GroupStats} {
		bests, err := svc.BestRecords(ctx, group, leaderboard.SortBest)
		if err != nil {
			return err
		}
		for _, best := range bests {
			if best.Best == nil {
				continue
			}
			fmt.Printf("%-16s %s (run %s)\n", best.Index.Key, best.Index.Format(best.Best.Value), best.Best.RunID)
		}
	}
	return nil
}
