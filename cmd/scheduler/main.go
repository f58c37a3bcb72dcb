package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"deal_finder_backend/internal/deals/repository"
	"deal_finder_backend/internal/listings"
	"deal_finder_backend/internal/matching"
	"deal_finder_backend/internal/scheduler"
	"deal_finder_backend/platform/config"
	"deal_finder_backend/platform/db"
	"deal_finder_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	repo := repository.New(pool)
	source := listings.New(cfg.GetListingsBaseURL(), cfg.GetListingsAPIKey(), log)
	matcher := matching.New(source, repo, matching.Config{
		BatchLimit:     cfg.GetMatcherBatchLimit(),
		RecencyWindow:  cfg.GetMatcherRecencyWindow(),
		Parallelism:    cfg.GetMatcherParallelism(),
		SearchRadiusKM: cfg.GetListingsSearchRadiusKM(),
	}, log)

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}
	defer func() { _ = client.Close() }()

	store := scheduler.NewScheduleStore(pool)
	seedSchedules := map[string]scheduler.Frequency{
		scheduler.JobCrossReference: scheduler.FrequencyDaily,
		"open_addresses":            scheduler.FrequencyWeekly,
		"county_tax_rolls":          scheduler.FrequencyMonthly,
		"flood_zones":               scheduler.FrequencyQuarterly,
		"school_ratings":            scheduler.FrequencyQuarterly,
	}
	for job, freq := range seedSchedules {
		if err := store.Seed(ctx, job, freq, time.Now()); err != nil {
			log.Warn("failed to seed schedule", "job", job, "error", err)
		}
	}

	dispatcher := scheduler.NewDispatcher(store, client, log)
	go dispatcher.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, matcher, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
