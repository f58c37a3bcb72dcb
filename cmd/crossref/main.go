// Command crossref runs one cross-reference pass and exits. Useful for
// backfilling matches after a bulk import without waiting for the schedule.
package main

import (
	"context"

	"deal_finder_backend/internal/deals/repository"
	"deal_finder_backend/internal/listings"
	"deal_finder_backend/internal/matching"
	"deal_finder_backend/platform/config"
	"deal_finder_backend/platform/db"
	"deal_finder_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting cross-reference run")

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
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

	if err := matcher.Run(ctx); err != nil {
		log.Error("cross-reference run failed", "error", err)
		panic("cross-reference run failed: " + err.Error())
	}

	log.Info("cross-reference run complete")
}
