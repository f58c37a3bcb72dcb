// Command import loads deals from JSON or CSV files into the database.
// With file arguments it imports those files; without arguments it imports
// every .json and .csv file in the configured data directory.
package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"deal_finder_backend/internal/deals/repository"
	"deal_finder_backend/internal/imports"
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

	ctx := context.Background()

	if err := db.RunMigrations(ctx, cfg, "migrations"); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	repo := repository.New(pool)
	svc := imports.New(repo, log)

	paths := os.Args[1:]
	if len(paths) == 0 {
		paths, err = dataFiles(cfg.GetImportDataDir())
		if err != nil {
			log.Error("failed to list data directory", "error", err, "dir", cfg.GetImportDataDir())
			panic("failed to list data directory: " + err.Error())
		}
		if len(paths) == 0 {
			log.Info("nothing to import", "dir", cfg.GetImportDataDir())
			return
		}
	}

	totalImported, totalSkipped := 0, 0
	for _, path := range paths {
		result, err := svc.ImportFile(ctx, path)
		if err != nil {
			log.Error("import failed", "file", path, "error", err)
			panic("import failed: " + err.Error())
		}
		log.Info("file imported", "file", path, "imported", result.Imported, "skipped", result.Skipped)
		totalImported += result.Imported
		totalSkipped += result.Skipped
	}

	// New deals only become visible to the filter API after a view refresh.
	if totalImported > 0 {
		if err := repo.RefreshEnrichedView(ctx); err != nil {
			log.Error("failed to refresh enriched view", "error", err)
			panic("failed to refresh enriched view: " + err.Error())
		}
	}

	log.Info("import complete", "files", len(paths), "imported", totalImported, "skipped", totalSkipped)
}

func dataFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".json", ".csv":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return paths, nil
}
