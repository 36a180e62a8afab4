package services

import (
	"context"
	"fmt"

	"github.com/j-veylop/zai-dashboard-tui/internal/config"
	"github.com/j-veylop/zai-dashboard-tui/internal/db"
	"github.com/j-veylop/zai-dashboard-tui/internal/loader"
	"github.com/j-veylop/zai-dashboard-tui/internal/logger"
)

// ImportResult describes one artist written to the fact store.
type ImportResult struct {
	ID      string
	Name    string
	Records int
}

// ImportSummary is the outcome of ImportDir.
type ImportSummary struct {
	Imported []ImportResult
	// Removed lists stored artists whose files are gone from the data dir.
	Removed []string
}

// ImportDir loads every fact file in cfg.DataDir, replaces the matching
// artists in the SQLite store at cfg.DatabasePath and removes stored artists
// that no longer have a file. The store is vacuumed after a removal.
func ImportDir(ctx context.Context, cfg *config.Config) (*ImportSummary, error) {
	reg, err := loader.LoadRegistry(cfg.ArtistsMetadata)
	if err != nil {
		return nil, err
	}
	artists, err := loader.LoadDir(ctx, cfg.DataDir, reg, cfg.AggregationWorkers)
	if err != nil {
		return nil, fmt.Errorf("load data dir: %w", err)
	}

	database, err := db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	summary := &ImportSummary{Imported: make([]ImportResult, 0, len(artists))}
	present := make(map[string]bool, len(artists))
	for _, a := range artists {
		n, err := database.ImportArtist(ctx, a)
		if err != nil {
			return summary, err
		}
		present[a.Profile.ID] = true
		summary.Imported = append(summary.Imported, ImportResult{ID: a.Profile.ID, Name: a.Profile.Name, Records: n})
		logger.Info("artist imported", "id", a.Profile.ID, "records", n)
	}

	stored, err := database.ListArtists(ctx)
	if err != nil {
		return summary, err
	}
	for _, info := range stored {
		if present[info.Profile.ID] {
			continue
		}
		if err := database.DeleteArtist(ctx, info.Profile.ID); err != nil {
			return summary, err
		}
		summary.Removed = append(summary.Removed, info.Profile.ID)
		logger.Info("artist removed", "id", info.Profile.ID)
	}

	if len(summary.Removed) > 0 {
		if err := database.Vacuum(ctx); err != nil {
			return summary, err
		}
	}
	return summary, nil
}
