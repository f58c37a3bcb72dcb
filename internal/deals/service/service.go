// Package service implements the staged deal filter engine: a coarse
// location pass delegated to storage, then a full in-memory predicate pass
// with deterministic pagination.
package service

import (
	"context"
	"time"

	"deal_finder_backend/internal/deals/domain"
	"deal_finder_backend/internal/deals/repository"
	"deal_finder_backend/platform/apperr"
	"deal_finder_backend/platform/logger"
)

// RecordStore is the storage contract the filter engine consumes.
type RecordStore interface {
	EnrichedByLocation(ctx context.Context, filter repository.LocationFilter) ([]domain.Deal, error)
	Stats(ctx context.Context, recentWindow time.Duration) (repository.Stats, error)
}

// FilterResult is the paginated outcome of one filter query.
type FilterResult struct {
	Deals    []domain.Deal
	Count    int
	Total    int
	Page     int
	PageSize int
	HasMore  bool
}

// Stats summarizes the dataset for the dashboard.
type Stats struct {
	TotalDeals    int
	RecentDeals   int
	MatchedDeals  int
	AvgMatchScore float64
}

type Service struct {
	store RecordStore
	log   *logger.Logger
}

func New(store RecordStore, log *logger.Logger) *Service {
	return &Service{store: store, log: log}
}

// Query runs the two filter stages in order. The location stage narrows the
// candidate set in storage (newest first); the attribute stage evaluates the
// remaining predicates in memory without reordering; pagination slices the
// surviving rows. Storage failures surface as a generic query failure,
// distinct from an empty result.
func (s *Service) Query(ctx context.Context, spec FilterSpec) (*FilterResult, error) {
	location := repository.LocationFilter{
		City:   spec.City,
		State:  spec.State,
		County: spec.County,
	}
	if spec.Lat != nil && spec.Lng != nil && spec.Radius != nil {
		location.Lat = spec.Lat
		location.Lng = spec.Lng
		location.RadiusMeters = *spec.Radius * 1000
	}

	candidates, err := s.store.EnrichedByLocation(ctx, location)
	if err != nil {
		s.log.DatabaseError("deals.EnrichedByLocation", err)
		return nil, apperr.Wrap(apperr.KindInternal, "query failed", err).WithOp("deals.Query")
	}

	filtered := make([]domain.Deal, 0, len(candidates))
	for _, deal := range candidates {
		if matchesAttributes(spec, deal) {
			filtered = append(filtered, deal)
		}
	}

	total := len(filtered)
	start := (spec.Page - 1) * spec.PageSize
	if start < 0 {
		start = 0
	}
	end := start + spec.PageSize

	var page []domain.Deal
	if start < total {
		if end > total {
			page = filtered[start:total]
		} else {
			page = filtered[start:end]
		}
	} else {
		page = []domain.Deal{}
	}

	return &FilterResult{
		Deals:    page,
		Count:    len(page),
		Total:    total,
		Page:     spec.Page,
		PageSize: spec.PageSize,
		HasMore:  end < total,
	}, nil
}

// DashboardStats returns dataset totals for the stats endpoint. The recent
// window matches the original dashboard definition of seven days.
func (s *Service) DashboardStats(ctx context.Context) (*Stats, error) {
	stats, err := s.store.Stats(ctx, 7*24*time.Hour)
	if err != nil {
		s.log.DatabaseError("deals.Stats", err)
		return nil, apperr.Wrap(apperr.KindInternal, "query failed", err).WithOp("deals.DashboardStats")
	}

	return &Stats{
		TotalDeals:    stats.TotalDeals,
		RecentDeals:   stats.RecentDeals,
		MatchedDeals:  stats.MatchedDeals,
		AvgMatchScore: stats.AvgMatchScore,
	}, nil
}
