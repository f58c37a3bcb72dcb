// Package matching implements the cross-reference batch job: it scores recent
// deals against external listings and persists the accepted matches.
package matching

import (
	"context"
	"sync"
	"time"

	"deal_finder_backend/internal/deals/domain"
	"deal_finder_backend/internal/deals/repository"
	"deal_finder_backend/platform/geo"
	"deal_finder_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

// acceptThreshold is the minimum combined score for a candidate to be
// persisted as a match.
const acceptThreshold = 0.5

// CandidateSource fetches external listings near a point and, per accepted
// listing, the agent contact details.
type CandidateSource interface {
	SearchNear(ctx context.Context, lat, lng, radiusKM float64) ([]domain.ExternalCandidate, error)
	Contact(ctx context.Context, listingID string) (domain.AgentContact, error)
}

// MatchStore is the storage contract of the matcher.
type MatchStore interface {
	RecentWithLocation(ctx context.Context, window time.Duration, limit int) ([]repository.DealPosition, error)
	SaveMatchBatch(ctx context.Context, matches []domain.Match, contacts []domain.Contact) error
	RefreshEnrichedView(ctx context.Context) error
}

// Config bounds one matcher run.
type Config struct {
	BatchLimit     int
	RecencyWindow  time.Duration
	Parallelism    int
	SearchRadiusKM float64
}

type Matcher struct {
	source CandidateSource
	store  MatchStore
	cfg    Config
	log    *logger.Logger
}

func New(source CandidateSource, store MatchStore, cfg Config, log *logger.Logger) *Matcher {
	if cfg.Parallelism < 1 {
		cfg.Parallelism = 1
	}
	return &Matcher{source: source, store: store, cfg: cfg, log: log.WithJob("cross_reference")}
}

// Run executes one cross-reference pass. Candidate fetching and scoring fan
// out with bounded parallelism; a fetch failure for one deal is logged and
// skipped so the rest of the batch proceeds. All accepted matches of the run
// are persisted in a single transaction, then the read view is refreshed.
// A persist failure drops the whole run; the next scheduled run redoes it.
func (m *Matcher) Run(ctx context.Context) error {
	started := time.Now()
	m.log.JobEvent("cross_reference", "started")

	deals, err := m.store.RecentWithLocation(ctx, m.cfg.RecencyWindow, m.cfg.BatchLimit)
	if err != nil {
		return err
	}

	var (
		mu       sync.Mutex
		matches  []domain.Match
		contacts []domain.Contact
		skipped  int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.Parallelism)

	for _, deal := range deals {
		g.Go(func() error {
			candidates, err := m.source.SearchNear(gctx, deal.Lat, deal.Lng, m.cfg.SearchRadiusKM)
			if err != nil {
				m.log.Warn("candidate fetch failed, skipping deal",
					"deal_id", deal.ID, "error", err)
				mu.Lock()
				skipped++
				mu.Unlock()
				return nil
			}

			dealMatches := scoreCandidates(deal, candidates)

			// Contact info is only worth fetching for accepted matches. A
			// failed lookup keeps the match and drops the contact row.
			var dealContacts []domain.Contact
			for _, match := range dealMatches {
				contact, err := m.source.Contact(gctx, match.ListingID)
				if err != nil {
					m.log.Warn("contact fetch failed",
						"deal_id", deal.ID, "listing_id", match.ListingID, "error", err)
					continue
				}
				dealContacts = append(dealContacts, domain.Contact{
					DealID:     deal.ID,
					ListingID:  match.ListingID,
					AgentName:  contact.AgentName,
					AgentPhone: contact.AgentPhone,
					AgentEmail: contact.AgentEmail,
					Brokerage:  contact.Brokerage,
				})
			}

			mu.Lock()
			matches = append(matches, dealMatches...)
			contacts = append(contacts, dealContacts...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if len(matches) > 0 {
		if err := m.store.SaveMatchBatch(ctx, matches, contacts); err != nil {
			return err
		}
		if err := m.store.RefreshEnrichedView(ctx); err != nil {
			return err
		}
	}

	m.log.JobEvent("cross_reference", "completed",
		"deals", len(deals),
		"matches", len(matches),
		"skipped", skipped,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return nil
}

// scoreCandidates evaluates every candidate against one deal and returns the
// accepted matches.
func scoreCandidates(deal repository.DealPosition, candidates []domain.ExternalCandidate) []domain.Match {
	var matches []domain.Match

	for _, cand := range candidates {
		score := geo.MatchScore(deal.Lat, deal.Lng, deal.Price, cand.Lat, cand.Lng, cand.Price)
		if score < acceptThreshold {
			continue
		}

		priceDiff := 0.0
		if deal.Price > 0 {
			priceDiff = (cand.Price - deal.Price) / deal.Price * 100
		}

		matches = append(matches, domain.Match{
			DealID:           deal.ID,
			ListingID:        cand.ID,
			Score:            score,
			DistanceMeters:   geo.Distance(deal.Lat, deal.Lng, cand.Lat, cand.Lng),
			PriceDiffPercent: priceDiff,
		})
	}

	return matches
}
