// Package repository implements deal storage on PostgreSQL/PostGIS.
// It owns the geographic pre-filtering of the location stage and the
// enriched read view combining deals with their best match.
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"deal_finder_backend/internal/deals/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// LocationFilter is the location-stage predicate set. Radius containment is
// applied only when Lat, Lng and RadiusMeters are all set; city and county
// match as case-insensitive substrings, state matches exactly.
type LocationFilter struct {
	Lat          *float64
	Lng          *float64
	RadiusMeters float64
	City         string
	State        string
	County       string
}

// Stats holds dataset aggregates for the dashboard.
type Stats struct {
	TotalDeals    int
	RecentDeals   int
	MatchedDeals  int
	AvgMatchScore float64
}

// DealPosition is the minimal deal projection the matcher works from.
type DealPosition struct {
	ID    uuid.UUID
	Title string
	Price float64
	Lat   float64
	Lng   float64
}

const enrichedColumns = `
	id, title, price, url, source, created_at,
	lat, lng, city, state, county,
	property_category, property_type, bedrooms, bathrooms, square_feet, lot_size,
	has_pool, has_gym, pet_friendly,
	crime_rate, flood_zone, school_rating, sewage_system, on_market,
	listing_id, match_score, distance_meters, price_diff_percent,
	agent_name, agent_phone, agent_email, brokerage`

// EnrichedByLocation returns all deals satisfying the supplied location
// predicates, newest first, with derived match fields when a match exists.
// The result is not paginated; the filter engine owns the later stages.
func (r *Repository) EnrichedByLocation(ctx context.Context, filter LocationFilter) ([]domain.Deal, error) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(enrichedColumns)
	sb.WriteString(" FROM deals_enriched WHERE 1=1")

	args := make([]interface{}, 0, 5)

	if filter.Lat != nil && filter.Lng != nil && filter.RadiusMeters > 0 {
		args = append(args, *filter.Lng, *filter.Lat, filter.RadiusMeters)
		fmt.Fprintf(&sb, " AND ST_DWithin(geom::geography, ST_SetSRID(ST_MakePoint($%d, $%d), 4326)::geography, $%d)",
			len(args)-2, len(args)-1, len(args))
	}
	if filter.City != "" {
		args = append(args, "%"+filter.City+"%")
		fmt.Fprintf(&sb, " AND city ILIKE $%d", len(args))
	}
	if filter.State != "" {
		args = append(args, filter.State)
		fmt.Fprintf(&sb, " AND state = $%d", len(args))
	}
	if filter.County != "" {
		args = append(args, "%"+filter.County+"%")
		fmt.Fprintf(&sb, " AND county ILIKE $%d", len(args))
	}

	sb.WriteString(" ORDER BY created_at DESC")

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("enriched location query failed: %w", err)
	}
	defer rows.Close()

	deals := make([]domain.Deal, 0)
	for rows.Next() {
		var d domain.Deal
		if err := rows.Scan(
			&d.ID, &d.Title, &d.Price, &d.URL, &d.Source, &d.CreatedAt,
			&d.Lat, &d.Lng, &d.City, &d.State, &d.County,
			&d.PropertyCategory, &d.PropertyType, &d.Bedrooms, &d.Bathrooms, &d.SquareFeet, &d.LotSize,
			&d.HasPool, &d.HasGym, &d.PetFriendly,
			&d.CrimeRate, &d.FloodZone, &d.SchoolRating, &d.SewageSystem, &d.OnMarket,
			&d.ListingID, &d.MatchScore, &d.DistanceMeters, &d.PriceDiffPercent,
			&d.AgentName, &d.AgentPhone, &d.AgentEmail, &d.Brokerage,
		); err != nil {
			return nil, err
		}
		deals = append(deals, d)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return deals, nil
}

// RecentWithLocation returns deals created within the window that have a
// position, newest first, capped at limit. This feeds the matcher batch.
func (r *Repository) RecentWithLocation(ctx context.Context, window time.Duration, limit int) ([]DealPosition, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT d.id, d.title, d.price, ST_Y(dl.geom) AS lat, ST_X(dl.geom) AS lng
		FROM deals d
		JOIN deal_locations dl ON dl.deal_id = d.id
		WHERE d.created_at > now() - $1::interval
		ORDER BY d.created_at DESC
		LIMIT $2
	`, fmt.Sprintf("%d seconds", int(window.Seconds())), limit)
	if err != nil {
		return nil, fmt.Errorf("recent deals query failed: %w", err)
	}
	defer rows.Close()

	deals := make([]DealPosition, 0)
	for rows.Next() {
		var d DealPosition
		if err := rows.Scan(&d.ID, &d.Title, &d.Price, &d.Lat, &d.Lng); err != nil {
			return nil, err
		}
		deals = append(deals, d)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return deals, nil
}

// SaveMatchBatch persists the matches and contacts of one matcher run in a
// single transaction. Rows are keyed on (deal_id, listing_id) and upserted,
// so re-running the matcher over unchanged deals never duplicates a match.
func (r *Repository) SaveMatchBatch(ctx context.Context, matches []domain.Match, contacts []domain.Contact) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin match batch: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, m := range matches {
		if _, err := tx.Exec(ctx, `
			INSERT INTO deal_listing_matches (deal_id, listing_id, match_score, distance_meters, price_diff_percent)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (deal_id, listing_id) DO UPDATE
			SET match_score = EXCLUDED.match_score,
			    distance_meters = EXCLUDED.distance_meters,
			    price_diff_percent = EXCLUDED.price_diff_percent,
			    updated_at = now()
		`, m.DealID, m.ListingID, m.Score, m.DistanceMeters, m.PriceDiffPercent); err != nil {
			return fmt.Errorf("upsert match: %w", err)
		}
	}

	for _, c := range contacts {
		if _, err := tx.Exec(ctx, `
			INSERT INTO listing_contacts (deal_id, listing_id, agent_name, agent_phone, agent_email, brokerage)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (deal_id, listing_id) DO UPDATE
			SET agent_name = EXCLUDED.agent_name,
			    agent_phone = EXCLUDED.agent_phone,
			    agent_email = EXCLUDED.agent_email,
			    brokerage = EXCLUDED.brokerage
		`, c.DealID, c.ListingID, c.AgentName, c.AgentPhone, c.AgentEmail, c.Brokerage); err != nil {
			return fmt.Errorf("upsert contact: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// RefreshEnrichedView rebuilds the read view after a matcher batch.
// The concurrent refresh lets filter queries keep reading the old view until
// the new one is complete; a partially refreshed view is never visible.
func (r *Repository) RefreshEnrichedView(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `REFRESH MATERIALIZED VIEW CONCURRENTLY deals_enriched`)
	if err != nil {
		return fmt.Errorf("refresh enriched view: %w", err)
	}
	return nil
}

// Stats aggregates dashboard counters.
func (r *Repository) Stats(ctx context.Context, recentWindow time.Duration) (Stats, error) {
	var stats Stats
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM deals),
			(SELECT COUNT(*) FROM deals WHERE created_at > now() - $1::interval),
			(SELECT COUNT(DISTINCT deal_id) FROM deal_listing_matches),
			COALESCE((SELECT AVG(match_score) FROM deal_listing_matches), 0)
	`, fmt.Sprintf("%d seconds", int(recentWindow.Seconds()))).Scan(
		&stats.TotalDeals, &stats.RecentDeals, &stats.MatchedDeals, &stats.AvgMatchScore,
	)
	if err != nil {
		return Stats{}, fmt.Errorf("stats query failed: %w", err)
	}
	return stats, nil
}

// CreateDealParams carries a new deal from manual entry or bulk import.
type CreateDealParams struct {
	Title  string
	Price  float64
	URL    *string
	Source string
	Lat    float64
	Lng    float64

	City   string
	State  string
	County *string

	PropertyCategory string
	PropertyType     string
	Bedrooms         *int
	Bathrooms        *float64
	SquareFeet       *int
	LotSize          *float64

	HasPool     bool
	HasGym      bool
	PetFriendly bool

	CrimeRate    *string
	FloodZone    *string
	SchoolRating *float64
	SewageSystem *string
	OnMarket     bool
}

// CreateDeal inserts a deal and its location in one transaction and returns
// the new deal id.
func (r *Repository) CreateDeal(ctx context.Context, params CreateDealParams) (uuid.UUID, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin deal insert: %w", err)
	}
	defer tx.Rollback(ctx)

	var id uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO deals (
			title, price, url, source, city, state, county,
			property_category, property_type, bedrooms, bathrooms, square_feet, lot_size,
			has_pool, has_gym, pet_friendly,
			crime_rate, flood_zone, school_rating, sewage_system, on_market
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING id
	`,
		params.Title, params.Price, params.URL, params.Source, params.City, params.State, params.County,
		params.PropertyCategory, params.PropertyType, params.Bedrooms, params.Bathrooms, params.SquareFeet, params.LotSize,
		params.HasPool, params.HasGym, params.PetFriendly,
		params.CrimeRate, params.FloodZone, params.SchoolRating, params.SewageSystem, params.OnMarket,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert deal: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO deal_locations (deal_id, geom)
		VALUES ($1, ST_SetSRID(ST_MakePoint($2, $3), 4326))
	`, id, params.Lng, params.Lat); err != nil {
		return uuid.Nil, fmt.Errorf("insert deal location: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, err
	}

	return id, nil
}
