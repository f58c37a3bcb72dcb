// Package domain holds the core deal entities shared by the filter engine,
// the matcher, and the repositories.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Property categories accepted by imports and filters.
const (
	CategoryResidential = "residential"
	CategoryCommercial  = "commercial"
	CategoryLand        = "land"
)

// Market status filter values.
const (
	MarketStatusOn  = "on_market"
	MarketStatusOff = "off_market"
)

// Deal is an internally tracked property listing, as read from the enriched
// view. Attribute pointers are nil when the source record has no value;
// several predicates treat a missing attribute differently from a present one
// (bound checks skip, amenity checks fail).
type Deal struct {
	ID        uuid.UUID
	Title     string
	Price     float64
	URL       *string
	Source    string
	CreatedAt time.Time

	Lat float64
	Lng float64

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
	OnMarket     *bool

	// Derived fields from the best external listing match, nil when the deal
	// has not been matched yet.
	ListingID        *string
	MatchScore       *float64
	DistanceMeters   *float64
	PriceDiffPercent *float64
	AgentName        *string
	AgentPhone       *string
	AgentEmail       *string
	Brokerage        *string
}

// ExternalCandidate is a listing snapshot from the external provider.
// Candidates are fetched per matching run and never persisted as their own
// entity; only the derived fields of an accepted match survive.
type ExternalCandidate struct {
	ID    string
	Lat   float64
	Lng   float64
	Price float64
}

// AgentContact is the agent/brokerage detail fetched per accepted listing.
type AgentContact struct {
	AgentName  string
	AgentPhone string
	AgentEmail string
	Brokerage  string
}

// Match relates one deal to one external listing with its similarity score.
type Match struct {
	DealID           uuid.UUID
	ListingID        string
	Score            float64
	DistanceMeters   float64
	PriceDiffPercent float64
}

// Contact is the denormalized agent/brokerage info persisted alongside a match.
type Contact struct {
	DealID     uuid.UUID
	ListingID  string
	AgentName  string
	AgentPhone string
	AgentEmail string
	Brokerage  string
}
