package transport

import "time"

// FilterRequest carries the raw query parameters of a deal filter request.
// Gin's query binding rejects values that do not parse as the declared type,
// so a malformed number or boolean fails the request instead of silently
// defaulting. Range and cross-field rules live in the filter spec parser.
type FilterRequest struct {
	MinPrice *float64 `form:"min_price"`
	MaxPrice *float64 `form:"max_price"`

	Lat    *float64 `form:"lat"`
	Lng    *float64 `form:"lng"`
	Radius *float64 `form:"radius"`

	Source   *string  `form:"source"`
	MinScore *float64 `form:"min_score"`

	Limit    *int `form:"limit"`
	Page     *int `form:"page"`
	PageSize *int `form:"page_size"`

	City   *string `form:"city"`
	State  *string `form:"state"`
	County *string `form:"county"`

	PropertyCategory *string `form:"property_category" validate:"omitempty,oneof=residential commercial land"`
	PropertyType     *string `form:"property_type"`

	MinBedrooms  *int     `form:"min_bedrooms"`
	MaxBedrooms  *int     `form:"max_bedrooms"`
	MinBathrooms *float64 `form:"min_bathrooms"`
	MaxBathrooms *float64 `form:"max_bathrooms"`
	MinSqft      *int     `form:"min_sqft"`
	MaxSqft      *int     `form:"max_sqft"`
	MinLotSize   *float64 `form:"min_lot_size"`
	MaxLotSize   *float64 `form:"max_lot_size"`

	HasPool     bool `form:"has_pool"`
	HasGym      bool `form:"has_gym"`
	PetFriendly bool `form:"pet_friendly"`

	CrimeRate       *string  `form:"crime_rate"`
	FloodZone       *string  `form:"flood_zone"`
	SewageSystem    *string  `form:"sewage_system"`
	MinSchoolRating *float64 `form:"min_school_rating"`

	MarketStatus *string `form:"market_status" validate:"omitempty,oneof=on_market off_market"`
}

// DealResponse is one deal row of a filter result, enriched with the derived
// match fields when a match exists.
type DealResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Price     float64   `json:"price"`
	URL       *string   `json:"url"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`

	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`

	City   string  `json:"city"`
	State  string  `json:"state"`
	County *string `json:"county"`

	PropertyCategory string   `json:"propertyCategory"`
	PropertyType     string   `json:"propertyType"`
	Bedrooms         *int     `json:"bedrooms"`
	Bathrooms        *float64 `json:"bathrooms"`
	SquareFeet       *int     `json:"squareFeet"`
	LotSize          *float64 `json:"lotSize"`

	HasPool     bool `json:"hasPool"`
	HasGym      bool `json:"hasGym"`
	PetFriendly bool `json:"petFriendly"`

	CrimeRate    *string  `json:"crimeRate"`
	FloodZone    *string  `json:"floodZone"`
	SchoolRating *float64 `json:"schoolRating"`
	SewageSystem *string  `json:"sewageSystem"`
	OnMarket     *bool    `json:"onMarket"`

	ListingID        *string  `json:"listingId"`
	MatchScore       *float64 `json:"matchScore"`
	DistanceMeters   *float64 `json:"distanceMeters"`
	PriceDiffPercent *float64 `json:"priceDiffPercent"`
	AgentName        *string  `json:"agentName"`
	AgentPhone       *string  `json:"agentPhone"`
	AgentEmail       *string  `json:"agentEmail"`
	Brokerage        *string  `json:"brokerage"`
}

// FilterResponse is the paginated filter result.
type FilterResponse struct {
	Deals    []DealResponse `json:"deals"`
	Count    int            `json:"count"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	HasMore  bool           `json:"has_more"`
}

// StatsResponse is the dashboard statistics payload.
type StatsResponse struct {
	TotalDeals    int     `json:"total_deals"`
	RecentDeals   int     `json:"recent_deals"`
	MatchedDeals  int     `json:"matched_deals"`
	AvgMatchScore float64 `json:"avg_match_score"`
}
