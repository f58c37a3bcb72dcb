package service

import (
	"strings"

	"deal_finder_backend/internal/deals/domain"
	"deal_finder_backend/internal/deals/transport"
	"deal_finder_backend/platform/apperr"
)

const (
	defaultPage     = 1
	defaultPageSize = 100
	maxPageSize     = 1000
	maxRadiusKM     = 100
)

// FilterSpec is the validated, normalized form of a filter request.
// It is constructed once per query by ParseFilterSpec and read-only afterwards.
type FilterSpec struct {
	MinPrice *float64
	MaxPrice *float64

	Lat    *float64
	Lng    *float64
	Radius *float64 // kilometers

	Source   string
	MinScore float64

	City   string
	State  string
	County string

	PropertyCategory string
	PropertyType     string

	MinBedrooms  *int
	MaxBedrooms  *int
	MinBathrooms *float64
	MaxBathrooms *float64
	MinSqft      *int
	MaxSqft      *int
	MinLotSize   *float64
	MaxLotSize   *float64

	HasPool     bool
	HasGym      bool
	PetFriendly bool

	CrimeRate       string
	FloodZone       string
	SewageSystem    string
	MinSchoolRating *float64

	MarketStatus string

	Page     int
	PageSize int
}

// ParseFilterSpec validates and normalizes a bound filter request.
// It is a pure function: no I/O, and a given request always produces the same
// spec or the same validation error. Each violation names the offending field.
func ParseFilterSpec(req transport.FilterRequest) (FilterSpec, error) {
	if err := checkNonNegative("min_price", req.MinPrice); err != nil {
		return FilterSpec{}, err
	}
	if err := checkNonNegative("max_price", req.MaxPrice); err != nil {
		return FilterSpec{}, err
	}
	if err := checkOrderedFloat("min_price", "max_price", req.MinPrice, req.MaxPrice); err != nil {
		return FilterSpec{}, err
	}
	if err := checkOrderedInt("min_bedrooms", "max_bedrooms", req.MinBedrooms, req.MaxBedrooms); err != nil {
		return FilterSpec{}, err
	}
	if err := checkOrderedFloat("min_bathrooms", "max_bathrooms", req.MinBathrooms, req.MaxBathrooms); err != nil {
		return FilterSpec{}, err
	}
	if err := checkOrderedInt("min_sqft", "max_sqft", req.MinSqft, req.MaxSqft); err != nil {
		return FilterSpec{}, err
	}
	if err := checkOrderedFloat("min_lot_size", "max_lot_size", req.MinLotSize, req.MaxLotSize); err != nil {
		return FilterSpec{}, err
	}

	if req.Radius != nil && (*req.Radius < 0 || *req.Radius > maxRadiusKM) {
		return FilterSpec{}, apperr.Validationf("radius must be between 0 and %d kilometers", maxRadiusKM)
	}

	minScore := 0.0
	if req.MinScore != nil {
		if *req.MinScore < 0 || *req.MinScore > 1 {
			return FilterSpec{}, apperr.Validation("min_score must be between 0 and 1")
		}
		minScore = *req.MinScore
	}

	if req.Limit != nil && (*req.Limit < 1 || *req.Limit > maxPageSize) {
		return FilterSpec{}, apperr.Validationf("limit must be between 1 and %d", maxPageSize)
	}

	page := defaultPage
	if req.Page != nil && *req.Page > 0 {
		page = *req.Page
	}

	pageSize := defaultPageSize
	switch {
	case req.PageSize != nil:
		if *req.PageSize > maxPageSize {
			return FilterSpec{}, apperr.Validationf("page_size must be between 1 and %d", maxPageSize)
		}
		if *req.PageSize > 0 {
			pageSize = *req.PageSize
		}
	case req.Limit != nil:
		// Legacy callers send limit instead of page_size; honor it so the
		// first page keeps the old row cap.
		pageSize = *req.Limit
	}

	category := derefTrimmed(req.PropertyCategory)
	switch category {
	case "", domain.CategoryResidential, domain.CategoryCommercial, domain.CategoryLand:
	default:
		return FilterSpec{}, apperr.Validation("property_category must be one of residential, commercial, land")
	}

	marketStatus := derefTrimmed(req.MarketStatus)
	switch marketStatus {
	case "", domain.MarketStatusOn, domain.MarketStatusOff:
	default:
		return FilterSpec{}, apperr.Validation("market_status must be one of on_market, off_market")
	}

	return FilterSpec{
		MinPrice:         req.MinPrice,
		MaxPrice:         req.MaxPrice,
		Lat:              req.Lat,
		Lng:              req.Lng,
		Radius:           req.Radius,
		Source:           derefTrimmed(req.Source),
		MinScore:         minScore,
		City:             derefTrimmed(req.City),
		State:            derefTrimmed(req.State),
		County:           derefTrimmed(req.County),
		PropertyCategory: category,
		PropertyType:     derefTrimmed(req.PropertyType),
		MinBedrooms:      req.MinBedrooms,
		MaxBedrooms:      req.MaxBedrooms,
		MinBathrooms:     req.MinBathrooms,
		MaxBathrooms:     req.MaxBathrooms,
		MinSqft:          req.MinSqft,
		MaxSqft:          req.MaxSqft,
		MinLotSize:       req.MinLotSize,
		MaxLotSize:       req.MaxLotSize,
		HasPool:          req.HasPool,
		HasGym:           req.HasGym,
		PetFriendly:      req.PetFriendly,
		CrimeRate:        derefTrimmed(req.CrimeRate),
		FloodZone:        derefTrimmed(req.FloodZone),
		SewageSystem:     derefTrimmed(req.SewageSystem),
		MinSchoolRating:  req.MinSchoolRating,
		MarketStatus:     marketStatus,
		Page:             page,
		PageSize:         pageSize,
	}, nil
}

func checkNonNegative(field string, value *float64) error {
	if value != nil && *value < 0 {
		return apperr.Validationf("%s must not be negative", field)
	}
	return nil
}

func checkOrderedFloat(minField, maxField string, min, max *float64) error {
	if min != nil && max != nil && *min > *max {
		return apperr.Validationf("%s must not exceed %s", minField, maxField)
	}
	return nil
}

func checkOrderedInt(minField, maxField string, min, max *int) error {
	if min != nil && max != nil && *min > *max {
		return apperr.Validationf("%s must not exceed %s", minField, maxField)
	}
	return nil
}

func derefTrimmed(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}
