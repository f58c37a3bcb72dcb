package service

import (
	"deal_finder_backend/internal/deals/domain"
)

// boundedOrSkip applies a min/max bound to an optional attribute.
// A deal with no value for the attribute passes the check: built vs. unbuilt
// land legitimately has no square footage, so a missing attribute never fails
// a bound, only an out-of-range present value does.
func boundedOrSkip[T int | float64](value *T, min, max *T) bool {
	if value == nil {
		return true
	}
	if min != nil && *value < *min {
		return false
	}
	if max != nil && *value > *max {
		return false
	}
	return true
}

// matchesAttributes evaluates the attribute-stage predicates as a conjunction.
// Location predicates have already been applied by the repository.
func matchesAttributes(spec FilterSpec, deal domain.Deal) bool {
	if spec.MinPrice != nil && deal.Price < *spec.MinPrice {
		return false
	}
	if spec.MaxPrice != nil && deal.Price > *spec.MaxPrice {
		return false
	}

	if spec.Source != "" && deal.Source != spec.Source {
		return false
	}

	if spec.MinScore > 0 {
		// Unmatched deals carry no score; they count as score 0 here.
		score := 0.0
		if deal.MatchScore != nil {
			score = *deal.MatchScore
		}
		if score < spec.MinScore {
			return false
		}
	}

	if spec.PropertyCategory != "" && deal.PropertyCategory != spec.PropertyCategory {
		return false
	}
	if spec.PropertyType != "" && deal.PropertyType != spec.PropertyType {
		return false
	}

	if !boundedOrSkip(deal.Bedrooms, spec.MinBedrooms, spec.MaxBedrooms) {
		return false
	}
	if !boundedOrSkip(deal.Bathrooms, spec.MinBathrooms, spec.MaxBathrooms) {
		return false
	}
	if !boundedOrSkip(deal.SquareFeet, spec.MinSqft, spec.MaxSqft) {
		return false
	}
	if !boundedOrSkip(deal.LotSize, spec.MinLotSize, spec.MaxLotSize) {
		return false
	}

	// Amenity flags exclude when requested and the deal lacks the amenity.
	if spec.HasPool && !deal.HasPool {
		return false
	}
	if spec.HasGym && !deal.HasGym {
		return false
	}
	if spec.PetFriendly && !deal.PetFriendly {
		return false
	}

	if spec.CrimeRate != "" && (deal.CrimeRate == nil || *deal.CrimeRate != spec.CrimeRate) {
		return false
	}
	if spec.FloodZone != "" && (deal.FloodZone == nil || *deal.FloodZone != spec.FloodZone) {
		return false
	}
	if spec.SewageSystem != "" && (deal.SewageSystem == nil || *deal.SewageSystem != spec.SewageSystem) {
		return false
	}

	if spec.MinSchoolRating != nil && deal.SchoolRating != nil && *deal.SchoolRating < *spec.MinSchoolRating {
		return false
	}

	if spec.MarketStatus != "" {
		// A deal without an explicit flag is treated as on market.
		onMarket := true
		if deal.OnMarket != nil {
			onMarket = *deal.OnMarket
		}
		if spec.MarketStatus == domain.MarketStatusOn && !onMarket {
			return false
		}
		if spec.MarketStatus == domain.MarketStatusOff && onMarket {
			return false
		}
	}

	return true
}
