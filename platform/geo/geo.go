// Package geo provides great-circle distance and deal similarity scoring.
// This is part of the platform layer and contains no business logic beyond
// the fixed scoring model shared by the matcher and its consumers.
package geo

import "math"

const (
	// earthRadiusMeters is the mean Earth radius used by the Haversine formula.
	earthRadiusMeters = 6371000

	// fullScoreDistanceMeters is the distance at which the spatial component
	// of a match score reaches zero. Two listings 1 km apart are considered
	// unrelated regardless of price.
	fullScoreDistanceMeters = 1000

	// distanceWeight and priceWeight combine the two score components.
	// Spatial proximity is deliberately weighted higher than price proximity;
	// the weights are fixed so scores stay comparable across runs.
	distanceWeight = 0.6
	priceWeight    = 0.4
)

// Distance returns the great-circle distance in meters between two
// latitude/longitude points, using the Haversine formula.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// MatchScore computes the similarity score in [0,1] between a deal and an
// external candidate listing. Distance credit decays linearly to zero at
// 1 km; price credit decays linearly with the relative price difference.
// A deal with zero or negative price contributes no price credit.
func MatchScore(dealLat, dealLng, dealPrice, candLat, candLng, candPrice float64) float64 {
	distance := Distance(dealLat, dealLng, candLat, candLng)
	distanceScore := math.Max(0, 1-distance/fullScoreDistanceMeters)

	priceScore := 0.0
	if dealPrice > 0 {
		priceScore = math.Max(0, 1-math.Abs(dealPrice-candPrice)/dealPrice)
	}

	return distanceWeight*distanceScore + priceWeight*priceScore
}
