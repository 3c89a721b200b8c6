// Package geo provides great-circle distance and travel-time estimation.
package geo

import "math"

// earthRadiusKm is the mean Earth radius used for haversine distance.
const earthRadiusKm = 6371.0088

// Travel-time tiers. Short distances are walked; everything else rides
// local transit with a fixed boarding penalty.
const (
	walkMaxKm    = 1.5
	walkSpeedKmh = 4.5

	localMaxKm      = 10.0
	localSpeedKmh   = 18.0
	localPenaltyMin = 10

	longSpeedKmh   = 30.0
	longPenaltyMin = 8
)

// DistanceKm returns the great-circle distance in kilometers between two
// points. Inputs are assumed to be valid coordinates; callers reject
// missing values before calling.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := phi2 - phi1
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// TravelMinutes estimates door-to-door travel time in whole minutes for a
// known distance. A nil distance yields nil.
func TravelMinutes(distanceKm *float64) *int {
	if distanceKm == nil {
		return nil
	}

	var speedKmh float64
	var penaltyMin int
	switch d := *distanceKm; {
	case d <= walkMaxKm:
		speedKmh, penaltyMin = walkSpeedKmh, 0
	case d <= localMaxKm:
		speedKmh, penaltyMin = localSpeedKmh, localPenaltyMin
	default:
		speedKmh, penaltyMin = longSpeedKmh, longPenaltyMin
	}

	minutes := int(math.Round(*distanceKm/speedKmh*60)) + penaltyMin
	return &minutes
}
