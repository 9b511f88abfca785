package mapguess

import "math"

const (
	// MaxScore is awarded for an exact guess made the instant a round starts.
	MaxScore = 100

	// MaxScoringDistanceKm is the distance from which a guess scores nothing.
	MaxScoringDistanceKm = 100

	earthRadiusMeters = 6371000
)

// Score rates a locked guess. A guess scores 0 when it is MaxScoringDistanceKm
// or further from the target or when no time is left; otherwise every
// kilometre costs one point and every elapsed second costs timeWeight points.
func Score(distanceKm, timeLeft, roundSeconds int, timeWeight float64) int {
	if distanceKm >= MaxScoringDistanceKm || timeLeft <= 0 {
		return 0
	}
	elapsed := roundSeconds - timeLeft
	raw := float64(MaxScore-distanceKm) - float64(elapsed)*timeWeight
	return max(0, int(math.Floor(raw)))
}

// DistanceKm returns the great-circle distance between a and b, floored to
// whole kilometres.
func DistanceKm(a, b Coordinate) int {
	return int(math.Floor(distanceMeters(a, b) / 1000))
}

func distanceMeters(a, b Coordinate) float64 {
	const rad = math.Pi / 180
	lat1 := a.Lat * rad
	lat2 := b.Lat * rad
	sinDLat := math.Sin((b.Lat - a.Lat) * rad / 2)
	sinDLon := math.Sin((b.Lon - a.Lon) * rad / 2)
	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLon*sinDLon
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
