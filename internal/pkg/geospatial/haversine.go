package geospatial

import "math"

const earthRadiusMeters = 6371000.0

// Haversine calculates the great-circle distance in meters between two points
// given in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

// WithinRadius reports whether the point lies inside the circle, boundary
// included: a point exactly at the radius counts as inside.
func WithinRadius(lat, lon, centerLat, centerLon, radiusMeters float64) bool {
	return Haversine(lat, lon, centerLat, centerLon) <= radiusMeters
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
