// Package geo provides pure distance math. Nothing here blocks or touches
// collaborators; callers persist the result on the ride at creation time.
package geo

import "math"

const earthRadiusKm = 6371.0

// Distance returns the great-circle distance in kilometers between two
// coordinate pairs, computed with the Haversine formula.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := deg2rad(lat2 - lat1)
	dLng := deg2rad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(lat1))*math.Cos(deg2rad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func deg2rad(deg float64) float64 {
	return deg * (math.Pi / 180)
}

// ValidLatitude reports whether lat is a usable latitude.
func ValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

// ValidLongitude reports whether lng is a usable longitude.
func ValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}
