// internal/service/geo/distance.go

package geo

import (
	"math"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances
const EarthRadiusKm = 6371.0

// Point is a latitude/longitude pair in degrees
type Point struct {
	Lat float64
	Lng float64
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// HaversineKm calculates the great-circle distance between two points in kilometers
func HaversineKm(a, b Point) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// IsWithinRadius checks if point lies within radiusKm of center (inclusive)
func IsWithinRadius(center, point Point, radiusKm float64) bool {
	return HaversineKm(center, point) <= radiusKm
}

// Offset returns the point reached by moving north and east by the given
// distances in kilometers. Used to lay out points at known separations.
func Offset(p Point, northKm, eastKm float64) Point {
	dLat := northKm / EarthRadiusKm
	dLng := eastKm / (EarthRadiusKm * math.Cos(toRadians(p.Lat)))
	return Point{
		Lat: p.Lat + dLat*180/math.Pi,
		Lng: p.Lng + dLng*180/math.Pi,
	}
}
