package geo

import "math"

// EarthRadiusKm is the mean Earth radius used for all spherical distances.
const EarthRadiusKm = 6371.0

// Point is a geographic coordinate in degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Haversine returns the great-circle distance in kilometers between two
// points given in degrees. Angle differences are taken as plain differences,
// so inputs spanning the antimeridian are outside the supported range.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// Distance returns the great-circle distance in kilometers between two points.
func Distance(a, b Point) float64 {
	return Haversine(a.Lat, a.Lon, b.Lat, b.Lon)
}

// PointAtDistance returns the point targetKm along the segment from far
// toward near, where totalKm is the full segment distance. Interpolation is
// linear in degree space, an approximation valid for short segments.
func PointAtDistance(far, near Point, targetKm, totalKm float64) Point {
	if totalKm == 0 {
		return far
	}
	return PointAtRatio(far, near, targetKm/totalKm)
}

// PointAtRatio returns the point at the given fraction along the segment
// from start toward end, linear in degree space. Fraction 0 is start, 1 is
// end.
func PointAtRatio(start, end Point, fraction float64) Point {
	return Point{
		Lat: start.Lat + fraction*(end.Lat-start.Lat),
		Lon: start.Lon + fraction*(end.Lon-start.Lon),
	}
}
