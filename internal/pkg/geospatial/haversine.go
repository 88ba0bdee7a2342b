package geospatial

import "math"

const earthRadiusKm = 6371.0

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000 // meters
}

// BoundingBox returns a bounding box around a point with the given radius in meters.
func BoundingBox(lat, lon, radiusMeters float64) (minLat, minLon, maxLat, maxLon float64) {
	latDelta := radiusMeters / 111320.0
	lonDelta := radiusMeters / (111320.0 * math.Cos(toRad(lat)))

	return clampLat(lat - latDelta), clampLon(lon - lonDelta), clampLat(lat + latDelta), clampLon(lon + lonDelta)
}

// MarginBounds returns the box spanning marginDeg degrees either side of a point,
// clamped to valid coordinates.
func MarginBounds(lat, lon, marginDeg float64) (minLat, minLon, maxLat, maxLon float64) {
	return clampLat(lat - marginDeg), clampLon(lon - marginDeg), clampLat(lat + marginDeg), clampLon(lon + marginDeg)
}

// Centroid returns the vertex average of a closed [lon, lat] ring, ignoring the
// closing vertex.
func Centroid[P ~[2]float64](ring []P) (lat, lon float64) {
	n := len(ring)
	if n > 1 && ring[0] == ring[n-1] {
		n--
	}
	if n == 0 {
		return 0, 0
	}
	for _, p := range ring[:n] {
		lon += p[0]
		lat += p[1]
	}
	return lat / float64(n), lon / float64(n)
}

// MaxDistance returns the largest distance in meters from (lat, lon) to any vertex of ring.
func MaxDistance[P ~[2]float64](lat, lon float64, ring []P) float64 {
	var far float64
	for _, p := range ring {
		if d := Haversine(lat, lon, p[1], p[0]); d > far {
			far = d
		}
	}
	return far
}

func clampLat(v float64) float64 { return math.Max(-90, math.Min(90, v)) }
func clampLon(v float64) float64 { return math.Max(-180, math.Min(180, v)) }

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
