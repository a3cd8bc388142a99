package geo

import "math"

const earthRadiusMeters = 6371000

// Point is a WGS84 longitude/latitude pair.
type Point struct {
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
}

func (p Point) Equal(other Point) bool {
	return p.Lon == other.Lon && p.Lat == other.Lat
}

// Distance returns the haversine distance between two points in meters.
func Distance(a, b Point) float64 {

	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// CloseRing returns the ring with the first point appended when the last
// point does not already repeat it. The input slice is never modified.
func CloseRing(ring []Point) []Point {
	if len(ring) == 0 || ring[0].Equal(ring[len(ring)-1]) {
		return ring
	}
	closed := make([]Point, len(ring), len(ring)+1)
	copy(closed, ring)
	return append(closed, ring[0])
}

// InRing reports whether p lies inside the ring using ray casting. The
// ring is evaluated as an ordered linear ring in the order supplied.
func InRing(p Point, ring []Point) bool {

	inside := false
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if (a.Lat > p.Lat) == (b.Lat > p.Lat) {
			continue
		}
		if p.Lon < (b.Lon-a.Lon)*(p.Lat-a.Lat)/(b.Lat-a.Lat)+a.Lon {
			inside = !inside
		}
	}
	return inside
}
