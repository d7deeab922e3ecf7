package geo

import "math"

// earthRadiusMeters is the mean Earth radius used by the Haversine formula.
const earthRadiusMeters = 6371000.0

// BoundingBox is the min/max extent of a set of coordinates.
type BoundingBox struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// Distance returns the great-circle distance between two coordinates in
// meters using the Haversine formula.
func Distance(a, b Coordinate) float64 {
	phi1 := a.Latitude * math.Pi / 180
	phi2 := b.Latitude * math.Pi / 180
	dPhi := (b.Latitude - a.Latitude) * math.Pi / 180
	dLambda := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// Bearing returns the initial compass bearing in degrees [0, 360) from one
// coordinate toward another. Not symmetric.
func Bearing(from, to Coordinate) float64 {
	phi1 := from.Latitude * math.Pi / 180
	phi2 := to.Latitude * math.Pi / 180
	dLambda := (to.Longitude - from.Longitude) * math.Pi / 180

	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)

	theta := math.Atan2(y, x)
	return math.Mod(theta*180/math.Pi+360, 360)
}

var compassLabels = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// BearingToCompass maps a bearing in degrees to the nearest of the 16 compass
// points, each spanning 22.5°, wrapping 360° back to N.
func BearingToCompass(bearing float64) string {
	index := int(math.Round(bearing/22.5)) % 16
	return compassLabels[index]
}

// Center returns the arithmetic mean of the coordinates. This is not
// geodesically correct for sets crossing the antimeridian, which is an
// acceptable approximation for site-scale photo clusters. Altitude is
// averaged only over coordinates that carry one. ok is false for an empty
// input.
func Center(coords []Coordinate) (Coordinate, bool) {
	if len(coords) == 0 {
		return Coordinate{}, false
	}

	var sumLat, sumLon, sumAlt float64
	altCount := 0
	for _, c := range coords {
		sumLat += c.Latitude
		sumLon += c.Longitude
		if c.Altitude != nil {
			sumAlt += *c.Altitude
			altCount++
		}
	}

	center := Coordinate{
		Latitude:  sumLat / float64(len(coords)),
		Longitude: sumLon / float64(len(coords)),
	}
	if altCount > 0 {
		avg := sumAlt / float64(altCount)
		center.Altitude = &avg
	}
	return center, true
}

// Bounds returns the bounding box of the coordinates. ok is false for an
// empty input.
func Bounds(coords []Coordinate) (BoundingBox, bool) {
	if len(coords) == 0 {
		return BoundingBox{}, false
	}

	box := BoundingBox{North: -90, South: 90, East: -180, West: 180}
	for _, c := range coords {
		box.North = math.Max(box.North, c.Latitude)
		box.South = math.Min(box.South, c.Latitude)
		box.East = math.Max(box.East, c.Longitude)
		box.West = math.Min(box.West, c.Longitude)
	}
	return box, true
}

// IsWithinRadius reports whether b lies within radiusMeters of a.
func IsWithinRadius(a, b Coordinate, radiusMeters float64) bool {
	return Distance(a, b) <= radiusMeters
}
