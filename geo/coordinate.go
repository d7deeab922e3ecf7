package geo

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// Coordinate is a WGS84 point. Altitude is meters above sea level when known.
type Coordinate struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Altitude  *float64 `json:"altitude,omitempty"`
}

// IsValid reports whether the coordinate lies within the valid WGS84 ranges.
// The boundary values (±90, ±180) are valid.
func (c Coordinate) IsValid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

var (
	decimalPairRe = regexp.MustCompile(`(-?\d+\.?\d*),\s*(-?\d+\.?\d*)`)
	dmsPairRe     = regexp.MustCompile(`(\d+)°(\d+)'([\d.]+)"\s?([NS]),?\s*(\d+)°(\d+)'([\d.]+)"\s?([EW])`)
)

// ParseCoordinate accepts either a decimal pair ("40.7128, -74.0060") or a
// DMS pair with hemisphere letters (`40°26'46.3"N, 74°0'21.5"W`). The decimal
// grammar is tried first; ok is false when neither matches.
func ParseCoordinate(input string) (Coordinate, bool) {
	if m := decimalPairRe.FindStringSubmatch(input); m != nil {
		lat, errLat := strconv.ParseFloat(m[1], 64)
		lon, errLon := strconv.ParseFloat(m[2], 64)
		if errLat == nil && errLon == nil {
			return Coordinate{Latitude: lat, Longitude: lon}, true
		}
	}

	if m := dmsPairRe.FindStringSubmatch(input); m != nil {
		lat := dmsToDecimal(m[1], m[2], m[3], m[4])
		lon := dmsToDecimal(m[5], m[6], m[7], m[8])
		return Coordinate{Latitude: lat, Longitude: lon}, true
	}

	return Coordinate{}, false
}

func dmsToDecimal(degStr, minStr, secStr, ref string) float64 {
	deg, _ := strconv.ParseFloat(degStr, 64)
	min, _ := strconv.ParseFloat(minStr, 64)
	sec, _ := strconv.ParseFloat(secStr, 64)

	decimal := deg + min/60 + sec/3600
	if ref == "S" || ref == "W" {
		decimal = -decimal
	}
	return decimal
}

// FormatDecimal renders the coordinate as "lat, lon" with six decimal places.
func FormatDecimal(c Coordinate) string {
	return fmt.Sprintf("%.6f, %.6f", c.Latitude, c.Longitude)
}

// FormatDMS renders the coordinate in degrees-minutes-seconds with hemisphere
// letters, e.g. `40°26'46.3"N, 74°0'21.5"W`.
func FormatDMS(c Coordinate) string {
	latRef := "N"
	if c.Latitude < 0 {
		latRef = "S"
	}
	lonRef := "E"
	if c.Longitude < 0 {
		lonRef = "W"
	}
	return fmt.Sprintf("%s%s, %s%s",
		DecimalToDMS(math.Abs(c.Latitude)), latRef,
		DecimalToDMS(math.Abs(c.Longitude)), lonRef)
}

// DecimalToDMS converts an absolute decimal degree value to a DMS string with
// floor-based degree/minute extraction and seconds to one decimal place.
func DecimalToDMS(decimal float64) string {
	degrees := math.Floor(decimal)
	minutesDecimal := (decimal - degrees) * 60
	minutes := math.Floor(minutesDecimal)
	seconds := (minutesDecimal - minutes) * 60

	return fmt.Sprintf("%d°%d'%.1f\"", int(degrees), int(minutes), seconds)
}

// FormatDistance renders a distance in meters for display: plain meters below
// 1 km, kilometers with two decimals below 10 km, whole kilometers above.
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%.0fm", meters)
	}
	if meters < 10000 {
		return fmt.Sprintf("%.2fkm", meters/1000)
	}
	return fmt.Sprintf("%.0fkm", meters/1000)
}

// GoogleMapsURL builds a search link for the coordinate.
func GoogleMapsURL(c Coordinate) string {
	return fmt.Sprintf("https://www.google.com/maps/search/?api=1&query=%v,%v", c.Latitude, c.Longitude)
}

// AppleMapsURL builds an Apple Maps link centered on the coordinate.
func AppleMapsURL(c Coordinate) string {
	return fmt.Sprintf("https://maps.apple.com/?ll=%v,%v&z=16", c.Latitude, c.Longitude)
}
