package exif

import (
	"fmt"
	"strings"
	"time"

	"github.com/constructpro/constructpro-backend/geo"
)

// overridable for tests
var timeNow = time.Now

// SidecarInfo is the app-recorded fallback used when an EXIF field is absent.
// Callers build it from a photo's sidecar metadata record.
type SidecarInfo struct {
	Location       *geo.Coordinate
	Timestamp      *time.Time
	DeviceModel    string
	DevicePlatform string
}

// LocationDisplay is the human-readable rendering of a GPS fix.
type LocationDisplay struct {
	Coordinates string `json:"coordinates"` // decimal line + DMS line, newline-joined
	Altitude    string `json:"altitude,omitempty"`
	MapURL      string `json:"map_url,omitempty"`
}

// TimestampDisplay is the human-readable rendering of a capture time.
type TimestampDisplay struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Relative string `json:"relative"`
}

// DeviceDisplay names the capturing device.
type DeviceDisplay struct {
	Name    string `json:"name"`
	Details string `json:"details"`
}

// Display is a pure projection of a photo's metadata for presentation. It is
// regenerated on demand and never stored.
type Display struct {
	Location  *LocationDisplay  `json:"location,omitempty"`
	Timestamp *TimestampDisplay `json:"timestamp,omitempty"`
	Device    *DeviceDisplay    `json:"device,omitempty"`
	Summary   string            `json:"summary"`
}

// FormatDisplay merges an EXIF record with the app-recorded fallback,
// field-by-field with EXIF taking precedence, and renders the result.
// Both inputs may be nil.
func FormatDisplay(rec *Record, fallback *SidecarInfo) Display {
	var formatted Display

	var gps *geo.Coordinate
	if rec != nil && rec.GPS != nil {
		gps = rec.GPS
	} else if fallback != nil && fallback.Location != nil {
		gps = fallback.Location
	}
	if gps != nil {
		loc := &LocationDisplay{
			Coordinates: geo.FormatDecimal(*gps) + "\n" + geo.FormatDMS(*gps),
			MapURL:      geo.AppleMapsURL(*gps),
		}
		if gps.Altitude != nil {
			loc.Altitude = formatAltitude(*gps.Altitude)
		}
		formatted.Location = loc
	}

	var ts *time.Time
	if rec != nil && rec.Timestamp != nil {
		ts = rec.Timestamp
	} else if fallback != nil {
		ts = fallback.Timestamp
	}
	if ts != nil {
		formatted.Timestamp = &TimestampDisplay{
			Date:     ts.Format("January 2, 2006"),
			Time:     ts.Format("03:04 PM"),
			Relative: RelativeTime(timeNow().Sub(*ts)),
		}
	}

	var camera *CameraInfo
	if rec != nil {
		camera = rec.Camera
	}
	if camera != nil || (fallback != nil && fallback.DeviceModel != "") {
		formatted.Device = formatDevice(camera, fallback)
	}

	formatted.Summary = buildSummary(formatted)
	return formatted
}

// formatAltitude shows meters to one decimal and feet rounded to integer.
func formatAltitude(altitude float64) string {
	return fmt.Sprintf("%.1fm (%.0fft)", altitude, altitude*3.28084)
}

// RelativeTime buckets an elapsed duration into a coarse human phrase using
// day-based truncation (30-day months, 365-day years; not calendar-aware).
func RelativeTime(elapsed time.Duration) string {
	seconds := int(elapsed.Seconds())
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24
	weeks := days / 7
	months := days / 30
	years := days / 365

	switch {
	case seconds < 60:
		return "Just now"
	case minutes < 60:
		return fmt.Sprintf("%d minute%s ago", minutes, plural(minutes))
	case hours < 24:
		return fmt.Sprintf("%d hour%s ago", hours, plural(hours))
	case days < 7:
		return fmt.Sprintf("%d day%s ago", days, plural(days))
	case weeks < 4:
		return fmt.Sprintf("%d week%s ago", weeks, plural(weeks))
	case months < 12:
		return fmt.Sprintf("%d month%s ago", months, plural(months))
	default:
		return fmt.Sprintf("%d year%s ago", years, plural(years))
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func formatDevice(camera *CameraInfo, fallback *SidecarInfo) *DeviceDisplay {
	if camera != nil && camera.Make != "" && camera.Model != "" {
		name := strings.Join(strings.Fields(camera.Make+" "+camera.Model), " ")
		details := camera.Software
		if details == "" {
			details = "Camera"
		}
		return &DeviceDisplay{Name: name, Details: details}
	}

	if fallback != nil && fallback.DeviceModel != "" {
		return &DeviceDisplay{Name: fallback.DeviceModel, Details: fallback.DevicePlatform}
	}

	return &DeviceDisplay{Name: "Unknown Device", Details: "No device information available"}
}

func buildSummary(formatted Display) string {
	var parts []string
	if formatted.Timestamp != nil {
		parts = append(parts, "Taken "+formatted.Timestamp.Relative)
	}
	if formatted.Device != nil {
		parts = append(parts, "with "+formatted.Device.Name)
	}
	if formatted.Location != nil {
		parts = append(parts, "at recorded location")
	}
	if len(parts) == 0 {
		return "No metadata available"
	}
	return strings.Join(parts, " ")
}

var orientationNames = map[int]string{
	1: "Normal",
	2: "Flipped Horizontal",
	3: "Rotated 180°",
	4: "Flipped Vertical",
	5: "Flipped Horizontal & Rotated 270° CW",
	6: "Rotated 90° CW",
	7: "Flipped Horizontal & Rotated 90° CW",
	8: "Rotated 270° CW",
}

// OrientationName maps the 8 standard EXIF orientation codes to a label.
func OrientationName(orientation int) string {
	if name, ok := orientationNames[orientation]; ok {
		return name
	}
	return "Unknown"
}

// DetailedReport renders a fixed-order plain-text metadata report. Sections
// are emitted only when their data is present.
func DetailedReport(rec *Record, fallback *SidecarInfo) string {
	formatted := FormatDisplay(rec, fallback)
	lines := []string{"Photo Metadata Summary", strings.Repeat("=", 25), ""}

	if formatted.Timestamp != nil {
		lines = append(lines,
			"Date & Time:",
			fmt.Sprintf("  %s at %s", formatted.Timestamp.Date, formatted.Timestamp.Time),
			fmt.Sprintf("  (%s)", formatted.Timestamp.Relative),
			"")
	}

	if formatted.Location != nil {
		coordLines := strings.SplitN(formatted.Location.Coordinates, "\n", 2)
		lines = append(lines,
			"Location:",
			"  Coordinates: "+coordLines[0],
			"  DMS Format: "+coordLines[1])
		if formatted.Location.Altitude != "" {
			lines = append(lines, "  Altitude: "+formatted.Location.Altitude)
		}
		lines = append(lines, "")
	}

	if formatted.Device != nil {
		lines = append(lines,
			"Device:",
			"  "+formatted.Device.Name,
			"  "+formatted.Device.Details,
			"")
	}

	if rec != nil && rec.Orientation != nil {
		lines = append(lines, "Orientation: "+OrientationName(*rec.Orientation), "")
	}

	if rec != nil && rec.OriginalWidth != nil && rec.OriginalHeight != nil {
		lines = append(lines, fmt.Sprintf("Dimensions: %d × %d pixels", *rec.OriginalWidth, *rec.OriginalHeight), "")
	}

	return strings.Join(lines, "\n")
}
