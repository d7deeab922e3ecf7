package exif

import (
	"strings"
	"testing"
	"time"

	"github.com/constructpro/constructpro-backend/geo"
)

func fixedNow(t *testing.T, now time.Time) {
	t.Helper()
	orig := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = orig })
}

func TestRelativeTimeBuckets(t *testing.T) {
	tests := []struct {
		elapsed time.Duration
		want    string
	}{
		{30 * time.Second, "Just now"},
		{90 * time.Second, "1 minute ago"},
		{5 * time.Minute, "5 minutes ago"},
		{3 * time.Hour, "3 hours ago"},
		{26 * time.Hour, "1 day ago"},
		{6 * 24 * time.Hour, "6 days ago"},
		{13 * 24 * time.Hour, "1 week ago"},
		{40 * 24 * time.Hour, "1 month ago"},
		{200 * 24 * time.Hour, "6 months ago"},
		{400 * 24 * time.Hour, "1 year ago"},
		{800 * 24 * time.Hour, "2 years ago"},
	}
	for _, tc := range tests {
		if got := RelativeTime(tc.elapsed); got != tc.want {
			t.Errorf("RelativeTime(%v) = %q, want %q", tc.elapsed, got, tc.want)
		}
	}
}

func TestFormatDisplayExifPrecedence(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	fixedNow(t, now)

	exifTime := now.Add(-2 * time.Hour)
	sidecarTime := now.Add(-72 * time.Hour)
	alt := 12.5

	rec := &Record{
		GPS:       &geo.Coordinate{Latitude: 40.7128, Longitude: -74.0060, Altitude: &alt},
		Timestamp: &exifTime,
		Camera:    &CameraInfo{Make: "Apple", Model: "iPhone 15", Software: "17.2"},
	}
	fallback := &SidecarInfo{
		Location:    &geo.Coordinate{Latitude: 1, Longitude: 2},
		Timestamp:   &sidecarTime,
		DeviceModel: "ConstructPro Camera",
	}

	d := FormatDisplay(rec, fallback)

	if d.Location == nil || !strings.HasPrefix(d.Location.Coordinates, "40.712800, -74.006000") {
		t.Fatalf("expected EXIF coordinates to win, got %+v", d.Location)
	}
	if !strings.Contains(d.Location.Coordinates, "\n") {
		t.Error("coordinates should contain both decimal and DMS lines")
	}
	if d.Location.Altitude != "12.5m (41ft)" {
		t.Errorf("altitude = %q, want %q", d.Location.Altitude, "12.5m (41ft)")
	}
	if d.Timestamp == nil || d.Timestamp.Relative != "2 hours ago" {
		t.Errorf("timestamp = %+v, want EXIF time (2 hours ago)", d.Timestamp)
	}
	if d.Device == nil || d.Device.Name != "Apple iPhone 15" || d.Device.Details != "17.2" {
		t.Errorf("device = %+v", d.Device)
	}
	want := "Taken 2 hours ago with Apple iPhone 15 at recorded location"
	if d.Summary != want {
		t.Errorf("summary = %q, want %q", d.Summary, want)
	}
}

func TestFormatDisplayFallback(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	fixedNow(t, now)

	ts := now.Add(-30 * time.Second)
	fallback := &SidecarInfo{
		Location:       &geo.Coordinate{Latitude: 51.5074, Longitude: -0.1278},
		Timestamp:      &ts,
		DeviceModel:    "ConstructPro Camera",
		DevicePlatform: "Android",
	}

	d := FormatDisplay(nil, fallback)
	if d.Location == nil || !strings.HasPrefix(d.Location.Coordinates, "51.507400") {
		t.Errorf("expected sidecar location, got %+v", d.Location)
	}
	if d.Device == nil || d.Device.Name != "ConstructPro Camera" || d.Device.Details != "Android" {
		t.Errorf("device = %+v", d.Device)
	}
	if d.Timestamp == nil || d.Timestamp.Relative != "Just now" {
		t.Errorf("timestamp = %+v", d.Timestamp)
	}
}

func TestFormatDisplayEmpty(t *testing.T) {
	d := FormatDisplay(nil, nil)
	if d.Location != nil || d.Timestamp != nil || d.Device != nil {
		t.Errorf("expected empty display, got %+v", d)
	}
	if d.Summary != "No metadata available" {
		t.Errorf("summary = %q", d.Summary)
	}
}

func TestOrientationName(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{1, "Normal"},
		{3, "Rotated 180°"},
		{6, "Rotated 90° CW"},
		{8, "Rotated 270° CW"},
		{0, "Unknown"},
		{9, "Unknown"},
	}
	for _, tc := range tests {
		if got := OrientationName(tc.code); got != tc.want {
			t.Errorf("OrientationName(%d) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestDetailedReportSections(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	fixedNow(t, now)

	orientation := 6
	w, h := 4032, 3024
	ts := now.Add(-time.Hour)
	rec := &Record{
		GPS:            &geo.Coordinate{Latitude: 40.7128, Longitude: -74.0060},
		Timestamp:      &ts,
		Orientation:    &orientation,
		OriginalWidth:  &w,
		OriginalHeight: &h,
	}

	report := DetailedReport(rec, nil)
	for _, want := range []string{
		"Photo Metadata Summary",
		"Date & Time:",
		"Location:",
		"Orientation: Rotated 90° CW",
		"Dimensions: 4032 × 3024 pixels",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
	if strings.Contains(report, "Device:") {
		t.Error("report should omit the device section when no device data exists")
	}
}
