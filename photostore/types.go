package photostore

import (
	"time"

	"github.com/constructpro/constructpro-backend/exif"
	"github.com/constructpro/constructpro-backend/geo"
)

// Location is the app-recorded GPS fix inside a sidecar record. JSON field
// names follow the sidecar wire format, which the mobile capture clients
// also read and write.
type Location struct {
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Altitude    *float64 `json:"altitude,omitempty"`
	Accuracy    *float64 `json:"accuracy,omitempty"`
	ManuallySet bool     `json:"manuallySet,omitempty"`
	UpdatedAt   string   `json:"updatedAt,omitempty"` // RFC 3339
}

// Coordinate converts the recorded fix to a geo value.
func (l *Location) Coordinate() geo.Coordinate {
	return geo.Coordinate{Latitude: l.Latitude, Longitude: l.Longitude, Altitude: l.Altitude}
}

// DeviceInfo identifies the capturing device.
type DeviceInfo struct {
	Model    string `json:"model"`
	Platform string `json:"platform"`
}

// Metadata is the sidecar record stored next to each image file as
// pretty-printed JSON with a matching basename. It is the fallback metadata
// source when the image carries no EXIF.
type Metadata struct {
	URI        string     `json:"uri"`
	Timestamp  time.Time  `json:"timestamp"`
	Location   *Location  `json:"location,omitempty"`
	DeviceInfo DeviceInfo `json:"deviceInfo"`
	ProjectID  string     `json:"projectId,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
}

// SidecarInfo projects the record into the formatter's fallback shape.
func (m *Metadata) SidecarInfo() *exif.SidecarInfo {
	info := &exif.SidecarInfo{
		DeviceModel:    m.DeviceInfo.Model,
		DevicePlatform: m.DeviceInfo.Platform,
	}
	if !m.Timestamp.IsZero() {
		ts := m.Timestamp
		info.Timestamp = &ts
	}
	if m.Location != nil {
		coord := m.Location.Coordinate()
		info.Location = &coord
	}
	return info
}

// Photo is the derived listing entity: a sidecar joined with a fresh EXIF
// read. It is recomputed on every query and never persisted. A photo's
// location on disk is canonical: it lives either in the temporary area or in
// exactly one project's photo area, and IsUnassigned mirrors that.
type Photo struct {
	ID            string       `json:"id"`
	URI           string       `json:"uri"`
	ThumbnailPath string       `json:"thumbnail_path,omitempty"`
	Metadata      Metadata     `json:"metadata"`
	Exif          *exif.Record `json:"exif_data,omitempty"`
	ProjectID     string       `json:"project_id,omitempty"`
	ProjectName   string       `json:"project_name,omitempty"`
	Tags          []string     `json:"tags"`
	IsUnassigned  bool         `json:"is_unassigned"`
}

// RadiusFilter selects photos within a radius of a point.
type RadiusFilter struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
}

// Filter holds independently optional, conjunctive listing criteria.
type Filter struct {
	ProjectID    *string       `json:"project_id,omitempty"`
	IsUnassigned *bool         `json:"is_unassigned,omitempty"`
	StartDate    *time.Time    `json:"start_date,omitempty"`
	EndDate      *time.Time    `json:"end_date,omitempty"`
	Location     *RadiusFilter `json:"location,omitempty"`
	Tags         []string      `json:"tags,omitempty"`
	SearchText   string        `json:"search_text,omitempty"`
}
