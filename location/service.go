package location

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/constructpro/constructpro-backend/exif"
	"github.com/constructpro/constructpro-backend/geo"
	"github.com/constructpro/constructpro-backend/photostore"
)

// ErrPermissionDenied is returned by a DeviceLocator when the platform
// refuses access to the current position.
var ErrPermissionDenied = errors.New("location permission denied")

// ErrNoResult is returned by a Geocoder when no address matches the
// coordinates.
var ErrNoResult = errors.New("no geocoding result")

// Fix is a live position report from a device.
type Fix struct {
	Coordinate geo.Coordinate
	Accuracy   *float64 // meters, when the platform reports one
}

// DeviceLocator provides the device's current position.
type DeviceLocator interface {
	CurrentLocation(ctx context.Context) (Fix, error)
}

// Address is a structured geocoding result. Any component may be empty.
type Address struct {
	Street     string
	City       string
	Region     string
	PostalCode string
}

// String joins the present components with commas.
func (a Address) String() string {
	parts := make([]string, 0, 4)
	for _, part := range []string{a.Street, a.City, a.Region, a.PostalCode} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}

// Geocoder resolves coordinates to an address.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, coord geo.Coordinate) (Address, error)
}

// Verification compares a photo's embedded GPS fix against the device's
// live position. Any piece that could not be determined is nil.
type Verification struct {
	ExifLocation   *geo.Coordinate `json:"exif_location,omitempty"`
	DeviceLocation *geo.Coordinate `json:"device_location,omitempty"`
	DistanceMeters *float64        `json:"distance_meters,omitempty"`
	AccuracyMeters *float64        `json:"accuracy_meters,omitempty"`
}

// Service verifies and edits photo location data. The locator and geocoder
// are optional; a nil dependency just leaves the corresponding piece
// unavailable.
type Service struct {
	locator  DeviceLocator
	geocoder Geocoder
}

func NewService(locator DeviceLocator, geocoder Geocoder) *Service {
	return &Service{locator: locator, geocoder: geocoder}
}

// VerifyPhotoLocation extracts the photo's EXIF GPS fix, requests the
// device's current position, and computes the distance between the two when
// both are present. Unavailable pieces (no EXIF GPS, permission denied, no
// locator) come back nil rather than as errors; only an unreadable image
// file fails the call.
func (s *Service) VerifyPhotoLocation(ctx context.Context, imagePath string) (Verification, error) {
	var result Verification

	rec, err := exif.DecodeFile(imagePath)
	if err != nil {
		return Verification{}, fmt.Errorf("failed to verify location for %s: %w", filepath.Base(imagePath), err)
	}
	if rec != nil && rec.GPS != nil {
		coord := *rec.GPS
		result.ExifLocation = &coord
	}

	if s.locator != nil {
		fix, err := s.locator.CurrentLocation(ctx)
		if err == nil {
			coord := fix.Coordinate
			result.DeviceLocation = &coord
			result.AccuracyMeters = fix.Accuracy
		}
	}

	computeDistance(&result)
	return result, nil
}

// computeDistance fills in the great-circle distance once both fixes are
// known.
func computeDistance(v *Verification) {
	if v.ExifLocation == nil || v.DeviceLocation == nil {
		return
	}
	distance := geo.Distance(*v.ExifLocation, *v.DeviceLocation)
	v.DistanceMeters = &distance
}

// UpdatePhotoLocation writes a location fix into the photo's sidecar,
// creating the sidecar when none exists and merging into it otherwise. The
// fix is stamped with the current time.
func (s *Service) UpdatePhotoLocation(imagePath string, coord geo.Coordinate, accuracy *float64, manuallySet bool) error {
	if !coord.IsValid() {
		return fmt.Errorf("invalid coordinates %.6f, %.6f", coord.Latitude, coord.Longitude)
	}

	meta, err := photostore.ReadSidecar(imagePath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		meta = photostore.Metadata{
			URI:       filepath.Base(imagePath),
			Timestamp: time.Now(),
		}
	}

	meta.Location = &photostore.Location{
		Latitude:    coord.Latitude,
		Longitude:   coord.Longitude,
		Altitude:    coord.Altitude,
		Accuracy:    accuracy,
		ManuallySet: manuallySet,
		UpdatedAt:   time.Now().Format(time.RFC3339),
	}
	return photostore.WriteSidecar(imagePath, meta)
}

// RemovePhotoLocation clears the location field from the photo's sidecar.
// A missing sidecar is a no-op.
func (s *Service) RemovePhotoLocation(imagePath string) error {
	meta, err := photostore.ReadSidecar(imagePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if meta.Location == nil {
		return nil
	}
	meta.Location = nil
	return photostore.WriteSidecar(imagePath, meta)
}

// ReverseGeocode resolves coordinates to a comma-joined address string.
func (s *Service) ReverseGeocode(ctx context.Context, coord geo.Coordinate) (string, error) {
	if s.geocoder == nil {
		return "", ErrNoResult
	}
	addr, err := s.geocoder.ReverseGeocode(ctx, coord)
	if err != nil {
		return "", err
	}
	text := addr.String()
	if text == "" {
		return "", ErrNoResult
	}
	return text, nil
}
