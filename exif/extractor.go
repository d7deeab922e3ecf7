package exif

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	goexif "github.com/rwcarlsen/goexif/exif"

	"github.com/constructpro/constructpro-backend/geo"
)

// CameraInfo holds the camera-identifying tags. It is only populated when at
// least one of the three tags is present.
type CameraInfo struct {
	Make     string `json:"make,omitempty"`
	Model    string `json:"model,omitempty"`
	Software string `json:"software,omitempty"`
}

// Record is the normalized embedded metadata of a single photo. Every field
// is optional: images saved by apps that strip EXIF produce no record at all.
type Record struct {
	GPS            *geo.Coordinate `json:"gps,omitempty"`
	Timestamp      *time.Time      `json:"timestamp,omitempty"`
	Camera         *CameraInfo     `json:"camera,omitempty"`
	Orientation    *int            `json:"orientation,omitempty"`
	OriginalWidth  *int            `json:"original_width,omitempty"`
	OriginalHeight *int            `json:"original_height,omitempty"`
}

// helper to safely get a string tag, trimming null terminators
func getString(x *goexif.Exif, tagName goexif.FieldName) string {
	tag, err := x.Get(tagName)
	if err != nil || tag == nil {
		return ""
	}
	val := strings.TrimRight(strings.Trim(tag.String(), `"`), "\x00")
	return strings.TrimSpace(val)
}

// helper to safely get and convert an integer tag
func getInt(x *goexif.Exif, tagName goexif.FieldName) *int {
	tag, err := x.Get(tagName)
	if err != nil || tag == nil {
		return nil
	}
	val, err := tag.Int(0)
	if err != nil {
		return nil
	}
	return &val
}

// helper to safely get and convert a rational tag
func getRational(x *goexif.Exif, tagName goexif.FieldName) *float64 {
	tag, err := x.Get(tagName)
	if err != nil || tag == nil {
		return nil
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		valInt, errInt := tag.Int(0)
		if errInt == nil {
			fVal := float64(valInt)
			return &fVal
		}
		return nil
	}
	val := float64(num) / float64(den)
	return &val
}

// Decode reads embedded metadata from raw image bytes. Any decode failure
// (corrupt bytes, unsupported format, missing EXIF segment) yields nil:
// absent metadata is the expected case, never an error.
func Decode(r io.Reader) *Record {
	x, err := goexif.Decode(r)
	if err != nil {
		return nil
	}

	rec := &Record{
		Orientation:    getInt(x, goexif.Orientation),
		OriginalWidth:  getInt(x, goexif.PixelXDimension),
		OriginalHeight: getInt(x, goexif.PixelYDimension),
	}

	// GPS block requires both latitude and longitude tags
	if lat, lon, err := x.LatLong(); err == nil {
		gps := &geo.Coordinate{Latitude: lat, Longitude: lon}
		if alt := getRational(x, goexif.GPSAltitude); alt != nil {
			altitude := *alt
			if ref := getInt(x, goexif.GPSAltitudeRef); ref != nil && *ref == 1 {
				altitude = -altitude // below sea level
			}
			gps.Altitude = &altitude
		}
		rec.GPS = gps
	}

	// DateTime prefers DateTimeOriginal over the generic DateTime tag
	if dt, err := x.DateTime(); err == nil {
		rec.Timestamp = &dt
	}

	camera := CameraInfo{
		Make:     getString(x, goexif.Make),
		Model:    getString(x, goexif.Model),
		Software: getString(x, goexif.Software),
	}
	if camera.Make != "" || camera.Model != "" || camera.Software != "" {
		rec.Camera = &camera
	}

	return rec
}

// DecodeFile extracts embedded metadata from the image at path. The error is
// non-nil only when the file itself cannot be opened; a readable image
// without usable EXIF returns (nil, nil).
func DecodeFile(path string) (*Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("exif: failed to open %s: %w", path, err)
	}
	defer file.Close()

	rec := Decode(file)
	if rec == nil {
		log.Printf("exif: no usable EXIF data in %s", path)
	}
	return rec, nil
}
