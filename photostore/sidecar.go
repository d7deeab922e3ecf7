package photostore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const sidecarSuffix = "_metadata.json"

var photoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// IsPhotoFile reports whether the filename has an extension the store
// manages. Sidecars exist only for these.
func IsPhotoFile(filename string) bool {
	return photoExtensions[strings.ToLower(filepath.Ext(filename))]
}

// SidecarPath returns the metadata path for an image: the extension is
// replaced with "_metadata.json".
func SidecarPath(imagePath string) string {
	ext := filepath.Ext(imagePath)
	return strings.TrimSuffix(imagePath, ext) + sidecarSuffix
}

// ReadSidecar loads and decodes the sidecar record for the image at
// imagePath.
func ReadSidecar(imagePath string) (Metadata, error) {
	path := SidecarPath(imagePath)
	data, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to read sidecar %s: %w", path, err)
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return Metadata{}, fmt.Errorf("failed to decode sidecar %s: %w", path, err)
	}
	return meta, nil
}

// WriteSidecar serializes the record as pretty-printed JSON next to the
// image at imagePath.
func WriteSidecar(imagePath string, meta Metadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode sidecar for %s: %w", imagePath, err)
	}
	path := SidecarPath(imagePath)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write sidecar %s: %w", path, err)
	}
	return nil
}
