package photostore

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/facette/natsort"

	"github.com/constructpro/constructpro-backend/database"
	"github.com/constructpro/constructpro-backend/exif"
)

// ProjectNameFunc resolves a project id to a display name. The store is
// linked to the relational project store only by this id string; callers
// typically wire the resolver to a project repository lookup.
type ProjectNameFunc func(projectID string) (string, bool)

// Store manages photo files and their sidecar metadata records across the
// temporary (unassigned) area and the per-project photo areas. The
// filesystem is the source of truth: every operation reads it fresh, there
// is no in-memory cache to invalidate. A Store is constructed once at
// startup and passed to its consumers.
type Store struct {
	tempDir       string
	projectsDir   string
	thumbnailsDir string
	db            *sql.DB // thumbnail index
	projectName   ProjectNameFunc
}

// NewStore creates the storage areas if needed and returns a Store. db is
// the thumbnail index handle; projectName may be nil.
func NewStore(tempDir, projectsDir, thumbnailsDir string, db *sql.DB, projectName ProjectNameFunc) (*Store, error) {
	for _, dir := range []string{tempDir, projectsDir, thumbnailsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
		}
	}
	if projectName == nil {
		projectName = func(projectID string) (string, bool) { return "", false }
	}
	log.Printf("photostore: initialized (temp: %s, projects: %s)", tempDir, projectsDir)
	return &Store{
		tempDir:       tempDir,
		projectsDir:   projectsDir,
		thumbnailsDir: thumbnailsDir,
		db:            db,
		projectName:   projectName,
	}, nil
}

// TempDir returns the unassigned photo area.
func (s *Store) TempDir() string { return s.tempDir }

// ProjectPhotoDir returns the photo area for a project id.
func (s *Store) ProjectPhotoDir(projectID string) string {
	return filepath.Join(s.projectsDir, projectID, "photos")
}

// ThumbnailsDir returns the generated-thumbnail area.
func (s *Store) ThumbnailsDir() string { return s.thumbnailsDir }

// ListAll scans the temporary area and every project photo area, pairing
// each image with its sidecar and re-running EXIF extraction. Photos whose
// sidecar is unreadable are skipped with a warning. The result is sorted by
// capture timestamp descending, with natural filename order breaking ties.
func (s *Store) ListAll() ([]Photo, error) {
	photos, err := s.listDir(s.tempDir, "")
	if err != nil {
		return nil, fmt.Errorf("failed to scan temporary photo area: %w", err)
	}

	entries, err := os.ReadDir(s.projectsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan projects area: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		projectID := entry.Name()
		photoDir := s.ProjectPhotoDir(projectID)
		if info, err := os.Stat(photoDir); err != nil || !info.IsDir() {
			continue
		}
		projectPhotos, err := s.listDir(photoDir, projectID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan photos of project %s: %w", projectID, err)
		}
		photos = append(photos, projectPhotos...)
	}

	sort.Slice(photos, func(i, j int) bool {
		ti, tj := photos[i].Metadata.Timestamp, photos[j].Metadata.Timestamp
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return natsort.Compare(photos[i].ID, photos[j].ID)
	})
	return photos, nil
}

// listDir pairs image files in dir with their sidecars. projectID is empty
// for the temporary area.
func (s *Store) listDir(dir, projectID string) ([]Photo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var photos []Photo
	for _, entry := range entries {
		if entry.IsDir() || !IsPhotoFile(entry.Name()) {
			continue
		}
		uri := filepath.Join(dir, entry.Name())

		meta, err := ReadSidecar(uri)
		if err != nil {
			log.Printf("photostore: warning - skipping %s: %v", entry.Name(), err)
			continue
		}

		rec, err := exif.DecodeFile(uri)
		if err != nil {
			log.Printf("photostore: warning - could not read %s for EXIF: %v", entry.Name(), err)
		}

		photo := Photo{
			URI:      uri,
			Metadata: meta,
			Exif:     rec,
			Tags:     meta.Tags,
		}
		if photo.Tags == nil {
			photo.Tags = []string{}
		}
		if projectID == "" {
			photo.ID = entry.Name()
			photo.IsUnassigned = true
			photo.ProjectName = "Unassigned"
		} else {
			photo.ID = projectID + "_" + entry.Name()
			photo.ProjectID = projectID
			if name, ok := s.projectName(projectID); ok {
				photo.ProjectName = name
			} else {
				photo.ProjectName = "Project " + projectID
			}
		}

		if s.db != nil {
			info, err := database.GetThumbnailInfo(s.db, uri)
			if err == nil {
				photo.ThumbnailPath = info.ThumbnailPath
			} else if !errors.Is(err, sql.ErrNoRows) {
				log.Printf("photostore: warning - thumbnail lookup failed for %s: %v", uri, err)
			}
		}

		photos = append(photos, photo)
	}
	return photos, nil
}

// AssignToProject moves the given currently-unassigned photos into the
// project's photo area: the image file is relocated, a sidecar with the
// project id set is written at the new location, and the old sidecar is
// removed. The first failure aborts the call; photos moved before the
// failure stay moved. There is no reverse operation.
func (s *Store) AssignToProject(photoIDs []string, projectID string) error {
	if projectID == "" {
		return errors.New("project id must not be empty")
	}

	photos, err := s.ListAll()
	if err != nil {
		return err
	}

	wanted := make(map[string]bool, len(photoIDs))
	for _, id := range photoIDs {
		wanted[id] = true
	}

	targetDir := s.ProjectPhotoDir(projectID)
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return fmt.Errorf("failed to create project photo directory %s: %w", targetDir, err)
	}

	for _, photo := range photos {
		if !wanted[photo.ID] || !photo.IsUnassigned {
			continue
		}

		newURI := filepath.Join(targetDir, filepath.Base(photo.URI))
		if err := os.Rename(photo.URI, newURI); err != nil {
			return fmt.Errorf("failed to move %s to project %s: %w", photo.ID, projectID, err)
		}

		meta := photo.Metadata
		meta.URI = newURI
		meta.ProjectID = projectID
		if err := WriteSidecar(newURI, meta); err != nil {
			return err
		}
		if err := os.Remove(SidecarPath(photo.URI)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove old sidecar for %s: %w", photo.ID, err)
		}

		if s.db != nil {
			if err := database.MoveThumbnailInfo(s.db, photo.URI, newURI); err != nil {
				log.Printf("photostore: warning - failed to re-key thumbnail index for %s: %v", photo.ID, err)
			}
		}
		log.Printf("photostore: assigned %s to project %s", photo.ID, projectID)
	}
	return nil
}

// Delete removes each photo's image file, sidecar and recorded thumbnail.
// Per-file deletion is idempotent: files already gone are not an error, and
// unknown ids are ignored.
func (s *Store) Delete(photoIDs []string) error {
	photos, err := s.ListAll()
	if err != nil {
		return err
	}

	wanted := make(map[string]bool, len(photoIDs))
	for _, id := range photoIDs {
		wanted[id] = true
	}

	for _, photo := range photos {
		if !wanted[photo.ID] {
			continue
		}

		if err := os.Remove(photo.URI); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete image for %s: %w", photo.ID, err)
		}
		if err := os.Remove(SidecarPath(photo.URI)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete sidecar for %s: %w", photo.ID, err)
		}

		if photo.ThumbnailPath != "" {
			if err := os.Remove(photo.ThumbnailPath); err != nil && !os.IsNotExist(err) {
				log.Printf("photostore: warning - failed to delete thumbnail for %s: %v", photo.ID, err)
			}
		}
		if s.db != nil {
			if err := database.DeleteThumbnailInfo(s.db, photo.URI); err != nil {
				log.Printf("photostore: warning - failed to drop thumbnail index row for %s: %v", photo.ID, err)
			}
		}
		log.Printf("photostore: deleted %s", photo.ID)
	}
	return nil
}

// Import lands a captured photo in the temporary area: the image bytes are
// written under the given filename (or a generated one) and a sidecar is
// created alongside. The returned photo is unassigned.
func (s *Store) Import(data io.Reader, filename string, meta Metadata) (Photo, error) {
	if filename == "" {
		filename = fmt.Sprintf("photo_%d.jpg", time.Now().UnixMilli())
	}
	if !IsPhotoFile(filename) {
		return Photo{}, fmt.Errorf("unsupported photo filename %q", filename)
	}

	uri := filepath.Join(s.tempDir, filepath.Base(filename))
	out, err := os.Create(uri)
	if err != nil {
		return Photo{}, fmt.Errorf("failed to create %s: %w", uri, err)
	}
	if _, err := io.Copy(out, data); err != nil {
		out.Close()
		os.Remove(uri)
		return Photo{}, fmt.Errorf("failed to write %s: %w", uri, err)
	}
	if err := out.Close(); err != nil {
		return Photo{}, fmt.Errorf("failed to close %s: %w", uri, err)
	}

	meta.URI = uri
	meta.ProjectID = ""
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if err := WriteSidecar(uri, meta); err != nil {
		os.Remove(uri)
		return Photo{}, err
	}

	log.Printf("photostore: imported %s", filepath.Base(uri))
	return Photo{
		ID:           filepath.Base(uri),
		URI:          uri,
		Metadata:     meta,
		Tags:         append([]string{}, meta.Tags...),
		IsUnassigned: true,
		ProjectName:  "Unassigned",
	}, nil
}
