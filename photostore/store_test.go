package photostore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	root := t.TempDir()
	store, err := NewStore(
		filepath.Join(root, "temp_photos"),
		filepath.Join(root, "projects"),
		filepath.Join(root, "thumbnails"),
		nil, nil,
	)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return store
}

func importPhoto(t *testing.T, store *Store, filename string, meta Metadata) Photo {
	t.Helper()
	photo, err := store.Import(strings.NewReader("fake image bytes"), filename, meta)
	if err != nil {
		t.Fatalf("Import of %s failed: %v", filename, err)
	}
	return photo
}

func TestImportCreatesUnassignedPhoto(t *testing.T) {
	store := newTestStore(t)

	photo := importPhoto(t, store, "site_a.jpg", Metadata{Tags: []string{"inspection"}})
	if !photo.IsUnassigned {
		t.Error("expected imported photo to be unassigned")
	}
	if photo.ID != "site_a.jpg" {
		t.Errorf("unexpected photo ID %q", photo.ID)
	}
	if photo.Metadata.Timestamp.IsZero() {
		t.Error("expected import to default the timestamp")
	}

	if _, err := os.Stat(photo.URI); err != nil {
		t.Errorf("expected image file to exist: %v", err)
	}
	if _, err := os.Stat(SidecarPath(photo.URI)); err != nil {
		t.Errorf("expected sidecar to exist: %v", err)
	}
}

func TestImportRejectsUnsupportedExtension(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Import(strings.NewReader("x"), "notes.txt", Metadata{}); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestListAllSortsNewestFirst(t *testing.T) {
	store := newTestStore(t)

	older := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	importPhoto(t, store, "old.jpg", Metadata{Timestamp: older})
	importPhoto(t, store, "new.jpg", Metadata{Timestamp: newer})

	photos, err := store.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(photos) != 2 {
		t.Fatalf("expected 2 photos, got %d", len(photos))
	}
	if photos[0].ID != "new.jpg" || photos[1].ID != "old.jpg" {
		t.Errorf("unexpected order: %s, %s", photos[0].ID, photos[1].ID)
	}
}

func TestListAllSkipsUnreadableSidecar(t *testing.T) {
	store := newTestStore(t)
	importPhoto(t, store, "good.jpg", Metadata{})

	// An image with a corrupt sidecar is skipped, not fatal.
	badImage := filepath.Join(store.TempDir(), "bad.jpg")
	if err := os.WriteFile(badImage, []byte("img"), 0644); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	if err := os.WriteFile(SidecarPath(badImage), []byte("{invalid"), 0644); err != nil {
		t.Fatalf("failed to write sidecar: %v", err)
	}

	photos, err := store.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(photos) != 1 || photos[0].ID != "good.jpg" {
		t.Errorf("expected only the readable photo, got %+v", photos)
	}
}

func TestAssignToProject(t *testing.T) {
	store := newTestStore(t)

	photo := importPhoto(t, store, "pour.jpg", Metadata{Tags: []string{"inspection"}})
	oldSidecar := SidecarPath(photo.URI)

	if err := store.AssignToProject([]string{photo.ID}, "42"); err != nil {
		t.Fatalf("AssignToProject failed: %v", err)
	}

	photos, err := store.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(photos) != 1 {
		t.Fatalf("expected 1 photo, got %d", len(photos))
	}
	got := photos[0]
	if got.IsUnassigned {
		t.Error("expected photo to be assigned")
	}
	if got.ProjectID != "42" || got.Metadata.ProjectID != "42" {
		t.Errorf("expected project id 42, got %q / %q", got.ProjectID, got.Metadata.ProjectID)
	}
	if got.ID != "42_pour.jpg" {
		t.Errorf("unexpected assigned photo ID %q", got.ID)
	}
	if !strings.HasPrefix(got.URI, store.ProjectPhotoDir("42")) {
		t.Errorf("expected photo under project area, got %s", got.URI)
	}

	if _, err := os.Stat(oldSidecar); !os.IsNotExist(err) {
		t.Error("expected old sidecar to be removed")
	}
}

func TestAssignIgnoresAlreadyAssigned(t *testing.T) {
	store := newTestStore(t)

	photo := importPhoto(t, store, "pour.jpg", Metadata{})
	if err := store.AssignToProject([]string{photo.ID}, "7"); err != nil {
		t.Fatalf("AssignToProject failed: %v", err)
	}

	// Re-assigning by the new project-scoped ID is a no-op.
	if err := store.AssignToProject([]string{"7_pour.jpg"}, "8"); err != nil {
		t.Fatalf("AssignToProject failed: %v", err)
	}
	photos, err := store.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(photos) != 1 || photos[0].ProjectID != "7" {
		t.Errorf("expected photo to stay in project 7, got %+v", photos)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	photo := importPhoto(t, store, "gone.jpg", Metadata{})
	if err := store.Delete([]string{photo.ID}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	photos, err := store.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(photos) != 0 {
		t.Errorf("expected no photos after delete, got %d", len(photos))
	}
	if _, err := os.Stat(photo.URI); !os.IsNotExist(err) {
		t.Error("expected image file to be removed")
	}
	if _, err := os.Stat(SidecarPath(photo.URI)); !os.IsNotExist(err) {
		t.Error("expected sidecar to be removed")
	}

	// Deleting the same id again is a no-op.
	if err := store.Delete([]string{photo.ID}); err != nil {
		t.Errorf("second Delete should be a no-op, got %v", err)
	}
}

func TestAssignEndToEnd(t *testing.T) {
	store := newTestStore(t)

	photo := importPhoto(t, store, "rebar.jpg", Metadata{
		Timestamp: time.Now(),
		Tags:      []string{"inspection"},
	})

	photos, err := store.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	unassigned := true
	matched := FilterPhotos(photos, Filter{IsUnassigned: &unassigned})
	if len(matched) != 1 || matched[0].ID != photo.ID {
		t.Fatalf("expected unassigned filter to match the import, got %+v", matched)
	}

	if err := store.AssignToProject([]string{photo.ID}, "42"); err != nil {
		t.Fatalf("AssignToProject failed: %v", err)
	}
	photos, err = store.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	matched = FilterPhotos(photos, Filter{SearchText: "42"})
	if len(matched) != 1 {
		t.Fatalf("expected search for project id to match, got %d", len(matched))
	}
	if matched[0].ProjectID != "42" || matched[0].IsUnassigned {
		t.Errorf("unexpected assigned photo: %+v", matched[0])
	}
}

func TestSidecarPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.jpg", "photo_metadata.json"},
		{"photo.JPEG", "photo_metadata.json"},
		{"dir/photo.png", filepath.Join("dir", "photo_metadata.json")},
	}
	for _, tt := range tests {
		if got := SidecarPath(tt.in); got != tt.want {
			t.Errorf("SidecarPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
