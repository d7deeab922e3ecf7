package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/constructpro/constructpro-backend/config"
	"github.com/constructpro/constructpro-backend/exif"
	"github.com/constructpro/constructpro-backend/photostore"
	"github.com/constructpro/constructpro-backend/repository"
	"github.com/constructpro/constructpro-backend/workers"
)

const maxUploadSize = 32 << 20 // 32 MB

type PhotoHandler struct {
	Store       *photostore.Store
	Cfg         config.Config
	ThumbGen    *workers.ThumbnailGenerator
	ProjectRepo *repository.ProjectRepository
}

// parseFilter builds listing criteria from query parameters. Every criterion
// is optional.
func parseFilter(r *http.Request) (photostore.Filter, error) {
	var filter photostore.Filter
	q := r.URL.Query()

	if v := q.Get("project_id"); v != "" {
		filter.ProjectID = &v
	}
	if v := q.Get("is_unassigned"); v != "" {
		unassigned, err := strconv.ParseBool(v)
		if err != nil {
			return filter, err
		}
		filter.IsUnassigned = &unassigned
	}
	if v := q.Get("start_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, err
		}
		filter.StartDate = &t
	}
	if v := q.Get("end_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, err
		}
		filter.EndDate = &t
	}
	if v := q.Get("radius"); v != "" {
		radius, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, err
		}
		lat, err := strconv.ParseFloat(q.Get("lat"), 64)
		if err != nil {
			return filter, err
		}
		lng, err := strconv.ParseFloat(q.Get("lng"), 64)
		if err != nil {
			return filter, err
		}
		filter.Location = &photostore.RadiusFilter{Latitude: lat, Longitude: lng, RadiusMeters: radius}
	}
	if v := q.Get("tags"); v != "" {
		filter.Tags = strings.Split(v, ",")
	}
	filter.SearchText = q.Get("search")
	return filter, nil
}

// ListPhotos returns every managed photo, optionally filtered by query
// parameters.
func (ph *PhotoHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_filter", "Invalid filter parameter: "+err.Error())
		return
	}

	photos, err := ph.Store.ListAll()
	if err != nil {
		log.Printf("Error listing photos: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "list_failed", "Failed to list photos")
		return
	}

	writeJSON(w, http.StatusOK, photostore.FilterPhotos(photos, filter))
}

// ImportPhoto lands an uploaded capture in the unassigned area. The multipart
// form carries the image under "photo" and an optional "metadata" part with a
// sidecar-shaped JSON record.
func (ph *PhotoHandler) ImportPhoto(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_upload", "Failed to parse multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "missing_photo", "Missing 'photo' file field")
		return
	}
	defer file.Close()

	var meta photostore.Metadata
	if raw := r.FormValue("metadata"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &meta); err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_metadata", "Invalid metadata JSON: "+err.Error())
			return
		}
	}

	photo, err := ph.Store.Import(file, header.Filename, meta)
	if err != nil {
		log.Printf("Error importing photo %s: %v", header.Filename, err)
		WriteAPIError(w, http.StatusInternalServerError, "import_failed", "Failed to import photo")
		return
	}

	if ph.ThumbGen != nil {
		modTime := time.Now().Unix()
		if info, err := os.Stat(photo.URI); err == nil {
			modTime = info.ModTime().Unix()
		}
		ph.ThumbGen.QueueJob(workers.ThumbnailJob{ImagePath: photo.URI, ModTimeUnix: modTime})
	}

	writeJSON(w, http.StatusCreated, photo)
}

type assignPayload struct {
	PhotoIDs  []string `json:"photo_ids"`
	ProjectID string   `json:"project_id"`
}

// AssignPhotos moves unassigned photos into a project's photo area and
// touches the project row so it surfaces as recently updated.
func (ph *PhotoHandler) AssignPhotos(w http.ResponseWriter, r *http.Request) {
	var payload assignPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload")
		return
	}
	if len(payload.PhotoIDs) == 0 || payload.ProjectID == "" {
		WriteAPIError(w, http.StatusBadRequest, "missing_fields", "photo_ids and project_id are required")
		return
	}

	if err := ph.Store.AssignToProject(payload.PhotoIDs, payload.ProjectID); err != nil {
		log.Printf("Error assigning photos to project %s: %v", payload.ProjectID, err)
		WriteAPIError(w, http.StatusInternalServerError, "assign_failed", "Failed to assign photos: "+err.Error())
		return
	}

	if ph.ProjectRepo != nil {
		if projectID, err := strconv.ParseUint(payload.ProjectID, 10, 32); err == nil {
			if err := ph.ProjectRepo.Touch(uint(projectID)); err != nil {
				log.Printf("Warning: failed to touch project %s after assignment: %v", payload.ProjectID, err)
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Photos assigned successfully"})
}

type deletePayload struct {
	PhotoIDs []string `json:"photo_ids"`
}

// DeletePhotos removes photos, their sidecars and thumbnails.
func (ph *PhotoHandler) DeletePhotos(w http.ResponseWriter, r *http.Request) {
	var payload deletePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload")
		return
	}
	if len(payload.PhotoIDs) == 0 {
		WriteAPIError(w, http.StatusBadRequest, "missing_fields", "photo_ids is required")
		return
	}

	if err := ph.Store.Delete(payload.PhotoIDs); err != nil {
		log.Printf("Error deleting photos: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "delete_failed", "Failed to delete photos")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Photos deleted successfully"})
}

// findPhotoByID locates a photo by its listing ID.
func findPhotoByID(store *photostore.Store, photoID string) (photostore.Photo, bool, error) {
	photos, err := store.ListAll()
	if err != nil {
		return photostore.Photo{}, false, err
	}
	for _, photo := range photos {
		if photo.ID == photoID {
			return photo, true, nil
		}
	}
	return photostore.Photo{}, false, nil
}

// GetPhotoDisplay returns the formatted metadata bundle for one photo.
func (ph *PhotoHandler) GetPhotoDisplay(w http.ResponseWriter, r *http.Request) {
	photoID := chi.URLParam(r, "photoID")
	photo, found, err := findPhotoByID(ph.Store, photoID)
	if err != nil {
		log.Printf("Error looking up photo %s: %v", photoID, err)
		WriteAPIError(w, http.StatusInternalServerError, "lookup_failed", "Failed to look up photo")
		return
	}
	if !found {
		WriteAPIError(w, http.StatusNotFound, "not_found", "Photo not found")
		return
	}

	display := exif.FormatDisplay(photo.Exif, photo.Metadata.SidecarInfo())
	writeJSON(w, http.StatusOK, display)
}

// GetPhotoReport returns the detailed multi-line metadata report as plain
// text.
func (ph *PhotoHandler) GetPhotoReport(w http.ResponseWriter, r *http.Request) {
	photoID := chi.URLParam(r, "photoID")
	photo, found, err := findPhotoByID(ph.Store, photoID)
	if err != nil {
		log.Printf("Error looking up photo %s: %v", photoID, err)
		WriteAPIError(w, http.StatusInternalServerError, "lookup_failed", "Failed to look up photo")
		return
	}
	if !found {
		WriteAPIError(w, http.StatusNotFound, "not_found", "Photo not found")
		return
	}

	report := exif.DetailedReport(photo.Exif, photo.Metadata.SidecarInfo())
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(report))
}
