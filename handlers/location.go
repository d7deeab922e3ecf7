package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/constructpro/constructpro-backend/geo"
	"github.com/constructpro/constructpro-backend/location"
	"github.com/constructpro/constructpro-backend/photostore"
)

type LocationHandler struct {
	Svc   *location.Service
	Store *photostore.Store
}

// VerifyPhotoLocation compares a photo's embedded GPS fix against the
// device's current position.
func (lh *LocationHandler) VerifyPhotoLocation(w http.ResponseWriter, r *http.Request) {
	photoID := chi.URLParam(r, "photoID")
	photo, found, err := findPhotoByID(lh.Store, photoID)
	if err != nil {
		log.Printf("Error looking up photo %s: %v", photoID, err)
		WriteAPIError(w, http.StatusInternalServerError, "lookup_failed", "Failed to look up photo")
		return
	}
	if !found {
		WriteAPIError(w, http.StatusNotFound, "not_found", "Photo not found")
		return
	}

	result, err := lh.Svc.VerifyPhotoLocation(r.Context(), photo.URI)
	if err != nil {
		log.Printf("Error verifying location for %s: %v", photoID, err)
		WriteAPIError(w, http.StatusInternalServerError, "verify_failed", "Failed to verify photo location")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type updateLocationPayload struct {
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Altitude    *float64 `json:"altitude,omitempty"`
	Accuracy    *float64 `json:"accuracy,omitempty"`
	ManuallySet bool     `json:"manuallySet"`
}

// UpdatePhotoLocation writes a location fix into a photo's sidecar.
func (lh *LocationHandler) UpdatePhotoLocation(w http.ResponseWriter, r *http.Request) {
	photoID := chi.URLParam(r, "photoID")
	photo, found, err := findPhotoByID(lh.Store, photoID)
	if err != nil {
		log.Printf("Error looking up photo %s: %v", photoID, err)
		WriteAPIError(w, http.StatusInternalServerError, "lookup_failed", "Failed to look up photo")
		return
	}
	if !found {
		WriteAPIError(w, http.StatusNotFound, "not_found", "Photo not found")
		return
	}

	var payload updateLocationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload")
		return
	}

	coord := geo.Coordinate{
		Latitude:  payload.Latitude,
		Longitude: payload.Longitude,
		Altitude:  payload.Altitude,
	}
	if err := lh.Svc.UpdatePhotoLocation(photo.URI, coord, payload.Accuracy, payload.ManuallySet); err != nil {
		if !coord.IsValid() {
			WriteAPIError(w, http.StatusBadRequest, "invalid_coordinates", err.Error())
			return
		}
		log.Printf("Error updating location for %s: %v", photoID, err)
		WriteAPIError(w, http.StatusInternalServerError, "update_failed", "Failed to update photo location")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Photo location updated"})
}

// RemovePhotoLocation clears the location field from a photo's sidecar.
func (lh *LocationHandler) RemovePhotoLocation(w http.ResponseWriter, r *http.Request) {
	photoID := chi.URLParam(r, "photoID")
	photo, found, err := findPhotoByID(lh.Store, photoID)
	if err != nil {
		log.Printf("Error looking up photo %s: %v", photoID, err)
		WriteAPIError(w, http.StatusInternalServerError, "lookup_failed", "Failed to look up photo")
		return
	}
	if !found {
		WriteAPIError(w, http.StatusNotFound, "not_found", "Photo not found")
		return
	}

	if err := lh.Svc.RemovePhotoLocation(photo.URI); err != nil {
		log.Printf("Error removing location for %s: %v", photoID, err)
		WriteAPIError(w, http.StatusInternalServerError, "remove_failed", "Failed to remove photo location")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Photo location removed"})
}

// ReverseGeocode resolves coordinates to an address string.
func (lh *LocationHandler) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_coordinates", "lat and lng query parameters are required")
		return
	}

	coord := geo.Coordinate{Latitude: lat, Longitude: lng}
	if !coord.IsValid() {
		WriteAPIError(w, http.StatusBadRequest, "invalid_coordinates", "Coordinates out of range")
		return
	}

	address, err := lh.Svc.ReverseGeocode(r.Context(), coord)
	if err != nil {
		if errors.Is(err, location.ErrNoResult) {
			WriteAPIError(w, http.StatusNotFound, "no_result", "No address found for coordinates")
			return
		}
		log.Printf("Error reverse geocoding %.6f, %.6f: %v", lat, lng, err)
		WriteAPIError(w, http.StatusInternalServerError, "geocode_failed", "Reverse geocoding failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"address": address})
}
