package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/constructpro/constructpro-backend/config"
	"github.com/constructpro/constructpro-backend/models"
	"github.com/constructpro/constructpro-backend/photostore"
	"github.com/constructpro/constructpro-backend/repository"
	"github.com/constructpro/constructpro-backend/utils"
)

type ProjectHandler struct {
	Repo      *repository.ProjectRepository
	PhotoRepo *repository.PhotoRecordRepository
	TeamRepo  *repository.TeamMemberRepository
	Store     *photostore.Store
	Cfg       config.Config
}

func parseProjectID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "projectID"), 10, 32)
	return uint(id), err
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Location string `json:"location"`
		Client   string `json:"client"`
		Status   string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		WriteAPIError(w, http.StatusBadRequest, "missing_fields", "Missing required field: name")
		return
	}

	project := &models.Project{
		Name:     req.Name,
		Location: req.Location,
		Client:   req.Client,
		Status:   req.Status,
	}
	if err := h.Repo.Create(project); err != nil {
		log.Printf("Error creating project '%s': %v", req.Name, err)
		WriteAPIError(w, http.StatusBadRequest, "create_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	if term := r.URL.Query().Get("search"); term != "" {
		projects, err := h.Repo.Search(term)
		if err != nil {
			log.Printf("Error searching projects for %q: %v", term, err)
			WriteAPIError(w, http.StatusInternalServerError, "search_failed", "Failed to search projects")
			return
		}
		writeJSON(w, http.StatusOK, projects)
		return
	}

	projects, err := h.Repo.ListAll()
	if err != nil {
		log.Printf("Error listing projects: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "list_failed", "Failed to list projects")
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseProjectID(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid project ID")
		return
	}

	project, err := h.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Project not found")
			return
		}
		log.Printf("Error fetching project %d: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, "fetch_failed", "Failed to fetch project")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseProjectID(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid project ID")
		return
	}

	var changes repository.ProjectUpdate
	var req struct {
		Name     *string `json:"name"`
		Location *string `json:"location"`
		Client   *string `json:"client"`
		Status   *string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body: "+err.Error())
		return
	}
	changes.Name = req.Name
	changes.Location = req.Location
	changes.Client = req.Client
	changes.Status = req.Status

	if err := h.Repo.Update(id, changes); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Project not found")
			return
		}
		log.Printf("Error updating project %d: %v", id, err)
		WriteAPIError(w, http.StatusBadRequest, "update_failed", err.Error())
		return
	}

	project, err := h.Repo.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Project updated"})
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseProjectID(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid project ID")
		return
	}

	if err := h.Repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Project not found")
			return
		}
		log.Printf("Error deleting project %d: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, "delete_failed", "Failed to delete project")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Project deleted"})
}

func (h *ProjectHandler) GetProjectStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Repo.GetStats()
	if err != nil {
		log.Printf("Error fetching project stats: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "stats_failed", "Failed to fetch project stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *ProjectHandler) ListProjectPhotos(w http.ResponseWriter, r *http.Request) {
	id, err := parseProjectID(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid project ID")
		return
	}

	records, err := h.PhotoRepo.ListByProject(id)
	if err != nil {
		log.Printf("Error listing photo records for project %d: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, "list_failed", "Failed to list project photos")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// AddProjectPhoto records a photo row against a project. The filesystem
// store is the source of truth for files; this row is relational
// bookkeeping only.
func (h *ProjectHandler) AddProjectPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := parseProjectID(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid project ID")
		return
	}

	var req struct {
		URI      string  `json:"uri"`
		Metadata *string `json:"metadata"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body: "+err.Error())
		return
	}
	if req.URI == "" {
		WriteAPIError(w, http.StatusBadRequest, "missing_fields", "Missing required field: uri")
		return
	}

	if _, err := h.Repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Project not found")
			return
		}
		log.Printf("Error fetching project %d: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, "fetch_failed", "Failed to fetch project")
		return
	}

	record := &models.PhotoRecord{URI: req.URI, ProjectID: id, Metadata: req.Metadata}
	if err := h.PhotoRepo.Create(record); err != nil {
		log.Printf("Error adding photo record to project %d: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, "create_failed", "Failed to add photo record")
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

// RemoveProjectPhoto deletes a photo row by its ID.
func (h *ProjectHandler) RemoveProjectPhoto(w http.ResponseWriter, r *http.Request) {
	recordID, err := strconv.ParseUint(chi.URLParam(r, "recordID"), 10, 32)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid photo record ID")
		return
	}

	if err := h.PhotoRepo.Delete(uint(recordID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Photo record not found")
			return
		}
		log.Printf("Error removing photo record %d: %v", recordID, err)
		WriteAPIError(w, http.StatusInternalServerError, "delete_failed", "Failed to remove photo record")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Photo record removed"})
}

func (h *ProjectHandler) AddTeamMember(w http.ResponseWriter, r *http.Request) {
	id, err := parseProjectID(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid project ID")
		return
	}

	var req struct {
		Name string `json:"name"`
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		WriteAPIError(w, http.StatusBadRequest, "missing_fields", "Missing required field: name")
		return
	}

	if _, err := h.Repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Project not found")
			return
		}
		log.Printf("Error fetching project %d: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, "fetch_failed", "Failed to fetch project")
		return
	}

	member := &models.TeamMember{Name: req.Name, Role: req.Role, ProjectID: id}
	if err := h.TeamRepo.Create(member); err != nil {
		log.Printf("Error adding team member to project %d: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, "create_failed", "Failed to add team member")
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

func (h *ProjectHandler) ListTeamMembers(w http.ResponseWriter, r *http.Request) {
	id, err := parseProjectID(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid project ID")
		return
	}

	members, err := h.TeamRepo.ListByProject(id)
	if err != nil {
		log.Printf("Error listing team members for project %d: %v", id, err)
		WriteAPIError(w, http.StatusInternalServerError, "list_failed", "Failed to list team members")
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *ProjectHandler) RemoveTeamMember(w http.ResponseWriter, r *http.Request) {
	memberID, err := strconv.ParseUint(chi.URLParam(r, "memberID"), 10, 32)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid team member ID")
		return
	}

	if err := h.TeamRepo.Delete(uint(memberID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Team member not found")
			return
		}
		log.Printf("Error removing team member %d: %v", memberID, err)
		WriteAPIError(w, http.StatusInternalServerError, "delete_failed", "Failed to remove team member")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Team member removed"})
}

// ExportProjectArchive zips the project's photo area, sidecars included, and
// returns the archive name for download via the archives asset route.
func (h *ProjectHandler) ExportProjectArchive(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if projectID == "" {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid project ID")
		return
	}

	photoDir := h.Store.ProjectPhotoDir(projectID)
	archivePath, size, err := utils.CreateProjectArchive(photoDir, h.Cfg.ArchivesPath)
	if err != nil {
		log.Printf("Error creating archive for project %s: %v", projectID, err)
		WriteAPIError(w, http.StatusInternalServerError, "archive_failed", "Failed to create project archive: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"archive":    filepath.Base(archivePath),
		"size_bytes": size,
	})
}
