package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/constructpro/constructpro-backend/models"
)

// ProjectRepository handles database operations for Project entities
type ProjectRepository struct {
	DB *gorm.DB
}

// NewProjectRepository creates a new instance of ProjectRepository
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{DB: db}
}

// ProjectUpdate carries the optional field changes for Update. A nil field
// is left untouched.
type ProjectUpdate struct {
	Name     *string
	Location *string
	Client   *string
	Status   *string
}

// Create creates a new project record in the database
func (r *ProjectRepository) Create(project *models.Project) error {
	if project.Status == "" {
		project.Status = models.ProjectStatusPending
	}
	if !models.IsValidProjectStatus(project.Status) {
		return fmt.Errorf("invalid project status %q", project.Status)
	}

	err := r.DB.Create(project).Error
	if err != nil {
		return fmt.Errorf("failed to create project %s: %w", project.Name, err)
	}
	return nil
}

// ListAll retrieves all projects, most recently updated first
func (r *ProjectRepository) ListAll() ([]models.Project, error) {
	var projects []models.Project
	err := r.DB.Order("updated_at DESC").Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetByID retrieves a project by its ID
func (r *ProjectRepository) GetByID(id uint) (*models.Project, error) {
	var project models.Project
	err := r.DB.First(&project, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get project by ID %d: %w", id, err)
	}
	return &project, nil
}

// Update applies the given field changes. updated_at is always stamped to
// the current time, even when no fields change, so an empty update doubles
// as a "touch" (used after photo assignment batches).
func (r *ProjectRepository) Update(projectID uint, changes ProjectUpdate) error {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if changes.Name != nil {
		updates["name"] = *changes.Name
	}
	if changes.Location != nil {
		updates["location"] = *changes.Location
	}
	if changes.Client != nil {
		updates["client"] = *changes.Client
	}
	if changes.Status != nil {
		if !models.IsValidProjectStatus(*changes.Status) {
			return fmt.Errorf("invalid project status %q", *changes.Status)
		}
		updates["status"] = *changes.Status
	}

	result := r.DB.Model(&models.Project{}).Where("id = ?", projectID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update project ID %d: %w", projectID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Touch stamps updated_at without changing any other field.
func (r *ProjectRepository) Touch(projectID uint) error {
	return r.Update(projectID, ProjectUpdate{})
}

// Delete removes a project by its ID. Dependent photo rows and team members
// are removed by the cascade constraint.
func (r *ProjectRepository) Delete(id uint) error {
	result := r.DB.Delete(&models.Project{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete project ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetStats returns the per-status project counts via a single aggregate
// query.
func (r *ProjectRepository) GetStats() (models.ProjectStats, error) {
	var stats models.ProjectStats
	row := r.DB.Model(&models.Project{}).Select(
		"COUNT(*) AS total, " +
			"COALESCE(SUM(CASE WHEN status = 'active' THEN 1 ELSE 0 END), 0) AS active, " +
			"COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) AS completed, " +
			"COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) AS pending").
		Row()
	if err := row.Scan(&stats.Total, &stats.Active, &stats.Completed, &stats.Pending); err != nil {
		return models.ProjectStats{}, fmt.Errorf("failed to query project stats: %w", err)
	}
	return stats, nil
}

// Search performs a case-insensitive substring match on name or client,
// most recently updated first.
func (r *ProjectRepository) Search(term string) ([]models.Project, error) {
	var projects []models.Project
	pattern := "%" + term + "%"
	err := r.DB.Where("name LIKE ? OR client LIKE ?", pattern, pattern).
		Order("updated_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search projects for %q: %w", term, err)
	}
	return projects, nil
}
