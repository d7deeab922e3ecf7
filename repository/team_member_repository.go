package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/constructpro/constructpro-backend/models"
)

// TeamMemberRepository handles database operations for TeamMember entities
type TeamMemberRepository struct {
	DB *gorm.DB
}

// NewTeamMemberRepository creates a new instance of TeamMemberRepository
func NewTeamMemberRepository(db *gorm.DB) *TeamMemberRepository {
	return &TeamMemberRepository{DB: db}
}

// Create adds a team member to a project
func (r *TeamMemberRepository) Create(member *models.TeamMember) error {
	err := r.DB.Create(member).Error
	if err != nil {
		return fmt.Errorf("failed to add team member %s: %w", member.Name, err)
	}
	return nil
}

// ListByProject retrieves a project's team members
func (r *TeamMemberRepository) ListByProject(projectID uint) ([]models.TeamMember, error) {
	var members []models.TeamMember
	err := r.DB.Where("project_id = ?", projectID).Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list team members for project %d: %w", projectID, err)
	}
	return members, nil
}

// Delete removes a team member by ID
func (r *TeamMemberRepository) Delete(id uint) error {
	result := r.DB.Delete(&models.TeamMember{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete team member ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
