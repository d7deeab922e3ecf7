package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/constructpro/constructpro-backend/models"
)

// PhotoRecordRepository handles database operations for photo rows
type PhotoRecordRepository struct {
	DB *gorm.DB
}

// NewPhotoRecordRepository creates a new instance of PhotoRecordRepository
func NewPhotoRecordRepository(db *gorm.DB) *PhotoRecordRepository {
	return &PhotoRecordRepository{DB: db}
}

// Create inserts a photo row for a project
func (r *PhotoRecordRepository) Create(record *models.PhotoRecord) error {
	err := r.DB.Create(record).Error
	if err != nil {
		return fmt.Errorf("failed to create photo record for %s: %w", record.URI, err)
	}
	return nil
}

// ListByProject retrieves a project's photo rows, newest first
func (r *PhotoRecordRepository) ListByProject(projectID uint) ([]models.PhotoRecord, error) {
	var records []models.PhotoRecord
	err := r.DB.Where("project_id = ?", projectID).Order("created_at DESC").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list photo records for project %d: %w", projectID, err)
	}
	return records, nil
}

// Delete removes a photo row by its ID
func (r *PhotoRecordRepository) Delete(id uint) error {
	result := r.DB.Delete(&models.PhotoRecord{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete photo record ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
