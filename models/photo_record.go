package models

import "time"

// PhotoRecord is the relational bookkeeping row for a photo attached to a
// project. It corresponds to the 'photos' table. The metadata column is an
// opaque JSON blob; the filesystem photo store remains the source of truth
// for photo files and their sidecars, and no consistency between the two
// views is enforced.
type PhotoRecord struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	URI       string    `gorm:"not null" json:"uri"`
	ProjectID uint      `gorm:"not null;index" json:"project_id"`
	Metadata  *string   `gorm:"" json:"metadata,omitempty"` // Nullable, opaque JSON
	CreatedAt time.Time `json:"created_at"`
}

// TableName explicitly sets the table name for GORM.
func (PhotoRecord) TableName() string {
	return "photos"
}
