package models

import "time"

// Project status values.
const (
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusPending   = "pending"
)

// IsValidProjectStatus reports whether s is one of the known status values.
func IsValidProjectStatus(s string) bool {
	return s == ProjectStatusActive || s == ProjectStatusCompleted || s == ProjectStatusPending
}

// Project represents a construction project in the database using GORM.
// It corresponds to the 'projects' table.
type Project struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Location  string    `gorm:"not null" json:"location"`
	Client    string    `gorm:"not null" json:"client"`
	Status    string    `gorm:"not null;default:pending" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Photos      []PhotoRecord `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"photos,omitempty"`
	TeamMembers []TeamMember  `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"team_members,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Project) TableName() string {
	return "projects"
}

// ProjectStats holds the per-status project counts.
type ProjectStats struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
	Pending   int64 `json:"pending"`
}
