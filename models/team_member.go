package models

// TeamMember represents a person assigned to a project. It corresponds to
// the 'team_members' table.
type TeamMember struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string `gorm:"not null" json:"name"`
	Role      string `gorm:"not null" json:"role"`
	ProjectID uint   `gorm:"not null;index" json:"project_id"`
}

// TableName explicitly sets the table name for GORM.
func (TeamMember) TableName() string {
	return "team_members"
}
