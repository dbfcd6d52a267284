package models

// ProjectEngineer is the roster join table between projects and engineers.
type ProjectEngineer struct {
	ProjectID uint `gorm:"primaryKey;autoIncrement:false"`
	UserID    uint `gorm:"primaryKey;autoIncrement:false;index"`

	// Relationships
	Project *Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	User    *User    `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (ProjectEngineer) TableName() string { return "project_engineers" }
