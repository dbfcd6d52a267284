package models

import "github.com/defectrack/defectrack/internal/types"

type Defect struct {
	BaseModel

	Name       string `gorm:"not null"`
	ProjectID  uint   `gorm:"not null;index"`
	EngineerID *uint  `gorm:"index"`

	// Relationships
	Project  *Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Engineer *User    `gorm:"foreignKey:EngineerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (d Defect) Response() types.DefectResponse {
	return types.DefectResponse{ID: d.ID, Name: d.Name, ProjectID: d.ProjectID, EngineerID: d.EngineerID}
}
