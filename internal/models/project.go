package models

type Project struct {
	BaseModel

	Name      string `gorm:"not null"`
	CompanyID uint   `gorm:"not null;index"`
	ManagerID *uint  `gorm:"index"`

	// Relationships
	Company *Company `gorm:"foreignKey:CompanyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Manager *User    `gorm:"foreignKey:ManagerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}
