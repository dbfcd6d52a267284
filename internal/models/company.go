package models

// Company owns its projects. Users point at a company but are not owned by it.
type Company struct {
	BaseModel

	Name string `gorm:"not null"`
}
