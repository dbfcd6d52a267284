package models

import "github.com/defectrack/defectrack/internal/types"

type User struct {
	BaseModel

	Username     string     `gorm:"size:191;uniqueIndex;not null"`
	Email        string     `gorm:"size:191;uniqueIndex;not null"`
	PasswordHash string     `gorm:"not null"`
	Role         types.Role `gorm:"size:16;not null;index"`
	CompanyID    *uint      `gorm:"index"`

	// Relationships
	Company *Company `gorm:"foreignKey:CompanyID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (u User) Actor() types.Actor {
	return types.Actor{ID: u.ID, Role: u.Role, CompanyID: u.CompanyID}
}

func (u User) Summary() types.UserSummary {
	return types.UserSummary{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}
