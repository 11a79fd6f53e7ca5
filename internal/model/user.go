package model

import "time"

// User mirrors an identity-provider account. SubjectID is the provider's
// user id; rows are created/updated by the onboarding upsert and never
// deleted by this service.
type User struct {
	ID        uint64 `gorm:"primaryKey"`
	SubjectID string `gorm:"uniqueIndex;size:64;not null"`
	Username  string `gorm:"uniqueIndex;size:32;not null"`
	Name      string `gorm:"size:64;not null"`
	Image     string `gorm:"size:255"`
	Bio       string `gorm:"type:text"`
	Onboarded bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
