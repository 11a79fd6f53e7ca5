package model

import "time"

// Community mirrors an identity-provider organization. OrgID is the
// provider's organization id and the upsert key for webhook mutations.
type Community struct {
	ID        uint64 `gorm:"primaryKey"`
	OrgID     string `gorm:"uniqueIndex;size:64;not null"`
	Name      string `gorm:"size:64;not null"`
	Slug      string `gorm:"index;size:64;not null"`
	Image     string `gorm:"size:255"`
	Bio       string `gorm:"type:text"`
	CreatedBy string `gorm:"size:64;index"` // provider subject id of the creator
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CommunityMember holds one row per (community, subject). The unique index
// backs the ON CONFLICT DO NOTHING insert, so adds are idempotent and the
// member set can never contain duplicates.
type CommunityMember struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index;uniqueIndex:uk_community_member"`
	MemberID    string `gorm:"size:64;not null;uniqueIndex:uk_community_member"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
