package model

import "time"

// CommunityOutbox 社区事件监控表: webhook mutations append a row here in the
// same transaction; the relayer drains pending rows into Kafka.
type CommunityOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	EventType string `gorm:"size:48;not null"` // e.g. organization.created
	OrgID     string `gorm:"size:64;not null;index"`
	Payload   string `gorm:"type:json;not null"`
	Status    int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CommunityOutbox) TableName() string { return "community_outbox" }
