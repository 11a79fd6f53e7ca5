package model

import "time"

// Thread is a post. A nil ParentID marks a top-level thread; replies point
// at their parent. Threads are immutable after creation.
type Thread struct {
	ID        uint64    `gorm:"primaryKey"`
	AuthorID  string    `gorm:"size:64;not null;index:idx_author_time"`
	OrgID     *string   `gorm:"size:64;index:idx_org_time,priority:1"` // owning community, nil for personal threads
	ParentID  *uint64   `gorm:"index"`
	Text      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index:idx_org_time,priority:2,sort:desc;index:idx_author_time"`
	UpdatedAt time.Time
}
