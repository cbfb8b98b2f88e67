package models

import (
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// HistoryEntry is one immutable turn of a user's conversation. Entries are
// only ever appended or purged wholesale; there is no update path.
type HistoryEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    int64     `gorm:"index;not null" json:"user_id"`
	Role      string    `gorm:"type:varchar(20);not null" json:"role"`
	Content   string    `gorm:"not null" json:"content"`
	Timestamp time.Time `gorm:"index;not null" json:"timestamp"`
}

func (HistoryEntry) TableName() string {
	return "history_entries"
}
