package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment records a successful platform payment event. The payload tag
// identifies the tier the user picked; the entitlement effect is uniform
// regardless of it.
type Payment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    int64     `gorm:"index;not null" json:"user_id"`
	Payload   string    `gorm:"type:varchar(64);not null" json:"payload"`
	Currency  string    `gorm:"type:varchar(8);not null" json:"currency"`
	Amount    int       `gorm:"not null" json:"amount"` // smallest currency units
	ChargeID  string    `gorm:"type:varchar(128)" json:"charge_id"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	return nil
}
