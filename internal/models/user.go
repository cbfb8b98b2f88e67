package models

import (
	"time"
)

// UnlimitedUses is the sentinel written into every counter when a user
// upgrades. Availability checks treat premium users as always allowed, so
// the value is only ever read back for display.
const UnlimitedUses = 9999

type User struct {
	ID         int64     `gorm:"primaryKey" json:"id"` // platform-assigned user identifier
	TextUses   int       `gorm:"not null" json:"text_uses"`
	ImageUses  int       `gorm:"not null" json:"image_uses"`
	VisionUses int       `gorm:"not null" json:"vision_uses"`
	CodeUses   int       `gorm:"not null" json:"code_uses"`
	Premium    bool      `gorm:"not null;default:false" json:"premium"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Remaining returns the counter for the given feature; 0 for an unknown one.
func (u *User) Remaining(feature Feature) int {
	switch feature {
	case FeatureText:
		return u.TextUses
	case FeatureImage:
		return u.ImageUses
	case FeatureVision:
		return u.VisionUses
	case FeatureCode:
		return u.CodeUses
	}
	return 0
}
