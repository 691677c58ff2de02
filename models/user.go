package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an app user together with their cumulative impact
// aggregates. Passwords are stored as bcrypt hashes only.
type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Username       string         `gorm:"size:64;uniqueIndex;not null" json:"username"`
	DisplayName    string         `gorm:"size:128" json:"display_name"`
	Email          string         `gorm:"size:255" json:"email"`
	PasswordHash   string         `gorm:"size:255" json:"-"`
	AvatarURL      string         `gorm:"size:512" json:"avatar_url"`
	Level          int            `gorm:"default:1" json:"level"`
	TotalPoints    int            `gorm:"default:0" json:"total_points"`
	TotalCO2Kg     float64        `gorm:"default:0" json:"total_co2_saved_kg"`
	CurrentStreak  int            `gorm:"default:0" json:"current_streak"`
	LongestStreak  int            `gorm:"default:0" json:"longest_streak"`
	Badges         StringList     `gorm:"type:text" json:"badges"`
	LastActivityAt *time.Time     `json:"last_activity_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	Activities     []Activity     `json:"-"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	if u.Level == 0 {
		u.Level = 1
	}
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}

// HasBadge reports whether the badge id is already unlocked.
func (u *User) HasBadge(id string) bool {
	for _, b := range u.Badges {
		if b == id {
			return true
		}
	}
	return false
}
