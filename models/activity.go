package models

import "time"

// Activity is one logged eco-action. Points and CO2 are derived from the
// activity type at creation time and never change afterwards.
type Activity struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"index;not null" json:"user_id"`
	Category     string     `gorm:"size:32;index;not null" json:"category"`
	ActivityType string     `gorm:"size:32;index;not null" json:"activity_type"`
	PhotoPath    string     `gorm:"size:1024" json:"-"`
	PhotoURL     string     `gorm:"size:1024" json:"photo_url"`
	Caption      string     `gorm:"size:512" json:"caption"`
	Points       int        `gorm:"not null" json:"points"`
	CO2SavedKg   float64    `gorm:"not null" json:"co2_saved_kg"`
	CardStyle    string     `gorm:"size:32;default:'glassmorphism'" json:"card_style"`
	CardImageURL string     `gorm:"size:1024" json:"card_image_url"`
	SharedTo     StringList `gorm:"type:text" json:"shared_to"`
	// Synced mirrors the mobile client's local sync flag. The server never
	// flips it; it exists so synced records round-trip unchanged.
	Synced    bool      `gorm:"default:false" json:"-"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
