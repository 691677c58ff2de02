package services

import (
	"errors"
	"time"

	"github.com/echohabit/server/models"
)

// ErrUserMissing is returned when an aggregate update targets a user row
// that does not exist. Callers decide whether to initialize or fail; the
// update itself never degrades to a silent no-op.
var ErrUserMissing = errors.New("user aggregate missing")

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ActivityStore is the persistence gateway for activity records.
type ActivityStore interface {
	Create(activity *models.Activity) error
	ByID(id uint) (*models.Activity, error)
	ListByUser(userID uint, limit, offset int) ([]models.Activity, error)
	ListByUserBetween(userID uint, start, end time.Time) ([]models.Activity, error)
	ListByCategory(userID uint, category string, limit int) ([]models.Activity, error)
	CountByType(userID uint, activityType string) (int64, error)
	CountByCategory(userID uint, category string) (int64, error)
	CountByUser(userID uint) (int64, error)
	UpdateCard(id uint, cardImageURL, cardStyle string) error
	AddShareTarget(id uint, platform string) error
	Delete(userID, id uint) error
}

// UserStore is the persistence gateway for user profiles and their
// cumulative aggregates.
type UserStore interface {
	ByID(id uint) (*models.User, error)
	// ApplyActivityDelta adds points/CO2 to the user's totals and recomputes
	// the level inside a single transaction. Returns ErrUserMissing when the
	// user row is absent.
	ApplyActivityDelta(userID uint, points int, co2Kg float64) (*models.User, error)
	// UpdateStreak overwrites currentStreak and raises longestStreak when
	// exceeded.
	UpdateStreak(userID uint, newStreak int) error
	UnlockBadges(userID uint, badgeIDs []string) error
}

// StatsStore is the persistence gateway for per-day rollups.
type StatsStore interface {
	// Increment applies one activity to the user's rollup for the given day,
	// creating the row on the first activity of that day.
	Increment(userID uint, date string, points int, co2Kg float64, category string) error
	ByDate(userID uint, date string) (*models.DailyStats, error)
	Range(userID uint, startDate, endDate string) ([]models.DailyStats, error)
}

// PhotoStore persists uploaded photo data and resolves stored references.
type PhotoStore interface {
	// Save writes the photo bytes for a user and returns the stored path and
	// its public URL.
	Save(userID uint, data []byte) (path string, url string, err error)
}
