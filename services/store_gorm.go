package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/echohabit/server/models"
	"github.com/echohabit/server/utils"
)

// The Gorm stores implement the persistence gateways on top of the shared
// MySQL connection. Each write is a single statement except the aggregate
// updates, which run as read-modify-write transactions with row locks.
type GormActivityStore struct {
	db *gorm.DB
}

type GormUserStore struct {
	db *gorm.DB
}

type GormStatsStore struct {
	db *gorm.DB
}

// Stores bundles the three gateways backed by one connection.
type Stores struct {
	Activities ActivityStore
	Users      UserStore
	Stats      StatsStore
}

// NewGormStores wraps a gorm DB as the full set of gateways.
func NewGormStores(db *gorm.DB) *Stores {
	return &Stores{
		Activities: &GormActivityStore{db: db},
		Users:      &GormUserStore{db: db},
		Stats:      &GormStatsStore{db: db},
	}
}

// --- ActivityStore ---

func (s *GormActivityStore) Create(activity *models.Activity) error {
	return s.db.Create(activity).Error
}

func (s *GormActivityStore) ByID(id uint) (*models.Activity, error) {
	var activity models.Activity
	if err := s.db.First(&activity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &activity, nil
}

func (s *GormActivityStore) ListByUser(userID uint, limit, offset int) ([]models.Activity, error) {
	var activities []models.Activity
	q := s.db.Where("user_id = ?", userID).Order("created_at DESC").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&activities).Error
	return activities, err
}

func (s *GormActivityStore) ListByUserBetween(userID uint, start, end time.Time) ([]models.Activity, error) {
	var activities []models.Activity
	err := s.db.Where("user_id = ? AND created_at >= ? AND created_at <= ?", userID, start, end).
		Order("created_at DESC").Find(&activities).Error
	return activities, err
}

func (s *GormActivityStore) ListByCategory(userID uint, category string, limit int) ([]models.Activity, error) {
	var activities []models.Activity
	q := s.db.Where("user_id = ? AND category = ?", userID, category).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&activities).Error
	return activities, err
}

func (s *GormActivityStore) CountByType(userID uint, activityType string) (int64, error) {
	var count int64
	err := s.db.Model(&models.Activity{}).
		Where("user_id = ? AND activity_type = ?", userID, activityType).Count(&count).Error
	return count, err
}

func (s *GormActivityStore) CountByCategory(userID uint, category string) (int64, error) {
	var count int64
	err := s.db.Model(&models.Activity{}).
		Where("user_id = ? AND category = ?", userID, category).Count(&count).Error
	return count, err
}

func (s *GormActivityStore) CountByUser(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Activity{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (s *GormActivityStore) UpdateCard(id uint, cardImageURL, cardStyle string) error {
	return s.db.Model(&models.Activity{}).Where("id = ?", id).
		Updates(map[string]interface{}{"card_image_url": cardImageURL, "card_style": cardStyle}).Error
}

func (s *GormActivityStore) AddShareTarget(id uint, platform string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var activity models.Activity
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&activity, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		for _, p := range activity.SharedTo {
			if p == platform {
				return nil
			}
		}
		activity.SharedTo = append(activity.SharedTo, platform)
		return tx.Model(&activity).Update("shared_to", activity.SharedTo).Error
	})
}

func (s *GormActivityStore) Delete(userID, id uint) error {
	res := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Activity{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- UserStore ---

func (s *GormUserStore) ByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormUserStore) ApplyActivityDelta(userID uint, points int, co2Kg float64) (*models.User, error) {
	var updated models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserMissing
			}
			return err
		}

		user.TotalPoints += points
		user.TotalCO2Kg += co2Kg
		user.Level = utils.LevelFor(user.TotalPoints).Index
		now := time.Now()
		user.LastActivityAt = &now

		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *GormUserStore) UpdateStreak(userID uint, newStreak int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserMissing
			}
			return err
		}

		user.CurrentStreak = newStreak
		if newStreak > user.LongestStreak {
			user.LongestStreak = newStreak
		}
		return tx.Save(&user).Error
	})
}

func (s *GormUserStore) UnlockBadges(userID uint, badgeIDs []string) error {
	if len(badgeIDs) == 0 {
		return nil
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserMissing
			}
			return err
		}

		changed := false
		for _, id := range badgeIDs {
			if !user.HasBadge(id) {
				user.Badges = append(user.Badges, id)
				changed = true
			}
		}
		if !changed {
			return nil
		}
		return tx.Model(&user).Update("badges", user.Badges).Error
	})
}

// --- StatsStore ---

func (s *GormStatsStore) Increment(userID uint, date string, points int, co2Kg float64, category string) error {
	id := models.StatsID(userID, date)
	return s.db.Transaction(func(tx *gorm.DB) error {
		// Atomic upsert so two uploads racing on the first activity of a day
		// both land instead of fighting over the insert.
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"daily_points":   gorm.Expr("daily_points + ?", points),
				"daily_co2_kg":   gorm.Expr("daily_co2_kg + ?", co2Kg),
				"activity_count": gorm.Expr("activity_count + 1"),
				"updated_at":     time.Now(),
			}),
		}).Create(&models.DailyStats{
			ID:            id,
			UserID:        userID,
			Date:          date,
			DailyPoints:   points,
			DailyCO2Kg:    co2Kg,
			ActivityCount: 1,
			Breakdown:     models.CountMap{},
		}).Error
		if err != nil {
			return err
		}

		// The row now exists either way; merge the category breakdown under
		// a row lock. The JSON column has no in-database increment.
		var stats models.DailyStats
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).First(&stats).Error; err != nil {
			return err
		}
		if stats.Breakdown == nil {
			stats.Breakdown = models.CountMap{}
		}
		stats.Breakdown[category]++
		return tx.Model(&stats).Update("breakdown", stats.Breakdown).Error
	})
}

func (s *GormStatsStore) ByDate(userID uint, date string) (*models.DailyStats, error) {
	var stats models.DailyStats
	err := s.db.Where("user_id = ? AND date = ?", userID, date).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Absent rollup reads as an empty day, matching client expectations.
		return &models.DailyStats{
			ID:        models.StatsID(userID, date),
			UserID:    userID,
			Date:      date,
			Breakdown: models.CountMap{},
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *GormStatsStore) Range(userID uint, startDate, endDate string) ([]models.DailyStats, error) {
	var stats []models.DailyStats
	err := s.db.Where("user_id = ? AND date >= ? AND date <= ?", userID, startDate, endDate).
		Order("date DESC").Find(&stats).Error
	return stats, err
}
