package services

import "github.com/echohabit/server/models"

// BadgeService evaluates the fixed badge catalog against a user's progress
// after each upload. Unlocks are additive only.
type BadgeService struct {
	activities ActivityStore
	users      UserStore
}

// NewBadgeService creates a BadgeService.
func NewBadgeService(activities ActivityStore, users UserStore) *BadgeService {
	return &BadgeService{activities: activities, users: users}
}

// CheckAndUnlock evaluates badge requirements for the user and persists any
// newly earned badges. Returns the badges unlocked by this call.
func (b *BadgeService) CheckAndUnlock(user *models.User) ([]models.BadgeInfo, error) {
	var earned []models.BadgeInfo
	var earnedIDs []string

	for _, badge := range models.Badges {
		if user.HasBadge(badge.ID) {
			continue
		}

		progress, err := b.progressFor(user, badge.ID)
		if err != nil {
			return nil, err
		}
		if progress >= badge.Requirement {
			earned = append(earned, badge)
			earnedIDs = append(earnedIDs, badge.ID)
		}
	}

	if len(earnedIDs) == 0 {
		return nil, nil
	}
	if err := b.users.UnlockBadges(user.ID, earnedIDs); err != nil {
		return nil, err
	}
	return earned, nil
}

func (b *BadgeService) progressFor(user *models.User, badgeID string) (int, error) {
	switch badgeID {
	case models.BadgeFireStarter, models.BadgeConsistencyKing, models.BadgeEcoLegend:
		return user.CurrentStreak, nil
	case models.BadgePedalPower:
		n, err := b.activities.CountByType(user.ID, models.TypeBike)
		return int(n), err
	case models.BadgePlantPioneer:
		n, err := b.activities.CountByType(user.ID, models.TypeVeganMeal)
		return int(n), err
	case models.BadgeWasteWarrior:
		n, err := b.activities.CountByCategory(user.ID, models.CategoryCutWaste)
		return int(n), err
	case models.BadgePlanetHero:
		n, err := b.activities.CountByUser(user.ID)
		return int(n), err
	default:
		return 0, nil
	}
}
