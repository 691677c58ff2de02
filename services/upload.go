package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/echohabit/server/models"
	"github.com/echohabit/server/utils"
)

// ErrInvalidActivity is returned when category or activity type fail
// validation before any write happens.
var ErrInvalidActivity = errors.New("invalid category or activity type")

// UploadRequest carries everything needed to log one activity.
type UploadRequest struct {
	UserID       uint
	Category     string
	ActivityType string
	Caption      string
	Photo        []byte
}

// UploadOutcome reports the result of one upload. The Activity record is the
// primary write; the aggregate phases after it are best-effort and their
// individual success is recorded so callers can distinguish a fully applied
// upload from a partially applied one.
type UploadOutcome struct {
	Activity  *models.Activity   `json:"activity"`
	User      *models.User       `json:"user,omitempty"`
	Streak    StreakResult       `json:"streak"`
	NewBadges []models.BadgeInfo `json:"new_badges,omitempty"`

	UserStatsApplied  bool `json:"user_stats_applied"`
	DailyStatsApplied bool `json:"daily_stats_applied"`
	StreakApplied     bool `json:"streak_applied"`
	BadgesApplied     bool `json:"badges_applied"`
}

// FullyApplied reports whether every phase after the primary record
// creation also succeeded.
func (o *UploadOutcome) FullyApplied() bool {
	return o.UserStatsApplied && o.DailyStatsApplied && o.StreakApplied && o.BadgesApplied
}

// UploadService is the activity upload orchestrator. One call runs the whole
// pipeline in order: persist photo, compute points/CO2, create the activity
// record, then update user totals, the daily rollup, the streak and badges.
//
// Failures before or during activity creation abort the pipeline and surface
// the failing step's error. Failures after it are logged and reflected in the
// outcome flags; already-completed steps are not rolled back.
type UploadService struct {
	activities ActivityStore
	users      UserStore
	stats      StatsStore
	photos     PhotoStore
	streaks    *StreakService
	badges     *BadgeService
}

// NewUploadService wires the orchestrator.
func NewUploadService(activities ActivityStore, users UserStore, stats StatsStore, photos PhotoStore) *UploadService {
	return &UploadService{
		activities: activities,
		users:      users,
		stats:      stats,
		photos:     photos,
		streaks:    NewStreakService(activities, users),
		badges:     NewBadgeService(activities, users),
	}
}

// Upload runs the pipeline for one activity.
func (u *UploadService) Upload(req UploadRequest) (*UploadOutcome, error) {
	if !models.ValidCategory(req.Category) || !models.ValidActivityType(req.Category, req.ActivityType) {
		return nil, ErrInvalidActivity
	}
	if len(req.Photo) == 0 {
		return nil, fmt.Errorf("no photo provided")
	}

	// 1. Persist the photo to obtain a stable reference.
	photoPath, photoURL, err := u.photos.Save(req.UserID, req.Photo)
	if err != nil {
		return nil, fmt.Errorf("save photo: %w", err)
	}

	// 2. Points and CO2 are fixed by the activity type at creation time.
	points, co2Kg := utils.ActivityValue(req.ActivityType)

	// 3. Create the activity record. This is the primary write; failure here
	// fails the upload even though the photo is already on disk.
	activity := &models.Activity{
		UserID:       req.UserID,
		Category:     req.Category,
		ActivityType: req.ActivityType,
		PhotoPath:    photoPath,
		PhotoURL:     photoURL,
		Caption:      req.Caption,
		Points:       points,
		CO2SavedKg:   co2Kg,
		CardStyle:    models.CardStyleGlassmorphism,
		CreatedAt:    time.Now(),
	}
	if err := u.activities.Create(activity); err != nil {
		return nil, fmt.Errorf("create activity: %w", err)
	}

	outcome := &UploadOutcome{Activity: activity}

	// 4. User aggregate (additive, transactional).
	user, err := u.users.ApplyActivityDelta(req.UserID, points, co2Kg)
	if err != nil {
		logPhaseFailure("user stats", req.UserID, err)
	} else {
		outcome.User = user
		outcome.UserStatsApplied = true
	}

	// 5. Today's rollup (create-if-absent then increment).
	if err := u.stats.Increment(req.UserID, utils.TodayString(), points, co2Kg, req.Category); err != nil {
		logPhaseFailure("daily stats", req.UserID, err)
	} else {
		outcome.DailyStatsApplied = true
	}

	// 6. Streak refresh from the updated history.
	streak, err := u.streaks.Refresh(req.UserID)
	if err != nil {
		logPhaseFailure("streak", req.UserID, err)
	} else {
		outcome.Streak = streak
		outcome.StreakApplied = true
		if outcome.User != nil {
			outcome.User.CurrentStreak = streak.NewStreak
			if streak.NewStreak > outcome.User.LongestStreak {
				outcome.User.LongestStreak = streak.NewStreak
			}
		}
	}

	// 7. Badge evaluation against the refreshed progress.
	if outcome.User != nil {
		newBadges, err := u.badges.CheckAndUnlock(outcome.User)
		if err != nil {
			logPhaseFailure("badges", req.UserID, err)
		} else {
			outcome.NewBadges = newBadges
			outcome.BadgesApplied = true
			for _, b := range newBadges {
				outcome.User.Badges = append(outcome.User.Badges, b.ID)
			}
		}
	}

	return outcome, nil
}

func logPhaseFailure(phase string, userID uint, err error) {
	if utils.Sugar != nil {
		utils.Sugar.Warnf("upload phase %s failed for user %d: %v", phase, userID, err)
	}
}
