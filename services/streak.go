package services

import (
	"time"

	"github.com/echohabit/server/models"
	"github.com/echohabit/server/utils"
)

// streakHistoryLimit bounds how much history feeds a streak recount. A streak
// longer than a year is counted as capped rather than walking further back.
const streakHistoryLimit = 100

// maxStreakLookbackDays is the safety bound for the backward day walk.
const maxStreakLookbackDays = 365

// StreakResult is the outcome of a streak recalculation.
type StreakResult struct {
	NewStreak        int    `json:"new_streak"`
	HasActivityToday bool   `json:"has_activity_today"`
	LastActivityDate string `json:"last_activity_date,omitempty"`
	ShouldUpdate     bool   `json:"should_update"`
}

// ComputeStreak derives the current consecutive-day streak from an activity
// history and the previously stored streak value.
//
// Decision table:
//   - activity logged today: recount by walking backward day-by-day while
//     consecutive days are present;
//   - none today but one yesterday: the stored streak survives (logging is
//     not yet overdue);
//   - neither: the streak is broken and resets to zero.
func ComputeStreak(activities []models.Activity, storedStreak int, now time.Time) StreakResult {
	if len(activities) == 0 {
		return StreakResult{
			NewStreak:    0,
			ShouldUpdate: storedStreak != 0,
		}
	}

	days := make(map[string]bool, len(activities))
	last := ""
	for _, a := range activities {
		d := utils.DateString(a.CreatedAt)
		days[d] = true
		if d > last {
			last = d
		}
	}

	today := utils.DateString(now)
	yesterday := utils.DateString(now.AddDate(0, 0, -1))

	hasToday := days[today]
	newStreak := 0
	switch {
	case hasToday:
		cursor := now
		for i := 0; i < maxStreakLookbackDays; i++ {
			if !days[utils.DateString(cursor)] {
				break
			}
			newStreak++
			cursor = cursor.AddDate(0, 0, -1)
		}
	case days[yesterday]:
		newStreak = storedStreak
	default:
		newStreak = 0
	}

	return StreakResult{
		NewStreak:        newStreak,
		HasActivityToday: hasToday,
		LastActivityDate: last,
		ShouldUpdate:     newStreak != storedStreak,
	}
}

// StreakService recalculates and persists user streaks from recent history.
type StreakService struct {
	activities ActivityStore
	users      UserStore
}

// NewStreakService creates a StreakService.
func NewStreakService(activities ActivityStore, users UserStore) *StreakService {
	return &StreakService{activities: activities, users: users}
}

// Refresh recomputes the user's streak and persists it when it changed.
// Fetch failures surface unmodified; no partial streak is computed.
func (s *StreakService) Refresh(userID uint) (StreakResult, error) {
	user, err := s.users.ByID(userID)
	if err != nil {
		return StreakResult{}, err
	}

	history, err := s.activities.ListByUser(userID, streakHistoryLimit, 0)
	if err != nil {
		return StreakResult{}, err
	}

	result := ComputeStreak(history, user.CurrentStreak, time.Now())
	if result.ShouldUpdate {
		if err := s.users.UpdateStreak(userID, result.NewStreak); err != nil {
			return StreakResult{}, err
		}
	}
	return result, nil
}
