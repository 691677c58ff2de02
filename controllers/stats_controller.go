package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/echohabit/server/services"
	"github.com/echohabit/server/utils"
)

// StatsController serves daily rollups, summaries and streak state.
type StatsController struct {
	stats   services.StatsStore
	users   services.UserStore
	streaks *services.StreakService
}

// NewStatsController creates a new controller instance.
func NewStatsController(stats services.StatsStore, users services.UserStore, streaks *services.StreakService) *StatsController {
	return &StatsController{stats: stats, users: users, streaks: streaks}
}

// Daily returns the rollup for one calendar day, default today. Days with
// no activity come back zeroed rather than as 404s.
func (s *StatsController) Daily(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40170, "unauthorized")
		return
	}

	date := ctx.DefaultQuery("date", utils.TodayString())
	if _, err := time.Parse(utils.DateLayout, date); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40071, "date must be YYYY-MM-DD")
		return
	}

	stats, err := s.stats.ByDate(userID, date)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to load daily stats")
		return
	}
	utils.Success(ctx, stats)
}

// Range returns rollups between two dates inclusive.
func (s *StatsController) Range(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40171, "unauthorized")
		return
	}

	start := ctx.Query("start")
	end := ctx.Query("end")
	startT, err1 := time.Parse(utils.DateLayout, start)
	endT, err2 := time.Parse(utils.DateLayout, end)
	if err1 != nil || err2 != nil {
		utils.Error(ctx, http.StatusBadRequest, 40072, "start and end must be YYYY-MM-DD")
		return
	}
	if endT.Before(startT) {
		utils.Error(ctx, http.StatusBadRequest, 40073, "end must not precede start")
		return
	}
	if endT.Sub(startT) > 366*24*time.Hour {
		utils.Error(ctx, http.StatusBadRequest, 40074, "range too large")
		return
	}

	items, err := s.stats.Range(userID, start, end)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to load stats range")
		return
	}
	utils.Success(ctx, gin.H{"items": items, "start": start, "end": end})
}

// Weekly returns the last seven days including today, zero-filled so the
// client can chart without gap handling.
func (s *StatsController) Weekly(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40172, "unauthorized")
		return
	}

	now := time.Now()
	start := utils.DateString(now.AddDate(0, 0, -6))
	end := utils.DateString(now)

	items, err := s.stats.Range(userID, start, end)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to load weekly stats")
		return
	}

	byDate := map[string]int{}
	for i := range items {
		byDate[items[i].Date] = i
	}

	days := make([]interface{}, 0, 7)
	totalPoints := 0
	totalCO2 := 0.0
	for offset := -6; offset <= 0; offset++ {
		date := utils.DateString(now.AddDate(0, 0, offset))
		if i, ok := byDate[date]; ok {
			days = append(days, items[i])
			totalPoints += items[i].DailyPoints
			totalCO2 += items[i].DailyCO2Kg
			continue
		}
		days = append(days, gin.H{
			"date":           date,
			"daily_points":   0,
			"daily_co2_kg":   0,
			"activity_count": 0,
		})
	}

	utils.Success(ctx, gin.H{
		"days":         days,
		"points":       totalPoints,
		"co2_saved_kg": totalCO2,
	})
}

// Summary returns the headline impact numbers for the profile screen.
func (s *StatsController) Summary(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40173, "unauthorized")
		return
	}

	user, err := s.users.ByID(userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40470, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50073, "failed to load user")
		return
	}

	level := utils.LevelFor(user.TotalPoints)
	utils.Success(ctx, gin.H{
		"total_points":       user.TotalPoints,
		"total_co2_saved_kg": user.TotalCO2Kg,
		"trees_equivalent":   utils.CO2ToTrees(user.TotalCO2Kg),
		"level":              level.Index,
		"level_name":         level.Name,
		"level_emoji":        level.Emoji,
		"level_progress":     utils.LevelProgress(user.TotalPoints),
		"current_streak":     user.CurrentStreak,
		"longest_streak":     user.LongestStreak,
		"badges":             user.Badges,
	})
}

// Streak recomputes and returns the current streak. Calling this endpoint
// also persists a decayed streak, so the value is always fresh.
func (s *StatsController) Streak(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40174, "unauthorized")
		return
	}

	result, err := s.streaks.Refresh(userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) || errors.Is(err, services.ErrUserMissing) {
			utils.Error(ctx, http.StatusNotFound, 40471, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50074, "failed to compute streak")
		return
	}
	utils.Success(ctx, result)
}
