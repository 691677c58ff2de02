package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/echohabit/server/middleware"
	"github.com/echohabit/server/models"
	"github.com/echohabit/server/utils"
)

func parsePagination(pageStr, sizeStr string) (int, int) {
	page := 1
	pageSize := 20
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
		pageSize = s
	}
	return page, pageSize
}

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// userProfile shapes a user for API responses, never leaking the password
// hash and always attaching the derived level info.
func userProfile(user *models.User) gin.H {
	level := utils.LevelFor(user.TotalPoints)
	return gin.H{
		"id":                 user.ID,
		"username":           user.Username,
		"display_name":       user.DisplayName,
		"email":              user.Email,
		"avatar_url":         user.AvatarURL,
		"level":              level.Index,
		"level_name":         level.Name,
		"level_emoji":        level.Emoji,
		"level_progress":     utils.LevelProgress(user.TotalPoints),
		"total_points":       user.TotalPoints,
		"total_co2_saved_kg": user.TotalCO2Kg,
		"trees_equivalent":   utils.CO2ToTrees(user.TotalCO2Kg),
		"current_streak":     user.CurrentStreak,
		"longest_streak":     user.LongestStreak,
		"badges":             user.Badges,
		"created_at":         user.CreatedAt,
	}
}
