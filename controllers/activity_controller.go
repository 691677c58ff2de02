package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/echohabit/server/config"
	"github.com/echohabit/server/models"
	"github.com/echohabit/server/services"
	"github.com/echohabit/server/utils"
)

// ActivityController handles activity logging and history endpoints.
type ActivityController struct {
	uploads    *services.UploadService
	activities services.ActivityStore
}

// NewActivityController creates a new controller instance.
func NewActivityController(uploads *services.UploadService, activities services.ActivityStore) *ActivityController {
	return &ActivityController{uploads: uploads, activities: activities}
}

func activityCachePrefix(userID uint) string {
	return fmt.Sprintf("cache:activities:%d:", userID)
}

// Create logs a new activity from a multipart form: photo file plus
// category, activity_type and optional caption fields.
func (a *ActivityController) Create(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40150, "unauthorized")
		return
	}

	category := strings.TrimSpace(ctx.PostForm("category"))
	activityType := strings.TrimSpace(ctx.PostForm("activity_type"))
	caption := utils.Sanitize(strings.TrimSpace(ctx.PostForm("caption")))

	if !models.ValidCategory(category) {
		utils.Error(ctx, http.StatusBadRequest, 40051, "unknown category")
		return
	}
	if !models.ValidActivityType(category, activityType) {
		utils.Error(ctx, http.StatusBadRequest, 40052, "activity type does not belong to category")
		return
	}

	file, header, err := ctx.Request.FormFile("photo")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40053, "photo file is required")
		return
	}
	defer file.Close()

	maxBytes := int64(config.Get().MaxPhotoSizeMB) << 20
	if header.Size > maxBytes {
		utils.Error(ctx, http.StatusBadRequest, 40054, fmt.Sprintf("photo exceeds %d MB limit", config.Get().MaxPhotoSizeMB))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil || int64(len(data)) > maxBytes {
		utils.Error(ctx, http.StatusBadRequest, 40055, "failed to read photo")
		return
	}

	outcome, err := a.uploads.Upload(services.UploadRequest{
		UserID:       userID,
		Category:     category,
		ActivityType: activityType,
		Caption:      caption,
		Photo:        data,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidActivity) {
			utils.Error(ctx, http.StatusBadRequest, 40056, "invalid category or activity type")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to record activity")
		return
	}

	utils.InvalidateByPrefix(activityCachePrefix(userID))

	status := http.StatusOK
	if !outcome.FullyApplied() {
		// The record exists but some aggregate updates failed; the client
		// should refresh later rather than treat this as an error.
		status = http.StatusAccepted
	}
	utils.Respond(ctx, status, 0, "success", outcome)
}

// List returns the user's activities, newest first, paginated.
func (a *ActivityController) List(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40160, "unauthorized")
		return
	}

	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	cacheKey := fmt.Sprintf("%slist:%d:%d", activityCachePrefix(userID), page, pageSize)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	activities, err := a.activities.ListByUser(userID, pageSize, (page-1)*pageSize)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to list activities")
		return
	}
	total, err := a.activities.CountByUser(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to count activities")
		return
	}

	payload := gin.H{
		"items": activities,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON(cacheKey, wrapper, time.Minute)
	utils.Success(ctx, payload)
}

// Today returns the activities logged since local midnight.
func (a *ActivityController) Today(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40161, "unauthorized")
		return
	}

	now := time.Now()
	activities, err := a.activities.ListByUserBetween(userID, utils.StartOfDay(now), utils.EndOfDay(now))
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to list today's activities")
		return
	}

	points := 0
	co2 := 0.0
	for _, act := range activities {
		points += act.Points
		co2 += act.CO2SavedKg
	}

	utils.Success(ctx, gin.H{
		"items":        activities,
		"count":        len(activities),
		"points":       points,
		"co2_saved_kg": co2,
	})
}

// ListByCategory filters the user's activities by one category bucket.
func (a *ActivityController) ListByCategory(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40162, "unauthorized")
		return
	}

	category := ctx.Param("category")
	if !models.ValidCategory(category) {
		utils.Error(ctx, http.StatusBadRequest, 40063, "unknown category")
		return
	}

	_, pageSize := parsePagination("", ctx.Query("limit"))
	activities, err := a.activities.ListByCategory(userID, category, pageSize)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50063, "failed to list activities")
		return
	}
	utils.Success(ctx, gin.H{"items": activities, "category": category})
}

// Counts returns per-category totals used by the profile screen.
func (a *ActivityController) Counts(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40163, "unauthorized")
		return
	}

	counts := gin.H{}
	for category := range models.CategoryTypes {
		n, err := a.activities.CountByCategory(userID, category)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50064, "failed to count activities")
			return
		}
		counts[category] = n
	}
	total, err := a.activities.CountByUser(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50065, "failed to count activities")
		return
	}

	utils.Success(ctx, gin.H{"by_category": counts, "total": total})
}

// Get returns one of the user's activities by id.
func (a *ActivityController) Get(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40164, "unauthorized")
		return
	}
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40066, "invalid activity id")
		return
	}

	activity, err := a.activities.ByID(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40460, "activity not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50066, "failed to load activity")
		return
	}
	if activity.UserID != userID {
		utils.Error(ctx, http.StatusNotFound, 40460, "activity not found")
		return
	}

	utils.Success(ctx, activity)
}

// Delete removes one of the user's activities. Aggregates are not rolled
// back; deletions are for mistaken uploads right after they happen.
func (a *ActivityController) Delete(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40165, "unauthorized")
		return
	}
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40067, "invalid activity id")
		return
	}

	if err := a.activities.Delete(userID, id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40461, "activity not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50067, "failed to delete activity")
		return
	}

	utils.InvalidateByPrefix(activityCachePrefix(userID))
	utils.Success(ctx, gin.H{"deleted": id})
}
