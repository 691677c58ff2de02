package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/echohabit/server/models"
	"github.com/echohabit/server/services"
	"github.com/echohabit/server/utils"
)

// BadgeController serves the badge catalog and per-user unlock state.
type BadgeController struct {
	badges *services.BadgeService
	users  services.UserStore
}

// NewBadgeController creates a new controller instance.
func NewBadgeController(badges *services.BadgeService, users services.UserStore) *BadgeController {
	return &BadgeController{badges: badges, users: users}
}

// Catalog returns the fixed badge list. Public, no auth required.
func (b *BadgeController) Catalog(ctx *gin.Context) {
	utils.Success(ctx, gin.H{"badges": models.Badges})
}

// Mine returns every badge with the user's unlock state, and opportunistically
// unlocks anything newly earned so the list is never stale.
func (b *BadgeController) Mine(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40190, "unauthorized")
		return
	}

	user, err := b.users.ByID(userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40490, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50090, "failed to load user")
		return
	}

	newBadges, err := b.badges.CheckAndUnlock(user)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50091, "failed to evaluate badges")
		return
	}
	for _, nb := range newBadges {
		user.Badges = append(user.Badges, nb.ID)
	}

	items := make([]gin.H, 0, len(models.Badges))
	for _, badge := range models.Badges {
		items = append(items, gin.H{
			"id":          badge.ID,
			"name":        badge.Name,
			"emoji":       badge.Emoji,
			"description": badge.Description,
			"requirement": badge.Requirement,
			"unlocked":    user.HasBadge(badge.ID),
		})
	}

	utils.Success(ctx, gin.H{
		"items":      items,
		"new_badges": newBadges,
	})
}
