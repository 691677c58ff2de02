package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/echohabit/server/models"
	"github.com/echohabit/server/services"
	"github.com/echohabit/server/utils"
)

// CardController generates shareable impact cards and records shares.
type CardController struct {
	cards *services.CardService
}

// NewCardController creates a new controller instance.
func NewCardController(cards *services.CardService) *CardController {
	return &CardController{cards: cards}
}

// Generate renders an impact card for an activity in the requested style
// and returns the stored card URL.
func (c *CardController) Generate(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40180, "unauthorized")
		return
	}
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40081, "invalid activity id")
		return
	}

	type request struct {
		Style string `json:"style"`
	}
	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		req.Style = models.CardStyleGlassmorphism
	}

	activity, err := c.cards.Generate(userID, id, strings.TrimSpace(req.Style))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40480, "activity not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to generate card")
		return
	}

	utils.Success(ctx, gin.H{
		"card_image_url": activity.CardImageURL,
		"card_style":     activity.CardStyle,
		"activity":       activity,
	})
}

// Share records the platform an activity card was shared to.
func (c *CardController) Share(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40181, "unauthorized")
		return
	}
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40082, "invalid activity id")
		return
	}

	type request struct {
		Platform string `json:"platform" binding:"required"`
	}
	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40083, "platform is required")
		return
	}

	err := c.cards.RecordShare(userID, id, strings.ToLower(strings.TrimSpace(req.Platform)))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownPlatform):
			utils.Error(ctx, http.StatusBadRequest, 40084, "unknown share platform")
		case errors.Is(err, services.ErrNotFound):
			utils.Error(ctx, http.StatusNotFound, 40481, "activity not found")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50081, "failed to record share")
		}
		return
	}
	utils.Success(ctx, gin.H{"shared": true})
}
