package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/echohabit/server/models"
	"github.com/echohabit/server/utils"
)

// CatalogController serves the static activity catalog so clients never
// hard-code point values.
type CatalogController struct{}

func NewCatalogController() *CatalogController { return &CatalogController{} }

// Activities returns the category buckets with their activity types and
// fixed rewards.
func (c *CatalogController) Activities(ctx *gin.Context) {
	categories := gin.H{}
	for category, types := range models.CategoryTypes {
		entries := make([]gin.H, 0, len(types))
		for _, t := range types {
			v := models.ActivityValues[t]
			entries = append(entries, gin.H{
				"type":         t,
				"name":         utils.ActivityDisplayName(t),
				"emoji":        utils.ActivityEmoji(t),
				"points":       v.Points,
				"co2_saved_kg": v.CO2SavedKg,
			})
		}
		categories[category] = entries
	}
	utils.Success(ctx, gin.H{"categories": categories})
}

// Levels returns the points ladder.
func (c *CatalogController) Levels(ctx *gin.Context) {
	utils.Success(ctx, gin.H{"levels": models.Levels})
}
