package routes

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/echohabit/server/cards"
	"github.com/echohabit/server/config"
	"github.com/echohabit/server/controllers"
	"github.com/echohabit/server/middleware"
	"github.com/echohabit/server/services"
	"github.com/echohabit/server/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) (*gin.Engine, error) {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Photos and generated cards are served straight from the media dir.
	r.Static("/static", "./"+cfg.MediaDir)

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	stores := services.NewGormStores(db)
	photos := services.NewFilesystemPhotoStore(cfg.MediaDir)
	uploads := services.NewUploadService(stores.Activities, stores.Users, stores.Stats, photos)
	streaks := services.NewStreakService(stores.Activities, stores.Users)
	badges := services.NewBadgeService(stores.Activities, stores.Users)

	renderer, err := cards.NewRenderer()
	if err != nil {
		return nil, err
	}
	cardSvc := services.NewCardService(stores.Activities, stores.Users, renderer, cfg.MediaDir)

	authController := controllers.NewAuthController(db, stores.Users)
	activityController := controllers.NewActivityController(uploads, stores.Activities)
	statsController := controllers.NewStatsController(stores.Stats, stores.Users, streaks)
	cardController := controllers.NewCardController(cardSvc)
	badgeController := controllers.NewBadgeController(badges, stores.Users)
	catalogController := controllers.NewCatalogController()

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	authGroup.PATCH("/profile", middleware.AuthRequired(), authController.UpdateProfile)

	// Public catalog endpoints
	api.GET("/catalog/activities", catalogController.Activities)
	api.GET("/catalog/levels", catalogController.Levels)
	api.GET("/badges", badgeController.Catalog)

	activitiesGroup := api.Group("/activities")
	activitiesGroup.Use(middleware.AuthRequired())
	activitiesGroup.POST("", activityController.Create)
	activitiesGroup.GET("", activityController.List)
	activitiesGroup.GET("/today", activityController.Today)
	activitiesGroup.GET("/counts", activityController.Counts)
	activitiesGroup.GET("/category/:category", activityController.ListByCategory)
	activitiesGroup.GET("/:id", activityController.Get)
	activitiesGroup.DELETE("/:id", activityController.Delete)
	activitiesGroup.POST("/:id/card", cardController.Generate)
	activitiesGroup.POST("/:id/share", cardController.Share)

	statsGroup := api.Group("/stats")
	statsGroup.Use(middleware.AuthRequired())
	statsGroup.GET("/daily", statsController.Daily)
	statsGroup.GET("/range", statsController.Range)
	statsGroup.GET("/weekly", statsController.Weekly)
	statsGroup.GET("/summary", statsController.Summary)
	statsGroup.GET("/streak", statsController.Streak)

	api.GET("/badges/mine", middleware.AuthRequired(), badgeController.Mine)

	return r, nil
}
