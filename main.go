package main

import (
	"github.com/echohabit/server/config"
	"github.com/echohabit/server/models"
	"github.com/echohabit/server/routes"
	"github.com/echohabit/server/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.Activity{}, &models.DailyStats{})

	r, err := routes.SetupRouter(db)
	if err != nil {
		utils.Sugar.Fatalf("router setup failed: %v", err)
	}

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
