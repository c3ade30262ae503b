package main

import (
	"log"

	"github.com/dellacasa/emporio/config"
	"github.com/dellacasa/emporio/controllers"
	"github.com/dellacasa/emporio/routes"
	"github.com/dellacasa/emporio/utils"
)

func main() {
	if err := utils.InitLogger(); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("Error loading config: %v", err)
		log.Fatal("Error loading config:", err)
	}

	config.InitDB()
	utils.RegisterMetrics()

	if err := controllers.CreateSampleAdmin(); err != nil {
		utils.LogError("Failed to create sample admin: %v", err)
		log.Fatal("Failed to create sample admin:", err)
	}

	config.InitGoogleOAuth()

	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	router := routes.SetupRouter()

	utils.LogInfo("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		utils.LogError("Error starting server: %v", err)
		log.Fatal("Error starting server:", err)
	}
}
