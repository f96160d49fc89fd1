package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"goaffect/adapters/api"
	"goaffect/adapters/memledger"
	"goaffect/app"
	"goaffect/internal"
	"goaffect/internal/config"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewDefaultLogger()
	gin.SetMode(cfg.Server.GinMode)

	ledger := memledger.New()
	service := app.NewAnalysisService(analysisOptions(cfg.Analysis), ledger, logger)
	server := api.NewServer(service, ledger, cfg.Server.MaxConcurrentAnalyses, logger)

	logger.Info("goaffect listening on port %s", cfg.Server.Port)
	if err := server.Start(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func analysisOptions(cfg config.AnalysisConfig) app.AnalysisOptions {
	return app.AnalysisOptions{
		VolatilityWindowSize:         cfg.VolatilityWindowSize,
		PercentileThreshold:          cfg.PercentileThreshold,
		TransitionMinDuration:        cfg.TransitionMinDuration,
		TransitionIntensityThreshold: cfg.TransitionIntensityThreshold,
	}
}
