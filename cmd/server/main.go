// Package main is the entry point for the Projects API
package main

import (
	"fmt"
	"log"

	"github.com/labstack/echo/v4"

	"github.com/sgsprojects/timesheet-api/internal/api"
	"github.com/sgsprojects/timesheet-api/internal/api/middleware"
	"github.com/sgsprojects/timesheet-api/internal/config"
	"github.com/sgsprojects/timesheet-api/internal/repository"
	"github.com/sgsprojects/timesheet-api/internal/service"
	"github.com/sgsprojects/timesheet-api/pkg/utils/zaplogger"
)

func main() {
	// Load configuration
	cfg, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Print the configuration
	fmt.Println(cfg.String())

	// Setup logger
	defer zaplogger.Sync()
	zaplogger.SetLogLevel(cfg.ServerLogLevel)

	// Connect to Postgres
	db, err := repository.ConnectPostgres(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}

	// Connect Redis
	redisClient, err := repository.ConnectRedis(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// startUpMessage
	zaplogger.Info(cfg.APIName + " - " + cfg.APIVersion + " initialized")
	zaplogger.Info("Postgres initialized")
	zaplogger.Info("Redis initialized")

	// Credentials live in process memory only
	credentials := repository.NewCredentialStore()

	// Create a new Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Setup middleware
	middleware.SetupLoggerMiddleware(e)

	// Setup routes
	api.SetupRoutes(e, cfg, db, redisClient, credentials)

	// Setup and start cron jobs
	cronService := service.NewCronService(credentials)
	cronService.Start()

	// Start the server
	startServer(e, cfg)

}

// startServer starts the Echo server on the specified port
func startServer(e *echo.Echo, cfg *config.Config) {
	port := cfg.ServerPort
	if port == "" {
		port = "3009"
	}
	zaplogger.Info("SERVER STARTED ON PORT " + port)
	e.Logger.Fatal(e.Start(":" + port))

}
