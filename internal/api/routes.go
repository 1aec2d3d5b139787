// Package api contains the API routes for the Projects API
package api

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/sgsprojects/timesheet-api/internal/api/handlers"
	"github.com/sgsprojects/timesheet-api/internal/api/middleware"
	"github.com/sgsprojects/timesheet-api/internal/config"
	"github.com/sgsprojects/timesheet-api/internal/repository"
	"github.com/sgsprojects/timesheet-api/internal/service"
	"github.com/sgsprojects/timesheet-api/internal/servicelayer"
	"github.com/sgsprojects/timesheet-api/pkg/utils/response"
)

// SetupRoutes configures the routes for the API
func SetupRoutes(e *echo.Echo, cfg *config.Config, db *gorm.DB, redisClient *redis.Client, credentials *repository.CredentialStore) {

	client := servicelayer.New(cfg.ServiceLayerURL, cfg.ServiceLayerDB)
	cache := repository.NewSessionCache(redisClient, cfg.SessionTTL())
	broker := service.NewSessionBroker(client, credentials, cache)

	// Create a group for all API routes
	api := e.Group("/api")

	// Index route
	api.GET("/", indexRoute(cfg))

	// Auth routes (login unprotected, logout protected)
	authService := service.NewAuthService(client, credentials, cache, cfg)
	authHandler := handlers.NewAuthHandler(authService)
	authGroup := api.Group("/auth")
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/logout", authHandler.Logout, middleware.AuthMiddleware(cfg))

	// Timesheet routes (protected)
	timesheetService := service.NewTimesheetService(db, broker, client)
	timesheetHandler := handlers.NewTimesheetHandler(timesheetService)
	timesheetGroup := api.Group("/timesheets")
	timesheetGroup.Use(middleware.AuthMiddleware(cfg))
	timesheetGroup.GET("", timesheetHandler.GetTimesheets)
	timesheetGroup.GET("/daterange", timesheetHandler.GetTimesheetsByDateRange)
	timesheetGroup.GET("/activity-time-tot", timesheetHandler.GetActivityTimeTotal)
	timesheetGroup.GET("/resource/:resId", timesheetHandler.GetTimesheetsByResource)
	timesheetGroup.GET("/resource/:resId/daterange", timesheetHandler.GetTimesheetsByResourceAndDateRange)
	timesheetGroup.GET("/project/:projectId", timesheetHandler.GetTimesheetsByProject)
	timesheetGroup.GET("/:docEntry", timesheetHandler.GetTimesheetByDocEntry)
	timesheetGroup.POST("", timesheetHandler.CreateTimesheet)
	timesheetGroup.PATCH("/:docEntry", timesheetHandler.UpdateTimesheet)
	timesheetGroup.DELETE("/:code", timesheetHandler.DeleteTimesheet)

	// Lookup routes (protected)
	lookupService := service.NewLookupService(db)
	lookupHandler := handlers.NewLookupHandler(lookupService)
	lookupGroup := api.Group("/lookups")
	lookupGroup.Use(middleware.AuthMiddleware(cfg))
	lookupGroup.GET("/customers", lookupHandler.GetCustomers)
	lookupGroup.GET("/customers/:cardCode/contacts", lookupHandler.GetContactsByCustomer)
	lookupGroup.GET("/customers/:cardCode/projects", lookupHandler.GetProjectsByCustomer)
	lookupGroup.GET("/projects", lookupHandler.GetProjects)
	lookupGroup.GET("/projects/:projectCode/activities", lookupHandler.GetActivitiesByProject)
	lookupGroup.GET("/resources", lookupHandler.GetResources)
	lookupGroup.GET("/resources/me", lookupHandler.GetMyResources)

}

// indexRoute sets up the index route for the API
func indexRoute(cfg *config.Config) echo.HandlerFunc {
	return func(c echo.Context) error {
		message := fmt.Sprintf("%s %s", cfg.APIName, cfg.APIVersion)
		return response.SuccessResponse(c, message)
	}
}
