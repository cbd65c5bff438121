package main

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/vitrine-commerce/vitrine-backend/services/admin-api/apihandlers"
)

var conf AdminApiConfig

func main() {
	// Start webserver
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     conf.GinConfig.AllowOrigins,
		AllowMethods:     []string{"POST", "GET", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Content-Length"},
		ExposeHeaders:    []string{"Authorization", "Content-Type", "Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Add handlers
	router.GET("/", apihandlers.HealthCheckHandle)
	v1Root := router.Group("/v1")

	v1APIHandlers := apihandlers.NewHTTPHandler(
		conf.UserManagementConfig.AdminJWTConfig.SignKey,
		conf.UserManagementConfig.AdminJWTConfig.ExpiresIn,
		adminDBService,
		supportDBService,
		lojistaDBService,
		conf.UserManagementConfig.MasterPassword,
	)
	v1APIHandlers.AddAdminAPI(v1Root)

	// Start the server
	slog.Info("Starting Admin API on port " + conf.GinConfig.Port)
	err := router.Run(":" + conf.GinConfig.Port)
	if err != nil {
		slog.Error("Exited Admin API", slog.String("error", err.Error()))
		return
	}
}
