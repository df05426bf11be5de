package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"

	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/config"
	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/calendar"
	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/extract"
	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/handler"
	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/middleware"
	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/models"
	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/store"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Local store (always present; system of record when no remote)
	local, err := store.NewLocalStore(afero.NewOsFs(), cfg.Storage.DataDir)
	if err != nil {
		log.Fatalf("Failed to open local storage: %v", err)
	}

	// 3. Remote backend + connectivity monitor (verification runs in the
	// background; a probe failure drops us to local-only)
	health := store.Connect(cfg.Database)

	// 4. Persistence facade with the guaranteed break-glass accounts
	seeds := store.GuaranteedUsers(cfg.Defaults.AdminPIN)
	facade := store.NewFacade(health, local, seeds)

	// Make sure the seed accounts exist before the first login attempt.
	if _, err := store.ReconcileLocalUsers(local, seeds); err != nil {
		log.Printf("Warning: seed user reconciliation failed: %v", err)
	}

	// 5. Router
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	jwtSecret := cfg.Server.JWTSecret

	authHandler := &handler.AuthHandler{Facade: facade, Cfg: cfg}
	authRoutes := r.Group("/api/v1/auth")
	{
		authRoutes.POST("/login", authHandler.Login)
	}

	jobHandler := &handler.JobHandler{Facade: facade, Calendar: calendar.New(cfg.Calendar.WebhookURL)}
	jobRoutes := r.Group("/api/v1/jobs")
	jobRoutes.Use(middleware.AuthMiddleware(jwtSecret))
	{
		jobRoutes.GET("", jobHandler.List)
		jobRoutes.GET("/:id", jobHandler.Get)
		jobRoutes.POST("", middleware.AuthMiddleware(jwtSecret, models.RoleAdmin), jobHandler.Create)
		jobRoutes.PUT("/:id", middleware.AuthMiddleware(jwtSecret, models.RoleAdmin), jobHandler.Update)
		jobRoutes.DELETE("/:id", middleware.AuthMiddleware(jwtSecret, models.RoleAdmin), jobHandler.Delete)
		jobRoutes.POST("/:id/complete", jobHandler.Complete)
		jobRoutes.POST("/:id/reopen", jobHandler.Reopen)
	}

	logHandler := &handler.LogHandler{Facade: facade}
	logRoutes := r.Group("/api/v1/logs")
	logRoutes.Use(middleware.AuthMiddleware(jwtSecret))
	{
		logRoutes.GET("", logHandler.List)
		logRoutes.GET("/active", logHandler.ListActive)
		logRoutes.POST("/start", logHandler.Start)
		logRoutes.POST("/:id/stop", logHandler.Stop)
		logRoutes.PUT("/:id", middleware.AuthMiddleware(jwtSecret, models.RoleAdmin), logHandler.Update)
		logRoutes.DELETE("/:id", middleware.AuthMiddleware(jwtSecret, models.RoleAdmin), logHandler.Delete)
	}

	userHandler := &handler.UserHandler{Facade: facade}
	userRoutes := r.Group("/api/v1/admin/users")
	userRoutes.Use(middleware.AuthMiddleware(jwtSecret, models.RoleAdmin))
	{
		userRoutes.GET("", userHandler.List)
		userRoutes.POST("", userHandler.Create)
		userRoutes.PUT("/:id", userHandler.Update)
		userRoutes.DELETE("/:id", userHandler.Delete)
	}

	settingsHandler := &handler.SettingsHandler{Facade: facade}
	r.GET("/api/v1/settings", middleware.AuthMiddleware(jwtSecret), settingsHandler.Get)
	r.PUT("/api/v1/settings", middleware.AuthMiddleware(jwtSecret, models.RoleAdmin), settingsHandler.Save)

	scanHandler := &handler.ScanHandler{Extractor: extract.New(cfg.Scan.OpenAIKey, cfg.Scan.Model)}
	scanRoutes := r.Group("/api/v1/scan")
	scanRoutes.Use(middleware.AuthMiddleware(jwtSecret, models.RoleAdmin))
	{
		scanRoutes.POST("/text", scanHandler.ScanText)
		scanRoutes.POST("/image", scanHandler.ScanImage)
	}

	systemHandler := &handler.SystemHandler{Facade: facade}
	r.GET("/api/v1/system/status", systemHandler.Status)
	streamRoutes := r.Group("/api/v1/stream")
	streamRoutes.Use(middleware.AuthMiddleware(jwtSecret))
	{
		streamRoutes.GET("/jobs", systemHandler.StreamJobs)
		streamRoutes.GET("/logs", systemHandler.StreamLogs)
		streamRoutes.GET("/active-logs", systemHandler.StreamActiveLogs)
		streamRoutes.GET("/users", systemHandler.StreamUsers)
	}

	publicHandler := &handler.PublicHandler{Cfg: cfg}
	r.GET("/api/v1/public/site-info", publicHandler.GetSiteInfo)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// 6. Start Server
	port := cfg.Server.Port
	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
