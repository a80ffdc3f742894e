package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/toolshub/api/internal/audit"
	"github.com/toolshub/api/internal/auth"
	"github.com/toolshub/api/internal/client"
	"github.com/toolshub/api/internal/config"
	"github.com/toolshub/api/internal/database"
	"github.com/toolshub/api/internal/handler"
	"github.com/toolshub/api/internal/limiter"
	"github.com/toolshub/api/internal/llm"
	"github.com/toolshub/api/internal/middleware"
	"github.com/toolshub/api/internal/notify"
	"github.com/toolshub/api/internal/scheduler"
	"github.com/toolshub/api/internal/store"
)

func main() {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize the tool store. The collection and audit log are two
	// JSON documents in Redis; everything else (OTP codes, rate-limit
	// counters) shares the same connection.
	redisStore, err := store.NewRedisStore(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisStore.Close()

	recorder := audit.NewRecorder(redisStore)
	otpService := auth.NewOTPService(redisStore.Client())
	rateLimiter := limiter.NewLimiter(redisStore.Client())

	// Notifications are best-effort; without SMTP config they are dropped.
	var dispatcher notify.Dispatcher = notify.NopDispatcher{}
	if cfg.SMTPHost != "" && cfg.AdminInbox != "" {
		dispatcher = notify.NewMailer(notify.MailerConfig{
			Host:        cfg.SMTPHost,
			Port:        cfg.SMTPPort,
			Username:    cfg.SMTPUsername,
			Password:    cfg.SMTPPassword,
			FromName:    cfg.SMTPFromName,
			FromEmail:   cfg.SMTPFromEmail,
			AdminInbox:  cfg.AdminInbox,
			FrontendURL: cfg.FrontendURL,
		})
	} else {
		log.Println("Warning: SMTP not fully configured, notifications disabled")
	}

	// Metadata generation is optional.
	var llmClient *llm.Client
	if cfg.LLMAPIKey != "" {
		llmClient, err = llm.NewClient(llm.Config{
			BaseURL: cfg.LLMBaseURL,
			APIKey:  cfg.LLMAPIKey,
			Model:   cfg.LLMModel,
		})
		if err != nil {
			log.Printf("Warning: failed to initialize LLM client: %v", err)
		}
	}

	screenshotClient := client.NewScreenshotClient(cfg.ScreenshotAPIURL, cfg.ScreenshotAPIKey)

	// Initialize handlers
	toolHandler := handler.NewToolHandler(redisStore, db, recorder, dispatcher)
	moderationHandler := handler.NewModerationHandler(redisStore, recorder, dispatcher)
	authHandler := handler.NewAuthHandler(db, otpService, dispatcher, cfg.JWTSecret, cfg.AllowedEmailDomain)
	aiHandler := handler.NewAIHandler(llmClient, screenshotClient, db)
	adminHandler := handler.NewAdminHandler(redisStore, db, recorder)

	// Initialize and start the background thumbnail scheduler if enabled
	var thumbnailScheduler *scheduler.ThumbnailScheduler
	if cfg.SchedulerEnabled && cfg.ScreenshotAPIURL != "" {
		thumbnailScheduler = scheduler.NewThumbnailScheduler(redisStore, screenshotClient, db, scheduler.Config{
			Interval:  cfg.SchedulerInterval,
			MaxAge:    cfg.ThumbnailMaxAge,
			Retention: cfg.ViewHistoryRetention,
		})
		go thumbnailScheduler.Start(context.Background())
		log.Println("Background thumbnail scheduler started")
	}

	// Setup router
	r := gin.Default()
	r.Use(middleware.MetricsMiddleware())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", cfg.FrontendURL)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Scheduler status
	r.GET("/scheduler/status", func(c *gin.Context) {
		if thumbnailScheduler != nil {
			c.JSON(200, thumbnailScheduler.GetStatus())
		} else {
			c.JSON(200, gin.H{"enabled": false, "message": "Scheduler is disabled"})
		}
	})

	authRequired := middleware.AuthMiddleware(cfg.JWTSecret, cfg.AdminEmails)
	adminRequired := middleware.AdminMiddleware(cfg.JWTSecret, cfg.AdminEmails)
	authOptional := middleware.OptionalAuthMiddleware(cfg.JWTSecret, cfg.AdminEmails)

	// API routes
	api := r.Group("/api")
	{
		// Auth
		api.POST("/auth/otp/request", middleware.RateLimitMiddleware(rateLimiter, "otp_request"), authHandler.RequestOTP)
		api.POST("/auth/otp/verify", middleware.RateLimitMiddleware(rateLimiter, "otp_verify"), authHandler.VerifyOTP)
		api.POST("/auth/refresh", authHandler.RefreshToken)
		api.POST("/auth/logout", authHandler.Logout)
		api.GET("/auth/me", authRequired, authHandler.Me)

		// Catalog
		api.GET("/tools", authOptional, toolHandler.List)
		api.GET("/tools/:id", authOptional, toolHandler.Get)
		api.POST("/tools", authRequired, toolHandler.Submit)
		api.PUT("/tools/:id/vote", authRequired, toolHandler.Vote)
		api.PUT("/tools/:id/rate", authRequired, toolHandler.Rate)

		// Moderation
		api.PUT("/tools/:id", authRequired, moderationHandler.Update)
		api.PUT("/tools/:id/resubmit", authRequired, moderationHandler.Resubmit)
		api.PUT("/tools/:id/approve", adminRequired, moderationHandler.Approve)
		api.PUT("/tools/:id/publish", adminRequired, moderationHandler.Publish)
		api.DELETE("/tools/:id", adminRequired, moderationHandler.Delete)

		// AI assistance
		api.POST("/ai/generate", authRequired, middleware.RateLimitMiddleware(rateLimiter, "ai_generate"), aiHandler.Generate)
		api.POST("/ai/screenshot", authRequired, middleware.RateLimitMiddleware(rateLimiter, "screenshot"), aiHandler.Screenshot)

		// Admin
		api.GET("/admin/stats", adminRequired, adminHandler.GetStats)
		api.GET("/admin/audit", adminRequired, adminHandler.ListAudit)
		api.GET("/admin/export", adminRequired, adminHandler.Export)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	log.Printf("API server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
