package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unifiedcampus/admin-gateway/internal/config"
	"github.com/unifiedcampus/admin-gateway/internal/handlers"
	"github.com/unifiedcampus/admin-gateway/internal/monitoring"
	"github.com/unifiedcampus/admin-gateway/internal/session"
	"github.com/unifiedcampus/admin-gateway/internal/upstream"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger := initLogger(cfg.LogLevel)
	defer logger.Sync()

	// Connect to Redis
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Fatal("Error parsing Redis URL", zap.Error(err))
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	// Ping Redis
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	logger.Info("Connected to Redis", zap.String("url", cfg.Redis.URL))

	// Initialize upstream clients
	upstreamClient := upstream.NewClient(cfg.Upstream.URL, cfg.Upstream.Timeout, logger)
	registrationsClient := upstream.NewRegistrationsClient(
		cfg.Registrations.URL,
		cfg.Registrations.RequireAuth,
		cfg.Upstream.Timeout,
		logger,
	)

	// Initialize session manager
	sessions := session.NewManager(redisClient, cfg.JWT.Secret, cfg.JWT.Expiration, logger)

	// Set Gin mode
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	r := gin.New()

	// Middleware
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(handlers.CORSMiddleware())
	r.Use(monitoring.Middleware())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(upstreamClient, sessions, logger)
	eventHandler := handlers.NewEventHandler(upstreamClient, logger)
	galleryHandler := handlers.NewGalleryHandler(upstreamClient, logger)
	registrationHandler := handlers.NewRegistrationHandler(registrationsClient, logger)
	dashboardHandler := handlers.NewDashboardHandler(upstreamClient, logger)

	// API routes
	api := r.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("/login", authHandler.Login)
			users.POST("/logout", handlers.RequireSession(sessions, logger), authHandler.Logout)
		}

		// Management routes, all behind the session gate
		protected := api.Group("", handlers.RequireSession(sessions, logger))
		{
			events := protected.Group("/events")
			{
				events.GET("", eventHandler.List)
				events.POST("", eventHandler.Create)
				events.PUT("/:id", eventHandler.Update)
				events.DELETE("/:id", eventHandler.Delete)
			}

			gallery := protected.Group("/gallery")
			{
				gallery.GET("", galleryHandler.List)
				gallery.POST("", galleryHandler.Upload)
				gallery.PUT("/:id", galleryHandler.Update)
				gallery.DELETE("/:id", galleryHandler.Delete)
			}

			admin := protected.Group("/admin")
			{
				admin.GET("/registrations", registrationHandler.List)
				admin.GET("/registrations/download", registrationHandler.Export)
			}

			protected.GET("/dashboard", dashboardHandler.Stats)
		}
	}

	// Health and metrics
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", monitoring.Handler())

	// Start server
	srv := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("Starting admin gateway server", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func initLogger(level string) *zap.Logger {
	var logLevel zapcore.Level
	switch level {
	case "debug":
		logLevel = zap.DebugLevel
	case "info":
		logLevel = zap.InfoLevel
	case "warn":
		logLevel = zap.WarnLevel
	case "error":
		logLevel = zapcore.ErrorLevel
	default:
		logLevel = zap.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(logLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	return logger
}
