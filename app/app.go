// File: app/app.go
package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"training-hub-api/config"
	"training-hub-api/cors"
	"training-hub-api/db"
	"training-hub-api/handler"
	"training-hub-api/logger"
	"training-hub-api/repository"
	"training-hub-api/router"
	"training-hub-api/service"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect(config.AppConfig.Database)
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(db.ConnString(config.AppConfig.Database), "file://db/migrations"); err != nil {
		logger.Log.Fatalf("Error running migrations: %v", err)
	}

	redisClient, err := db.ConnectRedis(config.AppConfig.Redis)
	if err != nil {
		logger.Log.Fatalf("Error connecting to redis: %v", err)
	}
	defer redisClient.Close()

	// --- Wiring All Layers Together ---
	// Repositories over the shared stores, services on top, handlers last.
	// Configuration is read here exactly once and handed down.

	userRepo := repository.NewUserRepository(database)
	tokenRepo := repository.NewTokenRepository(database)
	courseRepo := repository.NewCourseRepository(database)
	usageRepo := repository.NewUsageRepository(database)
	aiCacheRepo := repository.NewAICacheRepository(database)

	authService := service.NewAuthService(userRepo, tokenRepo, config.AppConfig.JWT)
	userService := service.NewUserService(userRepo)
	courseService := service.NewCourseService(courseRepo, redisClient)
	quotaService := service.NewQuotaService(usageRepo)
	aiService := service.NewAIService(aiCacheRepo, quotaService, config.AppConfig.AI)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	courseHandler := handler.NewCourseHandler(courseService)
	aiHandler := handler.NewAIHandler(aiService)

	authMiddleware := handler.NewAuthMiddleware([]byte(config.AppConfig.JWT.SecretKey))
	corsRules := cors.ParseRules(config.AppConfig.CORS.AllowedOrigins)

	r := router.NewRouter(authHandler, userHandler, courseHandler, aiHandler, authMiddleware, corsRules)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
