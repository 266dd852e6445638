package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/foodgram-team/foodgram-backend/config"
	"github.com/foodgram-team/foodgram-backend/internal/app/controller"
	"github.com/foodgram-team/foodgram-backend/internal/app/repository"
	"github.com/foodgram-team/foodgram-backend/internal/app/service"
	"github.com/foodgram-team/foodgram-backend/internal/db"
	"github.com/foodgram-team/foodgram-backend/internal/middleware"
	"github.com/foodgram-team/foodgram-backend/internal/router"
	"github.com/foodgram-team/foodgram-backend/internal/scheduler"
	"github.com/foodgram-team/foodgram-backend/internal/storage"
	"github.com/foodgram-team/foodgram-backend/pkg/logger"
	"github.com/foodgram-team/foodgram-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Foodgram Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed reference data (optional)
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redis backs the token revocation list; the server still runs without it
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, logout will not revoke tokens", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// Initialize image storage
	images, err := newImageStore(&cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize image storage", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	tagRepo := repository.NewTagRepository(db.GetDB())
	ingredientRepo := repository.NewIngredientRepository(db.GetDB())
	recipeRepo := repository.NewRecipeRepository(db.GetDB())
	userRecipeRepo := repository.NewUserRecipeRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	subscriptionRepo := repository.NewSubscriptionRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(userRepo, &cfg.JWT)
	userService := service.NewUserService(userRepo, recipeRepo, images, db.GetDB())
	tagService := service.NewTagService(tagRepo)
	ingredientService := service.NewIngredientService(ingredientRepo)
	recipeService := service.NewRecipeService(
		recipeRepo,
		tagRepo,
		ingredientRepo,
		userRecipeRepo,
		userRepo,
		images,
		db.GetDB(),
	)
	userRecipeService := service.NewUserRecipeService(userRecipeRepo, recipeRepo)
	cartService := service.NewCartService(cartRepo)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, userRepo, recipeRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	userController := controller.NewUserController(userService, authService, subscriptionService)
	tagController := controller.NewTagController(tagService)
	ingredientController := controller.NewIngredientController(ingredientService)
	recipeController := controller.NewRecipeController(
		recipeService,
		userRecipeService,
		cartService,
		subscriptionService,
		images,
	)
	subscriptionController := controller.NewSubscriptionController(subscriptionService, images)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, authService)

	// Start the nightly orphaned image sweep
	imageCleanup := scheduler.NewImageCleanupScheduler(recipeRepo, images)
	if err := imageCleanup.Start(); err != nil {
		logger.Warn("Image cleanup scheduler not running", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer imageCleanup.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		userController,
		tagController,
		ingredientController,
		recipeController,
		subscriptionController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}

func newImageStore(cfg *config.StorageConfig) (storage.ImageStore, error) {
	if cfg.Backend == "s3" {
		return storage.NewS3Store(
			cfg.Region,
			cfg.Bucket,
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			cfg.BaseURL,
		), nil
	}
	return storage.NewLocalStore(cfg.LocalDir, cfg.BaseURL)
}
