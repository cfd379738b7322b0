package main

import (
	"log"
	"time"

	"print_shop_sync/internal/adapters"
	"print_shop_sync/internal/cache"
	"print_shop_sync/internal/config"
	"print_shop_sync/internal/database"
	"print_shop_sync/internal/handlers"
	"print_shop_sync/internal/middleware"
	"print_shop_sync/internal/migrations"
	"print_shop_sync/internal/models"
	"print_shop_sync/internal/repository"
	"print_shop_sync/internal/services"
	"print_shop_sync/pkg/filemaker"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := migrations.RunMigrations(db, cfg.JWTSecret); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis; the stats cache is an optimization, so a missing
	// Redis degrades to uncached reads instead of blocking startup.
	cacheClient, err := cache.Initialize(cfg.RedisURL)
	if err != nil {
		log.Printf("Warning: Redis unavailable, stats caching disabled: %v", err)
		cacheClient = nil
	}

	// Initialize platform clients and adapters. Missing credentials are fine
	// here; an unconfigured platform reports a failed pass at sync time
	// without affecting the others.
	fmClient := filemaker.NewClient(cfg.FileMakerServerURL, cfg.FileMakerDatabase, cfg.FileMakerUsername, cfg.FileMakerPassword)
	sources := []adapters.SourceAdapter{
		adapters.NewGelatoAdapter(cfg.GelatoAPIURL, cfg.GelatoAPIKey),
		adapters.NewFastPlatformAdapter(cfg.FastPlatformAPIURL, cfg.FastPlatformAPIKey),
		adapters.NewShopworksAdapter(fmClient),
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	syncLogRepo := repository.NewSyncLogRepository(db)

	// Initialize services
	userService := services.NewUserService(userRepo, cfg.JWTSecret)
	orderService := services.NewOrderService(orderRepo, cacheClient, time.Duration(cfg.StatsCacheTTL)*time.Second)
	syncService := services.NewSyncService(sources, orderRepo, syncLogRepo, cacheClient, time.Duration(cfg.SyncTimeout)*time.Second)

	// Initialize handlers
	apiHandler := handlers.NewAPIHandler(userService, orderService, syncService)

	// Setup routes
	router := gin.Default()

	router.GET("/health", apiHandler.HealthCheck)
	router.POST("/api/auth/login", apiHandler.Login)

	api := router.Group("/api")
	api.Use(middleware.RequireAuth(cfg.JWTSecret))
	{
		api.GET("/orders", apiHandler.ListOrders)
		api.GET("/orders/stats", apiHandler.GetOrderStats)
		api.GET("/orders/:id", apiHandler.GetOrder)
		api.PATCH("/orders/:id", apiHandler.UpdateOrder)

		api.GET("/sync/logs", apiHandler.GetSyncLogs)
		api.GET("/platforms/status", apiHandler.GetPlatformStatus)
		api.POST("/sync", middleware.RequireRole(models.RoleManager), apiHandler.TriggerSync)

		api.GET("/users", middleware.RequireRole(models.RoleAdmin), apiHandler.GetUsers)
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
