package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"finance_system/internal/api"        // Custom package for API handlers
	"finance_system/internal/config"     // Custom package for configuration
	"finance_system/internal/middleware" // Custom package for middleware
	"finance_system/internal/repository" // Persistence boundary
	"finance_system/internal/scheduler"  // Daily automatic transaction runs
	"finance_system/internal/service"    // Finance services

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	gormDB, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Wire the persistence boundary and the finance services
	store := repository.NewStore(gormDB)
	wallets := service.NewWalletService(store)
	transactions := service.NewTransactionService(store)
	transferences := service.NewTransferenceService(store)
	automatics := service.NewAutomaticTransactionService(store)

	// Kick off the daily automatic transaction scheduler
	scheduler.Start(automatics, cfg.RunDailyAt)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Auth routes
	r.POST("/user", api.RegisterHandler(gormDB))            // Registration endpoint
	r.GET("/user", api.LoginHandler(gormDB, cfg.JWTSecret)) // Login endpoint

	// Finance routes (protected by JWT, Redis client injected for caching)
	authed := r.Group("/")
	authed.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), func(c *gin.Context) {
		c.Set("redisClient", redisClient)
		c.Next()
	})

	// Wallet routes
	authed.GET("/wallets", api.ListWalletsHandler(wallets, redisClient))
	authed.POST("/wallets", api.CreateWalletHandler(wallets))
	authed.GET("/wallets/:id", api.GetWalletHandler(wallets, redisClient))
	authed.PUT("/wallets/:id", api.UpdateWalletHandler(wallets))
	authed.DELETE("/wallets/:id", api.DeleteWalletHandler(wallets))

	// Transaction routes
	authed.GET("/transactions", api.ListTransactionsHandler(transactions, redisClient))
	authed.POST("/transactions", api.CreateTransactionHandler(transactions))
	authed.GET("/transactions/:id", api.GetTransactionHandler(transactions))
	authed.PUT("/transactions/:id", api.UpdateTransactionHandler(transactions))
	authed.DELETE("/transactions/:id", api.DeleteTransactionHandler(transactions))

	// Transference routes
	authed.GET("/transferences", api.ListTransferencesHandler(transferences, redisClient))
	authed.POST("/transferences", api.CreateTransferenceHandler(transferences))
	authed.GET("/transferences/:id", api.GetTransferenceHandler(transferences))
	authed.PUT("/transferences/:id", api.UpdateTransferenceHandler(transferences))
	authed.DELETE("/transferences/:id", api.DeleteTransferenceHandler(transferences))

	// Automatic transaction routes
	authed.GET("/automatic-transactions", api.ListAutomaticTransactionsHandler(automatics, redisClient))
	authed.POST("/automatic-transactions", api.CreateAutomaticTransactionHandler(automatics))
	authed.GET("/automatic-transactions/:id", api.GetAutomaticTransactionHandler(automatics))
	authed.PUT("/automatic-transactions/:id", api.UpdateAutomaticTransactionHandler(automatics))
	authed.DELETE("/automatic-transactions/:id", api.DeleteAutomaticTransactionHandler(automatics))

	// Admin routes (protected, admin only)
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.AdminOnlyMiddleware(gormDB))
	adminGroup.GET("/users", api.ListUsersHandler(gormDB))                                          // List users endpoint
	adminGroup.POST("/automatic-transactions/run", api.RunAutomaticTransactionsHandler(automatics)) // Manual recurrence run

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
