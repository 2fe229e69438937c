package main

import (
	"context"                                 // context package is needed for Redis operations
	"log"                                     // log package is needed for logging
	"marketplace_backend/internal/api"        // Custom package for API handlers
	"marketplace_backend/internal/config"     // Custom package for configuration
	"marketplace_backend/internal/middleware" // Custom package for middleware

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
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
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

	apiGroup := r.Group("/api")

	// Auth routes
	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/register", api.RegisterHandler(db, cfg.JWTSecret)) // Registration endpoint
	authGroup.POST("/login", api.LoginHandler(db, cfg.JWTSecret))       // Login endpoint
	// Session routes (protected by JWT)
	sessionGroup := authGroup.Group("")
	sessionGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	sessionGroup.GET("/me", api.GetCurrentUserHandler(db))                                   // Current user endpoint
	sessionGroup.POST("/logout", api.LogoutHandler())                                        // Logout endpoint
	sessionGroup.POST("/upgrade-to-seller", api.UpgradeToSellerHandler(db, cfg.JWTSecret))   // Role upgrade endpoint
	sessionGroup.POST("/create-store", api.CreateStoreHandler(db))                           // Store provisioning endpoint
	sessionGroup.GET("/store", middleware.SellerOnlyMiddleware(db), api.GetStoreHandler(db)) // Store details endpoint, sellers only

	// Product routes
	productGroup := apiGroup.Group("/products")
	productGroup.POST("", api.CreateProductHandler(db, redisClient))         // Create product endpoint
	productGroup.GET("", api.ListProductsHandler(db))                        // List products endpoint
	productGroup.GET("/:id", api.GetProductHandler(db))                      // Product details endpoint
	productGroup.PUT("/:id", api.UpdateProductHandler(db, redisClient))      // Full update endpoint
	productGroup.PATCH("/:id", api.PatchProductHandler(db, redisClient))     // Partial update / auction toggle endpoint
	productGroup.PATCH("/:id/hide", api.HideProductHandler(db, redisClient)) // Soft-hide endpoint
	productGroup.DELETE("/:id", api.DeleteProductHandler(db, redisClient))   // Delete endpoint

	// Seller and buyer report routes
	productGroup.GET("/seller/:sellerId/on-sale", api.SellerOnSaleHandler(db, redisClient))                       // On-sale listing endpoint
	productGroup.GET("/seller/:sellerId/total-on-sale", api.SellerTotalOnSaleHandler(db, redisClient))            // On-sale count endpoint
	productGroup.GET("/seller/:sellerId/sold-products", api.SellerSoldHandler(db, redisClient))                   // Sales and revenue endpoint
	productGroup.GET("/buyer/:buyerId/purchased-products", api.BuyerPurchasedHandler(db, redisClient))            // Purchase history endpoint
	productGroup.GET("/buyer/:buyerId/total-purchased-products", api.BuyerTotalPurchasedHandler(db, redisClient)) // Purchase count endpoint

	// Inventory routes
	apiGroup.PUT("/inventory/:productId", api.UpdateInventoryHandler(db, redisClient)) // Inventory upsert endpoint
	apiGroup.GET("/inventory/:productId", api.GetInventoryHandler(db))                 // Inventory lookup endpoint
	apiGroup.GET("/inventories", api.ListInventoriesHandler(db))                       // Inventory listing endpoint

	// Category routes
	apiGroup.GET("/categories", api.ListCategoriesHandler(db)) // Category listing endpoint

	// Order item routes
	orderItemGroup := apiGroup.Group("/order-items")
	orderItemGroup.POST("/create", api.CreateOrderItemHandler(db, redisClient))       // Create order item endpoint
	orderItemGroup.GET("/all", api.ListOrderItemsHandler(db))                         // List order items endpoint
	orderItemGroup.GET("/seller/:sellerId", api.SellerOrderItemsHandler(db))          // Seller order items endpoint
	orderItemGroup.PUT("/update/:id", api.UpdateOrderItemHandler(db, redisClient))    // Update order item endpoint
	orderItemGroup.DELETE("/delete/:id", api.DeleteOrderItemHandler(db, redisClient)) // Delete order item endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
