package routes

import (
	"time"

	"bodega-backend/events"
	"bodega-backend/firebase"
	"bodega-backend/handlers"
	"bodega-backend/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, storageClient firebase.StorageClient, publisher *events.Publisher, redisClient *redis.Client) {
	// Initialize handlers
	authHandler := &handlers.AuthHandler{DB: db}
	productHandler := &handlers.ProductHandler{DB: db, Storage: storageClient}
	pricingHandler := &handlers.PricingHandler{DB: db, Events: publisher}
	orderHandler := &handlers.PurchaseOrderHandler{DB: db}
	statusHandler := &handlers.OrderStatusHandler{DB: db}

	// Auth endpoints are rate limited twice: per instance in memory, and
	// across instances through Redis when it is configured.
	authLimiter := middleware.NewRateLimiter(10, time.Minute)
	redisLimiter := middleware.RedisRateLimiter(redisClient, 20, time.Minute)

	// Public routes
	api := r.Group("/api")
	{
		api.POST("/auth/register", redisLimiter, authLimiter.Middleware(), authHandler.Register)
		api.POST("/auth/login", redisLimiter, authLimiter.Middleware(), authHandler.Login)
	}

	// Protected routes (require authentication)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/profile", authHandler.GetProfile)

		protected.GET("/products", productHandler.GetProducts)
		protected.GET("/products/:id", productHandler.GetProduct)

		protected.GET("/purchase-orders", orderHandler.GetOrders)
		protected.GET("/purchase-orders/:id", orderHandler.GetOrder)
		protected.POST("/purchase-orders", orderHandler.CreateOrder)
		protected.PATCH("/purchase-orders/:id", orderHandler.UpdateOrder)
		protected.DELETE("/purchase-orders/:id", orderHandler.DeleteOrder)

		protected.GET("/order-statuses", statusHandler.GetStatuses)
	}

	// Admin routes (require admin role)
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	{
		// Product management
		admin.POST("/products", productHandler.CreateProduct)
		admin.PUT("/products/:id", productHandler.UpdateProduct)
		admin.DELETE("/products/:id", productHandler.DeleteProduct)
		admin.POST("/products/:id/photo", productHandler.UploadPhoto)

		// Pricing management
		admin.GET("/pricing/settings", pricingHandler.GetSettings)
		admin.PUT("/pricing/settings", pricingHandler.UpdateSettings)
		admin.GET("/pricing/overrides", pricingHandler.GetOverrides)
		admin.PUT("/pricing/overrides/:productId", pricingHandler.UpsertOverride)
		admin.DELETE("/pricing/overrides/:productId", pricingHandler.DeleteOverride)
		admin.GET("/pricing/type-overrides", pricingHandler.GetTypeOverrides)
		admin.PUT("/pricing/type-overrides/:typeId", pricingHandler.UpsertTypeOverride)
		admin.DELETE("/pricing/type-overrides/:typeId", pricingHandler.DeleteTypeOverride)
		admin.POST("/pricing/backfill", pricingHandler.RunBackfill)
		admin.GET("/pricing/backfill/report", pricingHandler.GetBackfillReport)

		// Status catalog management
		admin.POST("/order-statuses", statusHandler.CreateStatus)
		admin.PUT("/order-statuses/:id", statusHandler.UpdateStatus)
		admin.DELETE("/order-statuses/:id", statusHandler.DeleteStatus)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
