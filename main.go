package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/adi-nugroho/laundrylink-api/config"
	"github.com/adi-nugroho/laundrylink-api/controllers"
	"github.com/adi-nugroho/laundrylink-api/middleware"
	"github.com/adi-nugroho/laundrylink-api/models"
	"github.com/adi-nugroho/laundrylink-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting LaundryLink API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Partner{},
		&models.Customer{},
		&models.Order{},
		&models.OrderStatusEvent{},
		&models.ServicePrice{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Receipt photos go to S3 when a bucket is configured, local disk otherwise
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		services.InitReceiptService(s3Service)
		log.Printf("Receipt storage: S3 bucket %s", cfg.AWSS3Bucket)
	} else {
		log.Println("AWS_S3_BUCKET not set, storing receipts on local disk")
	}

	router := setupRouter(cfg)

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter wires middleware and routes onto a Gin engine
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	// The React frontend is served from a different origin
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		// Public order tracking by code
		v1.GET("/track/:code", controllers.TrackOrder)

		// Locally stored receipt photos
		v1.GET("/uploads/:filename", controllers.GetUploadedImage)
	}

	// Authenticated routes
	authorized := v1.Group("")
	authorized.Use(middleware.EnsureValidToken(cfg))
	{
		authorized.POST("/users", controllers.CreateUser)
		authorized.GET("/users/me", controllers.GetMyProfile)
		authorized.PUT("/users/me", controllers.UpdateMyProfile)

		authorized.POST("/partners", controllers.CreatePartner)
		authorized.GET("/partners/me", controllers.GetMyPartner)
		authorized.PUT("/partners/me", controllers.UpdateMyPartner)

		authorized.GET("/prices", controllers.ListPrices)
		authorized.POST("/prices", controllers.CreatePrice)
		authorized.PUT("/prices/:id", controllers.UpdatePrice)
		authorized.DELETE("/prices/:id", controllers.DeletePrice)

		authorized.POST("/orders", controllers.CreateOrder)
		authorized.GET("/orders", controllers.ListOrders)
		authorized.GET("/orders/:id", controllers.GetOrder)
		authorized.PUT("/orders/:id/status", controllers.UpdateOrderStatus)
		authorized.PUT("/orders/:id/payment", controllers.UpdateOrderPayment)
		authorized.DELETE("/orders/:id", controllers.DeleteOrder)
		authorized.POST("/orders/:id/receipt", controllers.UploadReceipt)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "LaundryLink API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
