// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wareflow/wareflow-backend/internal/config"
	"github.com/wareflow/wareflow-backend/internal/handlers"
	"github.com/wareflow/wareflow-backend/internal/middleware"
	"github.com/wareflow/wareflow-backend/internal/services"
	"github.com/wareflow/wareflow-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	mailer := services.NewSMTPMailer(cfg.Email)
	pushSender := services.NewWebPushSender(cfg.Push)
	notificationService := services.NewNotificationService(db, mailer, pushSender)
	storageService, _ := services.NewStorageService(cfg)

	authService := services.NewAuthService(db, mailer, cfg)
	userService := services.NewUserService(db)
	productService := services.NewProductService(db)
	warehouseService := services.NewWarehouseService(db)
	quantityService := services.NewQuantityService(db)
	stockService := services.NewStockService(db, notificationService)
	dashboardService := services.NewDashboardService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler(userService, storageService)
	productHandler := handlers.NewProductHandler(productService, storageService)
	warehouseHandler := handlers.NewWarehouseHandler(warehouseService)
	quantityHandler := handlers.NewQuantityHandler(quantityService)
	transactionHandler := handlers.NewTransactionHandler(stockService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, userService, authService)

	// Set JWT secrets
	utils.SetJWTSecrets(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Authentication routes
	auth := r.Group("/user/auth")
	auth.Use(middleware.AuthRateLimit())
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/verify", authHandler.Verify)
		auth.POST("/resend-invite", authHandler.ResendInvite)
		auth.POST("/set-password", authHandler.SetPassword)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/send-otp", authHandler.SendOTP)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}

	// Admin routes
	admin := r.Group("/user/admin")
	admin.Use(middleware.AuthRequired(db), middleware.AdminRequired())
	{
		admin.GET("/dashboard", dashboardHandler.Summary)
		admin.GET("/dashboard/warehouses", dashboardHandler.StockPerWarehouse)
		admin.GET("/dashboard/volumes", dashboardHandler.TransactionVolumes)

		admin.GET("/managers", dashboardHandler.ListManagers)
		admin.POST("/managers", dashboardHandler.InviteManager)
		admin.POST("/managers/:id/activate", dashboardHandler.ActivateManager)
		admin.POST("/managers/:id/deactivate", dashboardHandler.DeactivateManager)
		admin.DELETE("/managers/:id", dashboardHandler.DeleteManager)
	}

	// Profile routes
	profile := r.Group("/profile")
	profile.Use(middleware.AuthRequired(db))
	{
		profile.GET("", profileHandler.Get)
		profile.PATCH("", profileHandler.Update)
		profile.POST("/password", profileHandler.ChangePassword)
		profile.POST("/image", middleware.UploadRateLimit(), profileHandler.UploadImage)
	}

	// Warehouse routes
	warehouses := r.Group("/warehouse")
	warehouses.Use(middleware.AuthRequired(db))
	{
		warehouses.GET("", warehouseHandler.List)
		warehouses.GET("/:id", warehouseHandler.Get)

		adminOnly := warehouses.Group("")
		adminOnly.Use(middleware.AdminRequired())
		{
			adminOnly.POST("", warehouseHandler.Create)
			adminOnly.PATCH("/:id", warehouseHandler.Update)
			adminOnly.DELETE("/:id", warehouseHandler.Deactivate)
			adminOnly.POST("/:id/activate", warehouseHandler.Activate)
			adminOnly.POST("/:id/managers", warehouseHandler.AssignManager)
			adminOnly.DELETE("/:id/managers/:userId", warehouseHandler.RemoveManager)
		}
	}

	// Product routes
	products := r.Group("/product")
	products.Use(middleware.AuthRequired(db))
	{
		products.GET("", productHandler.List)
		products.GET("/:id", productHandler.Get)
		products.GET("/:id/qrcode", productHandler.QRCode)
		products.POST("", productHandler.Create)
		products.PATCH("/:id", productHandler.Update)
		products.POST("/:id/archive", productHandler.Archive)
		products.POST("/:id/restore", productHandler.Restore)
		products.POST("/:id/images", middleware.UploadRateLimit(), productHandler.UploadImage)
	}

	// Quantity routes
	quantities := r.Group("/quantity")
	quantities.Use(middleware.AuthRequired(db))
	{
		quantities.GET("/warehouse/:id", quantityHandler.WarehouseStock)
		quantities.GET("/product/:id", quantityHandler.ProductStock)
		quantities.GET("/low-stock", quantityHandler.LowStock)
		quantities.PATCH("/limit", quantityHandler.UpdateReorderLimit)
	}

	// Transaction routes
	transactions := r.Group("/transaction")
	transactions.Use(middleware.AuthRequired(db))
	{
		transactions.GET("", transactionHandler.List)
		transactions.GET("/export", transactionHandler.Export)
		transactions.GET("/:id", transactionHandler.Get)
		transactions.GET("/:id/invoice", transactionHandler.Invoice)
		transactions.POST("/in", transactionHandler.StockIn)
		transactions.POST("/out", transactionHandler.StockOut)
		transactions.POST("/transfer", transactionHandler.Transfer)
		transactions.POST("/adjust", transactionHandler.Adjust)
		transactions.PATCH("/:id/shipment", transactionHandler.UpdateShipment)
	}

	// Notification routes
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthRequired(db))
	{
		notifications.GET("", notificationHandler.List)
		notifications.GET("/unseen-count", notificationHandler.UnseenCount)
		notifications.POST("/:id/seen", notificationHandler.MarkSeen)
		notifications.POST("/subscribe", notificationHandler.Subscribe)
		notifications.POST("/unsubscribe", notificationHandler.Unsubscribe)
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", cfg.Upload.LocalDir)
	}

	return r
}
