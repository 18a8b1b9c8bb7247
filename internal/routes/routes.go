package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/chocobar-app/server/internal/config"
	"github.com/chocobar-app/server/internal/handlers"
	"github.com/chocobar-app/server/internal/middleware"
	"github.com/chocobar-app/server/internal/otp"
	"github.com/chocobar-app/server/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, codes otp.Store) {
	sms := services.NewSMSService(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	storage := services.NewStorageService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	orderService := services.NewOrderService(db, services.NewCatalogReader(db))

	authHandler := handlers.NewAuthHandler(db, cfg, codes, sms)
	menuHandler := handlers.NewMenuHandler(db)
	orderHandler := handlers.NewOrderHandler(orderService)
	paymentHandler := handlers.NewPaymentHandler(db, cfg)
	adminHandler := handlers.NewAdminHandler(db, orderService, storage)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "message": "Chocobar API is running"})
	})

	api := app.Group("/api/v1")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/send-otp", authHandler.SendOTP)
	auth.Post("/verify-otp", authHandler.VerifyOTP)
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Public catalog
	menu := api.Group("/menu")
	menu.Get("/products", menuHandler.ListProducts)
	menu.Post("/products", menuHandler.ListProducts)

	// Webhook is signed by the gateway, not bearer-authenticated.
	api.Post("/payments/webhook", paymentHandler.Webhook)

	// Authenticated routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Get("/user/me", authHandler.Me)

	protected.Post("/orders", orderHandler.CreateOrder)
	protected.Post("/orders/my", orderHandler.MyOrders)

	protected.Post("/payments/intent", paymentHandler.CreateIntent)

	// Admin routes
	admin := protected.Group("/admin", middleware.RequireAdmin())

	admin.Post("/orders", adminHandler.ListOrders)
	admin.Post("/orders/status", adminHandler.UpdateOrderStatus)

	admin.Post("/products", adminHandler.CreateProduct)
	admin.Post("/products/list", adminHandler.ListProducts)
	admin.Post("/products/update", adminHandler.UpdateProduct)
	admin.Post("/products/delete", adminHandler.DeleteProduct)

	admin.Post("/categories", adminHandler.ListCategories)
	admin.Post("/categories/create", adminHandler.CreateCategory)
	admin.Post("/categories/update", adminHandler.UpdateCategory)
	admin.Post("/categories/delete", adminHandler.DeleteCategory)

	admin.Post("/upload/image", adminHandler.UploadImage)
}
