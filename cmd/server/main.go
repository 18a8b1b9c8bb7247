package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/chocobar-app/server/internal/config"
	"github.com/chocobar-app/server/internal/database"
	"github.com/chocobar-app/server/internal/otp"
	"github.com/chocobar-app/server/internal/routes"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL, cfg.LogLevel)

	app := fiber.New(fiber.Config{
		AppName:      "Chocobar Backend",
		ErrorHandler: errorHandler(cfg),
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigin,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Stripe-Signature",
	}))

	routes.Register(app, db, cfg, newOTPStore(cfg))

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Println("Shutting down")
		_ = app.Shutdown()
	}()

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}

// newOTPStore picks the shared Redis store when configured; otherwise the
// process-local map, which cannot serve more than one server instance.
func newOTPStore(cfg *config.Config) otp.Store {
	if cfg.RedisURL != "" {
		store, err := otp.NewRedisStore(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		log.Println("Using Redis-backed OTP store")
		return store
	}

	log.Println("Using in-memory OTP store; run a single instance or configure REDIS_URL")
	return otp.NewMemoryStore()
}

// errorHandler renders every error as JSON. Internal error details are only
// exposed in development mode.
func errorHandler(cfg *config.Config) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := err.Error()

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
		}

		if code >= fiber.StatusInternalServerError {
			log.Printf("[Error] %s %s: %v", c.Method(), c.Path(), err)
			if !cfg.IsDevelopment() {
				message = "internal server error"
			}
		}

		body := fiber.Map{"error": message}
		if code >= fiber.StatusInternalServerError && cfg.IsDevelopment() {
			body["stack"] = fmt.Sprintf("%.2048s", debug.Stack())
		}

		return c.Status(code).JSON(body)
	}
}
