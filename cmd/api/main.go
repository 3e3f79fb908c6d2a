package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/alexbart/Church-management/internal/audit"
	"github.com/alexbart/Church-management/internal/config"
	"github.com/alexbart/Church-management/internal/database"
	"github.com/alexbart/Church-management/internal/expense"
	"github.com/alexbart/Church-management/internal/reports"
	"github.com/alexbart/Church-management/internal/revenue"
	"github.com/alexbart/Church-management/internal/router"
	"github.com/alexbart/Church-management/internal/sequence"
	"github.com/alexbart/Church-management/internal/types"
	"github.com/alexbart/Church-management/internal/users"

	authpkg "github.com/alexbart/Church-management/internal/auth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("error connecting to database: %v", err)
	}
	defer pool.Close()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal server error"

			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
				message = fiberErr.Message
			}

			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})

	app.Use(router.CorsMiddleware(cfg.CORSOrigin))
	app.Use(requestLogger())

	secret := []byte(cfg.JWTSecret)
	allocator := sequence.NewAllocator(pool)

	userRepo := users.NewRepository(pool)
	typeRepo := types.NewRepository(pool)
	revenueRepo := revenue.NewRepository(pool)
	expenseRepo := expense.NewRepository(pool)

	reportStore := reports.NewStore(pool)
	importer := reports.NewImporter(typeRepo, userRepo, revenueRepo, expenseRepo, allocator)

	r := &router.Router{
		AuthHandler:    users.NewAuthHandler(userRepo, allocator, secret),
		UserHandler:    users.NewHandler(userRepo, allocator),
		TypeHandler:    types.NewHandler(typeRepo),
		RevenueHandler: revenue.NewHandler(revenueRepo, typeRepo, allocator),
		ExpenseHandler: expense.NewHandler(expenseRepo, typeRepo, allocator),
		ReportHandler:  reports.NewHandler(reportStore, importer, pool),
		AuditHandler:   audit.NewHandler(pool),
		AuthMW:         authpkg.Middleware(secret),
		RateLimitMW:    router.RateLimitAuth(cfg.RateLimitMax, time.Duration(cfg.RateLimitWindowSeconds)*time.Second),
	}
	r.RegisterRoutes(app)

	log.Println("Listening on port", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		log.Printf("%s %s %d %s", c.Method(), c.Path(), status, time.Since(start))
		return err
	}
}
