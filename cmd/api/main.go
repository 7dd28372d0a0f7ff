package main

import (
	"context"
	"log"
	"os"

	"go-sales-inventory/internal/config"
	"go-sales-inventory/internal/handler"
	"go-sales-inventory/internal/middleware"
	"go-sales-inventory/internal/model"
	"go-sales-inventory/internal/repository"
	"go-sales-inventory/internal/service"
	"go-sales-inventory/internal/ws"
	"go-sales-inventory/pkg/cache"
	"go-sales-inventory/pkg/database"
	"go-sales-inventory/pkg/jwt"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.Load()

	// 2. Setup Database
	db := database.ConnectDB(cfg.DB)
	// Auto Migrate (production deployments should run migrations separately)
	if err := db.AutoMigrate(model.All()...); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 3. Optional statistics cache
	var statsCache service.StatsCache
	var redisCache *cache.Cache
	if cfg.Redis.Addr != "" {
		c, err := cache.Connect(context.Background(), cache.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   "sales-inventory:",
			TTL:      cfg.Redis.StatsTTL,
		})
		if err != nil {
			log.Printf("Warning: statistics cache disabled: %v", err)
		} else {
			redisCache = c
			statsCache = c
			log.Printf("Statistics cache connected to %s", cfg.Redis.Addr)
		}
	}

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokens := jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	invService := service.NewInventoryService(productRepo, db, wsHub)
	saleService := service.NewSaleService(saleRepo, productRepo, db, wsHub, statsCache)
	authService := service.NewAuthService(userRepo, tokens)

	if _, err := authService.EnsureAdmin(context.Background(), cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, "Administrator"); err != nil {
		log.Printf("Warning: failed to seed admin user: %v", err)
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      "Sales & Inventory API v1.0",
		ErrorHandler: handler.ErrorHandler(cfg.IsDevelopment()),
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))

	// 7. Routes
	requireAuth := middleware.RequireAuth(tokens, userRepo)
	handler.Register(app, handler.Routes{
		Inventory:     handler.NewInventoryHandler(invService),
		Sales:         handler.NewSaleHandler(saleService),
		Auth:          handler.NewAuthHandler(authService),
		Protect:       middleware.Optional(cfg.Auth.Required, requireAuth),
		Authenticated: requireAuth,
		Hub:           wsHub,
	})

	go func() {
		log.Printf("Server listening on :%s (env=%s, db=%s, auth required=%t)", cfg.Port, cfg.Env, cfg.DB.Driver, cfg.Auth.Required)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic(err)
		}
	}()

	// 8. Graceful Shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				log.Println("Shutting down server...")
				if err := app.ShutdownWithContext(ctx); err != nil {
					return err
				}
				// requests have drained, the pool can go
				return database.Close(db)
			},
			"ws-hub": func(ctx context.Context) error {
				wsHub.Close()
				return nil
			},
			"stats-cache": func(ctx context.Context) error {
				if redisCache == nil {
					return nil
				}
				return redisCache.Close()
			},
		},
	)

	exitCode := <-wait
	log.Printf("Server exited with code: %d", exitCode)
	os.Exit(exitCode)
}
