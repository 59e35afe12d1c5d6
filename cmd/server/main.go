package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"supportchat-backend/internal/config"
	"supportchat-backend/internal/database"
	"supportchat-backend/internal/handler"
	"supportchat-backend/internal/middleware"
	"supportchat-backend/internal/repository"
	"supportchat-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg := config.Load()

	// Database
	db, err := database.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(context.Background(), db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations applied successfully")

	// Repositories
	messageRepo := repository.NewMessageRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Routing engine
	presence := service.NewPresence()
	hub := service.NewHub()
	router := service.NewRouter(messageRepo, userRepo, presence, hub)

	// Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
		BodyLimit:    1 * 1024 * 1024, // 1MB
	})

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Support chat server is running")
	})

	// Health
	healthH := handler.NewHealthHandler(db)
	app.Get("/health", healthH.Health)
	app.Get("/ready", healthH.Ready)

	// API v1
	v1 := app.Group("/api/v1")

	msgH := handler.NewMessageHandler(messageRepo)
	messages := v1.Group("/messages")
	messages.Get("/user/:userId", msgH.GetUserMessages)
	messages.Get("/all", msgH.GetAllMessages)
	messages.Get("/conversation/:userId1/:userId2", msgH.GetConversation)
	messages.Delete("/:messageId", middleware.RateLimit(30, time.Minute), msgH.DeleteMessage)

	// WebSocket
	wsH := handler.NewWSHandler(hub, router)
	app.Get("/ws", wsH.Upgrade)

	// Retention sweep
	if cfg.RetentionDays > 0 {
		go pruneOldMessages(messageRepo, cfg.RetentionDays)
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	log.Printf("Support chat backend running on :%s (%s)", cfg.Port, cfg.Env)

	<-quit
	log.Println("Shutting down...")
	_ = app.ShutdownWithTimeout(5 * time.Second)
	log.Println("Server stopped")
}

type retentionStore interface {
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}

func pruneOldMessages(store retentionStore, days int) {
	sweep := func() {
		n, err := store.DeleteOlderThan(context.Background(), days)
		if err != nil {
			log.Printf("[Chat] retention sweep failed: %v", err)
			return
		}
		if n > 0 {
			log.Printf("[Chat] retention sweep removed %d messages", n)
		}
	}

	// Sweep once at boot so short-lived deployments still prune, then
	// daily.
	sweep()
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		sweep()
	}
}
