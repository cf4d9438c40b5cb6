package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"

	"mainstream-shop/internal/config"
	"mainstream-shop/internal/database"
	"mainstream-shop/internal/handlers"
	"mainstream-shop/internal/repositories"
	"mainstream-shop/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := database.NewConnection(database.Config{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()
	log.Printf("Database connection established (%s)", db.Driver())

	if err := db.RunMigrations(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Session store for the cart snapshot, flash notifications and login
	sessionStore := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   !cfg.IsDevelopment(),
		SameSite: http.SameSiteLaxMode,
	}

	// Repositories
	eventRepo := repositories.NewEventRepository(db)
	athleteRepo := repositories.NewAthleteRepository(db)
	videoTypeRepo := repositories.NewVideoTypeRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	userRepo := repositories.NewUserRepository(db)
	auditRepo := repositories.NewAuditLogRepository(db)

	// Services
	auditService := services.NewAuditService(auditRepo)
	telegramService := services.NewTelegramService(services.TelegramConfig{
		BotToken: cfg.Telegram.BotToken,
		ChatID:   cfg.Telegram.ChatID,
	})
	catalogService := services.NewCatalogService(eventRepo, athleteRepo, videoTypeRepo)
	orderService := services.NewOrderService(orderRepo, userRepo, athleteRepo, videoTypeRepo, auditService, telegramService)
	cleanupService := services.NewCleanupService(orderRepo, auditService, cfg.Cleanup.Interval)

	if err := catalogService.EnsureDefaultVideoTypes(); err != nil {
		log.Fatal("Failed to seed video types:", err)
	}

	// Cart snapshots live in the cookie session unless Redis is configured
	snapshots := handlers.SessionSnapshots()
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to connect to Redis:", err)
		}
		defer redisClient.Close()
		log.Printf("Cart snapshots stored in Redis at %s", cfg.Redis.Addr)
		snapshots = handlers.RedisSnapshots(redisClient, 30*24*time.Hour)
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		SessionStore: sessionStore,
		UserLoader:   userRepo,
		Auth:         handlers.NewAuthHandler(userRepo),
		Shop:         handlers.NewShopHandler(catalogService),
		Cart:         handlers.NewCartHandler(catalogService, handlers.NewVideoTypeFetcher(catalogService), snapshots),
		Checkout:     handlers.NewCheckoutHandler(orderService, snapshots),
		Admin:        handlers.NewAdminHandler(orderService, auditService),
		Health:       handlers.NewHealthHandler(db),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Expired-payment sweeper
	go cleanupService.Run(ctx)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed:", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
