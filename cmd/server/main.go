package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/restaurant-table-booking/internal/config"     // Internal config loader
	"github.com/iliyamo/restaurant-table-booking/internal/database"   // MySQL connection helper
	"github.com/iliyamo/restaurant-table-booking/internal/handler"    // HTTP handlers
	"github.com/iliyamo/restaurant-table-booking/internal/middleware" // Redis cache + rate limit middleware
	"github.com/iliyamo/restaurant-table-booking/internal/queue"      // Notification consumer
	"github.com/iliyamo/restaurant-table-booking/internal/repository" // Database repositories
	"github.com/iliyamo/restaurant-table-booking/internal/router"     // Route registration
	queue_publisher "github.com/iliyamo/restaurant-table-booking/internal/service"
)

func main() {
	_ = godotenv.Load()  // Load .env when present; real env vars win
	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName) // Connect to MySQL
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories share the single connection pool.
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	restaurantRepo := repository.NewRestaurantRepo(db)
	tableRepo := repository.NewTableRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	notificationRepo := repository.NewNotificationRepo(db)

	// Handlers.
	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	bookingHandler := handler.NewBookingHandler(restaurantRepo, tableRepo, bookingRepo, queue_publisher.NewPublisher())
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	publicHandler := &handler.PublicHandler{RestaurantRepo: restaurantRepo, TableRepo: tableRepo}
	managerHandler := handler.NewManagerHandler(restaurantRepo, tableRepo)

	// Background consumer turns booking/order events into notification
	// rows. It runs its own reconnect loop and never returns.
	go func() {
		if err := queue.StartNotificationConsumer(db); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	e := echo.New() // Create Echo instance

	// Redis-backed rate limiting applies to everything; the response
	// cache wraps only the public browse routes. When Redis is down
	// both middlewares degrade to pass-through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; cache and rate limiting disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	browseCache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)                                            // Health check
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)                  // Auth + /v1/me
	router.RegisterPublic(e, publicHandler, browseCache)                // Guest browsing (cached)
	router.RegisterCustomer(e, bookingHandler, notificationHandler, cfg.JWTSecret) // Bookings + notifications
	router.RegisterManager(e, managerHandler, cfg.JWTSecret)            // Venue administration

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
