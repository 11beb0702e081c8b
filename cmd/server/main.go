package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/cors"

	"github.com/fisherfans/fisherfans-api/internal/config"
	"github.com/fisherfans/fisherfans-api/internal/database"
	"github.com/fisherfans/fisherfans-api/internal/handler"
	"github.com/fisherfans/fisherfans-api/internal/middleware"
	"github.com/fisherfans/fisherfans-api/internal/queue"
	"github.com/fisherfans/fisherfans-api/internal/repository"
	"github.com/fisherfans/fisherfans-api/internal/router"
	"github.com/fisherfans/fisherfans-api/internal/rules"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	boats := repository.NewBoatRepo(db)
	trips := repository.NewTripRepo(db)
	bookings := repository.NewBookingRepo(db)
	logbook := repository.NewLogbookRepo(db)
	tokens := repository.NewTokenRepo(db)

	engine := rules.NewEngine(users, boats, trips, bookings, logbook)

	h := router.Handlers{
		Auth:    handler.NewAuthHandler(cfg, users, tokens),
		Users:   handler.NewUserHandler(cfg, users, boats, trips, bookings, engine),
		Boats:   handler.NewBoatHandler(boats, engine),
		Trips:   handler.NewTripHandler(trips, engine),
		Booking: handler.NewBookingHandler(bookings, trips, engine),
		Logbook: handler.NewLogbookHandler(logbook, engine),
	}

	// Redis backs the rate limiter and the listing cache; when it is absent
	// both middlewares turn into no-ops and the API still serves.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}
	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	e.HideBanner = true
	e.Use(echo.WrapMiddleware(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler))

	router.Register(e, h, cfg.JWTSecret, rateLimit, cache)

	// Booking confirmations are processed off the request path.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
