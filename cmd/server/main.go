package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/eventify/eventify/internal/config"
	"github.com/eventify/eventify/internal/database"
	"github.com/eventify/eventify/internal/handler"
	"github.com/eventify/eventify/internal/queue"
	"github.com/eventify/eventify/internal/repository"
	"github.com/eventify/eventify/internal/router"
	"github.com/eventify/eventify/internal/service"
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema: %v", err)
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	events := repository.NewEventRepo(db)
	ledger := repository.NewReservationRepo(db)

	if cfg.AdminUsername != "" {
		if err := users.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			cancel()
			log.Fatalf("admin bootstrap: %v", err)
		}
	}
	cancel()

	booking := service.NewBookingService(events, ledger, service.NewAMQPPublisher())

	// Booking confirmations and cancellations are consumed off the broker
	// in the background; the consumer reconnects on its own.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, response cache and rate limiting disabled")
	}

	e := echo.New()
	router.RegisterPublic(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterCustomer(e, handler.NewCustomerHandler(events, ledger, booking), cfg.JWTSecret, rdb)
	router.RegisterAdmin(e, handler.NewAdminEventHandler(events, ledger, booking), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
