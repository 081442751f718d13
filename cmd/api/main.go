package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/proctorly/integrity-api/internal/analysis"
	"github.com/proctorly/integrity-api/internal/config"
	"github.com/proctorly/integrity-api/internal/database"
	"github.com/proctorly/integrity-api/internal/handler"
	"github.com/proctorly/integrity-api/internal/middleware"
	"github.com/proctorly/integrity-api/internal/models"
	"github.com/proctorly/integrity-api/internal/repository"
	"github.com/proctorly/integrity-api/internal/router"
	"github.com/proctorly/integrity-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Application{}, &models.Answer{}, &models.BehavioralEvent{}, &models.CorpusEntry{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NatsURL != "" {
		natsConn, err = nats.Connect(cfg.NatsURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	policy := analysis.DefaultPolicy()
	policy.MinTimePerQuestion = cfg.MinTimePerQuestion
	policy.MaxIdleTimeSeconds = cfg.MaxIdleTime
	policy.SuspiciousTabSwitchCount = cfg.SuspiciousTabSwitches
	policy.SuspiciousCopyPasteCount = cfg.SuspiciousCopyPastes
	policy.MaxTypingSpeedCPM = cfg.MaxTypingSpeedCPM
	policy.RandomGuessBaseline = cfg.RandomGuessBaseline

	applicationRepo := repository.NewApplicationRepository(db)
	corpusStore := repository.NewGormCorpusStore(db)
	aggregator := analysis.NewAggregator(corpusStore, policy, logger)

	integrityService := service.NewIntegrityService(applicationRepo, aggregator, validate, natsConn, logger)
	batchService := service.NewBatchService(applicationRepo, aggregator, redisClient, cfg.BatchCacheTTL, logger)

	integrityHandler := handler.NewIntegrityHandler(integrityService, batchService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		IntegrityHandler: integrityHandler,
		JWTMiddleware:    middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
