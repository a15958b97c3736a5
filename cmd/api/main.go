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

	"github.com/UtonulVTebe/studyhub-api/internal/config"
	"github.com/UtonulVTebe/studyhub-api/internal/content"
	"github.com/UtonulVTebe/studyhub-api/internal/database"
	"github.com/UtonulVTebe/studyhub-api/internal/handler"
	"github.com/UtonulVTebe/studyhub-api/internal/middleware"
	"github.com/UtonulVTebe/studyhub-api/internal/models"
	"github.com/UtonulVTebe/studyhub-api/internal/repository"
	"github.com/UtonulVTebe/studyhub-api/internal/router"
	"github.com/UtonulVTebe/studyhub-api/internal/service"
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

	if err := db.AutoMigrate(&models.User{}, &models.Course{}, &models.Enrollment{}, &models.Submission{}, &models.ActivityLog{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Redis and NATS are optional: the API degrades to uncached content
	// resolution and audit-only activity when they are absent.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, content caching disabled")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	} else {
		logger.Warn().Msg("nats url not configured, event publishing disabled")
	}

	store, err := content.NewFileStore(cfg.ContentRoot)
	if err != nil {
		log.Fatalf("failed to initialise content store: %v", err)
	}
	resolver := content.NewCachedResolver(store, redisClient, cfg.ContentCacheTTL, logger)

	validate := validator.New(validator.WithRequiredStructEnabled())

	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	userRepo := repository.NewUserRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	activityService := service.NewActivityService(activityRepo, natsConn, cfg.EventSubject, logger)
	courseService := service.NewCourseService(courseRepo, enrollmentRepo, store, resolver, validate, activityService, logger)
	submissionService := service.NewSubmissionService(submissionRepo, courseRepo, enrollmentRepo, userRepo, resolver, validate, activityService, logger)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo, userRepo, activityService, logger)

	courseHandler := handler.NewCourseHandler(courseService, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService, logger)
	activityHandler := handler.NewActivityHandler(activityService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		CourseHandler:     courseHandler,
		EnrollmentHandler: enrollmentHandler,
		SubmissionHandler: submissionHandler,
		ActivityHandler:   activityHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
		SubmitRateLimit:   middleware.RateLimit("submit", cfg.SubmitRateMax, cfg.SubmitRateEvery),
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
