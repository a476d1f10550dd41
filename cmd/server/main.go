// Package main runs the evently HTTP server.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"evently/config"
	_ "evently/docs"
	"evently/internal/adapters/auth"
	"evently/internal/adapters/email"
	"evently/internal/adapters/storage"
	"evently/internal/adapters/ticket"
	deliveryhttp "evently/internal/delivery/http"
	"evently/internal/delivery/http/controllers"
	"evently/internal/delivery/http/middleware"
	"evently/internal/domain"
	"evently/internal/repository/postgres"
	"evently/internal/services"
)

// @title Evently API
// @version 1.0
// @description Event management platform: organizers create and publish events, users register and bookmark, admins moderate.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("ping database", "error", err)
		os.Exit(1)
	}

	if err := postgres.Migrate(db); err != nil {
		logger.Error("run migrations", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	organizerRepo := postgres.NewOrganizerRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)
	bookmarkRepo := postgres.NewBookmarkRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	auditRepo := postgres.NewAuditLogRepository(db)

	// Adapters
	jwtCodec := auth.NewJWTCodec(cfg.JWTSecret)
	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	ticketIssuer := ticket.NewHMACIssuer(cfg.TicketSecret)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		},
	}, logger)
	if err != nil {
		logger.Error("create mailer", "error", err)
		os.Exit(1)
	}

	mediaStore, err := storage.NewS3Store(context.Background(), storage.S3Config{
		Region:          cfg.AWSRegion,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
		Bucket:          cfg.S3Bucket,
	}, logger)
	if err != nil {
		logger.Error("create media store", "error", err)
		os.Exit(1)
	}

	// Services
	policy := domain.NewSchedulePolicy()
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	notifier := services.NewNotifier(notificationRepo, emailService, logger)

	authService := services.NewAuthService(userRepo, hasher, jwtCodec, notifier, cfg.JWTExpiry, cfg.ContextTimeout)
	userService := services.NewUserService(userRepo, hasher, cfg.ContextTimeout)
	organizerService := services.NewOrganizerService(organizerRepo, cfg.ContextTimeout)
	eventService := services.NewEventService(eventRepo, organizerRepo, registrationRepo, mediaStore, policy, notifier, logger, cfg.ContextTimeout)
	attendeeService := services.NewAttendeeService(eventRepo, registrationRepo, userRepo, ticketIssuer, policy, notifier, logger, cfg.ContextTimeout)
	bookmarkService := services.NewBookmarkService(bookmarkRepo, eventRepo, cfg.ContextTimeout)
	catalogService := services.NewCatalogService(eventRepo, logger, cfg.ContextTimeout)
	adminService := services.NewAdminService(eventRepo, organizerRepo, registrationRepo, userRepo, auditRepo, mediaStore, notifier, cfg.FrontendURL, logger, cfg.ContextTimeout)
	notificationService := services.NewNotificationService(notificationRepo, organizerRepo, cfg.ContextTimeout)

	// HTTP
	mux := deliveryhttp.NewRouter(deliveryhttp.RouterDeps{
		Logger:        logger,
		TokenVerifier: jwtCodec,

		Auth:          controllers.NewAuthController(logger, authService),
		User:          controllers.NewUserController(logger, userService),
		Catalog:       controllers.NewCatalogController(logger, catalogService),
		Attendee:      controllers.NewAttendeeController(logger, attendeeService, bookmarkService),
		Organizer:     controllers.NewOrganizerController(logger, organizerService),
		Event:         controllers.NewEventController(logger, eventService),
		Admin:         controllers.NewAdminController(logger, adminService),
		Notifications: controllers.NewNotificationController(logger, notificationService),
	})

	handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	logger.Info("server stopped")
}
