package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	httpapi "staybook-backend/internal/api/http"
	"staybook-backend/internal/clock"
	"staybook-backend/internal/config"
	"staybook-backend/internal/jobs"
	"staybook-backend/internal/logger"
	"staybook-backend/internal/repository/postgres"
	"staybook-backend/internal/scheduler"
	"staybook-backend/internal/security"
	"staybook-backend/internal/service"
	"staybook-backend/internal/suggestion"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Environment overrides may come from a local .env file
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Ignoring unreadable .env file: %v", err)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
	logger.Info("Starting Staybook Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Reservation configuration",
		"hold_window", cfg.HoldWindow(),
		"clock_offset", cfg.ClockOffset(),
		"suggestion_ttl", cfg.SuggestionTTL())

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	// Initialize Email Service
	emailSvc, err := service.NewEmailService(emailSettings(cfg))
	if err != nil {
		logger.Error("Failed to initialize email service", "error", err)
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	// Initialize Services
	clk := clock.Real{Offset: cfg.ClockOffset()}
	registry := suggestion.NewRegistry()
	notifier := service.NewNotifier(store.NotificationRepository, store.UserRepository, emailSvc)

	reservationSvc := service.NewReservationService(
		store.ReservationRepository,
		store.ListingRepository,
		notifier,
		registry,
		clk,
		cfg.HoldWindow(),
	)
	suggestionSvc := service.NewSuggestionService(
		store.ReservationRepository,
		store.ListingRepository,
		store.UserRepository,
		notifier,
		registry,
		clk,
		cfg.SuggestionTTL(),
	)
	listingSvc := service.NewListingService(store.ListingRepository)
	calendarSvc := service.NewCalendarService(store.ReservationRepository, store.ListingRepository, clk)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	// The suggestion registry lives in this process, so its purge runs here.
	// Reminders are left to the cronjob binary.
	jobRunner := jobs.NewJobRunner(nil, &jobs.Services{Suggestions: suggestionSvc}, clk, cfg)
	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()

	// Set up HTTP server
	router := httpapi.NewRouter(httpapi.Services{
		Reservations:  reservationSvc,
		Suggestions:   suggestionSvc,
		Listings:      listingSvc,
		Calendar:      calendarSvc,
		Notifications: noteSvc,
	}, tokenManager, httpapi.NewRateLimiter(cfg.RateLimit))

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          logger.StdLogger(slog.LevelError),
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to serve HTTP", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down server...")
	cronScheduler.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP shutdown failed", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}

func emailSettings(cfg *config.Config) service.EmailSettings {
	return service.EmailSettings{
		Provider:       cfg.Email.Provider,
		From:           cfg.Email.From,
		FromName:       cfg.Email.FromName,
		SMTPHost:       cfg.SMTP.Host,
		SMTPPort:       cfg.SMTP.Port,
		SMTPUser:       cfg.SMTP.User,
		SMTPPassword:   cfg.SMTP.Password,
		SendGridAPIKey: cfg.SendGrid.APIKey,
	}
}
