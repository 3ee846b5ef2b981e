package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	api "gearshare-backend/internal/api/http"
	"gearshare-backend/internal/config"
	"gearshare-backend/internal/jobs"
	"gearshare-backend/internal/logger"
	"gearshare-backend/internal/metrics"
	"gearshare-backend/internal/payments"
	"gearshare-backend/internal/repository/postgres"
	"gearshare-backend/internal/scheduler"
	"gearshare-backend/internal/security"
	"gearshare-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting GearShare backend", "address", cfg.GetServerAddress())
	metrics.Register()

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established", "host", cfg.Database.Host, "database", cfg.Database.Database)

	store := postgres.NewStore(db)
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	var processor payments.Processor
	switch cfg.Payments.Mode {
	case "", "mock":
		logger.Info("Using mock payment processor")
		processor = payments.NewMockProcessor()
	default:
		log.Fatalf("Payment mode %q not implemented", cfg.Payments.Mode)
	}

	emailSvc := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	authSvc := service.NewAuthService(store.UserRepository, tokenManager, processor)
	listingSvc := service.NewListingService(store.ListingRepository)
	bookingSvc := service.NewBookingService(store.BookingRepository, store.ListingRepository, store.UserRepository, store.NotificationRepository, emailSvc)
	paymentSvc := service.NewPaymentService(store.BookingRepository, store.RefundRepository, store.UserRepository, store.NotificationRepository, processor, emailSvc)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	jobRunner := jobs.NewJobRunner(store.BookingRepository, store.ListingRepository, store.UserRepository, store.NotificationRepository, emailSvc, cfg)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	router := api.NewRouter(api.RouterDeps{
		DB:           db,
		TokenManager: tokenManager,
		AuthSvc:      authSvc,
		ListingSvc:   listingSvc,
		BookingSvc:   bookingSvc,
		PaymentSvc:   paymentSvc,
		NoteSvc:      noteSvc,
	})

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Shutdown failed", "error", err)
	}
}
