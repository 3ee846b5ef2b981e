package main

import (
	"database/sql"
	"flag"
	"log"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gearshare-backend/internal/config"
	"gearshare-backend/internal/jobs"
	"gearshare-backend/internal/logger"
	"gearshare-backend/internal/repository/postgres"
	"gearshare-backend/internal/service"
)

// Runs scheduled jobs once and exits. Useful for manual runs and for
// deployments that prefer an external cron over the in-process scheduler.
func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	job := flag.String("job", "all", "Job to run: overdue-reminders, start-reminders, all")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	store := postgres.NewStore(db)
	emailSvc := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	runner := jobs.NewJobRunner(store.BookingRepository, store.ListingRepository, store.UserRepository, store.NotificationRepository, emailSvc, cfg)

	switch *job {
	case "overdue-reminders":
		runner.SendOverdueReturnReminders()
	case "start-reminders":
		runner.SendUpcomingStartReminders()
	case "all":
		runner.SendOverdueReturnReminders()
		runner.SendUpcomingStartReminders()
	default:
		log.Fatalf("Unknown job %q", *job)
	}
}
