package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"storage-rental-backend/internal/config"
	"storage-rental-backend/internal/jobs"
	"storage-rental-backend/internal/logger"
	"storage-rental-backend/internal/repository/postgres"
	"storage-rental-backend/internal/scheduler"
	"storage-rental-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit ('complete-bookings', 'purge-sessions', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Storage Rental Cronjob Runner...", "log_level", cfg.Log.Level)

	if cfg.Store.Type != config.StoreTypePostgres {
		log.Fatalf("Cronjob runner requires the postgres store, got %q", cfg.Store.Type)
	}

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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

	rates, err := cfg.PriceRates()
	if err != nil {
		log.Fatalf("Invalid pricing configuration: %v", err)
	}
	addons, err := cfg.Addons()
	if err != nil {
		log.Fatalf("Invalid pricing configuration: %v", err)
	}

	// Initialize Services
	clock := service.SystemClock{}
	pricingService := service.NewPricingService(store.UnitRepository, rates, addons)
	bookingService := service.NewBookingService(store, store.ReservationRepository, pricingService, clock, nil)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(store.Repositories(), &jobs.Services{Booking: bookingService}, clock, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if err := jobRunner.Run(*runOnce); err != nil {
			logger.Error("Unknown job name", "job", *runOnce)
			fmt.Printf("Available jobs:\n")
			fmt.Printf("  - %s\n", jobs.JobCompleteBookings)
			fmt.Printf("  - %s\n", jobs.JobPurgeSessions)
			fmt.Printf("  - all\n")
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		log.Fatalf("Failed to register jobs: %v", err)
	}

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}
