package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	httpapi "storage-rental-backend/internal/api/http"
	"storage-rental-backend/internal/config"
	"storage-rental-backend/internal/domain"
	"storage-rental-backend/internal/logger"
	"storage-rental-backend/internal/metrics"
	"storage-rental-backend/internal/repository"
	"storage-rental-backend/internal/repository/memory"
	"storage-rental-backend/internal/repository/postgres"
	"storage-rental-backend/internal/security"
	"storage-rental-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Storage Rental Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "store", cfg.Store.Type)

	var (
		repos       repository.Repositories
		tx          repository.Transactor
		healthCheck func(ctx context.Context) error
	)

	switch cfg.Store.Type {
	case config.StoreTypePostgres:
		logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if cfg.Database.MaxOpen > 0 {
			db.SetMaxOpenConns(cfg.Database.MaxOpen)
		}

		// Test database connection
		if err := db.Ping(); err != nil {
			logger.Error("Failed to ping database", "error", err)
			log.Fatalf("Failed to ping database: %v", err)
		}
		logger.Info("Database connection established")

		store := postgres.NewStore(db)
		repos, tx, healthCheck = store.Repositories(), store, store.Ping
	case config.StoreTypeMemory:
		store := memory.NewStore()
		seedDevelopmentData(store)
		repos, tx = store.Repositories(), store
	}

	rates, err := cfg.PriceRates()
	if err != nil {
		log.Fatalf("Invalid pricing configuration: %v", err)
	}
	addons, err := cfg.Addons()
	if err != nil {
		log.Fatalf("Invalid pricing configuration: %v", err)
	}

	// Initialize Services
	m := metrics.New()
	clock := service.SystemClock{}
	sessionSvc := service.NewSessionService(repos.Sessions, clock, m)
	pricingSvc := service.NewPricingService(repos.Units, rates, addons)
	availabilitySvc := service.NewAvailabilityService(repos.Units, repos.Reservations)
	bookingSvc := service.NewBookingService(tx, repos.Reservations, pricingSvc, clock, m)

	handler := httpapi.NewHandler(httpapi.Options{
		Sessions:     sessionSvc,
		Pricing:      pricingSvc,
		Availability: availabilitySvc,
		Bookings:     bookingSvc,
		Metrics:      m,
		Clock:        clock,
		LoginURL:     cfg.Session.LoginURL,
		HealthCheck:  healthCheck,
	})

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      httpapi.NewRouter(handler),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("HTTP server stopped")
}

// seedDevelopmentData gives the in-memory store a warehouse of units and an
// admin session so the API can be exercised locally.
func seedDevelopmentData(store *memory.Store) {
	now := time.Now().UTC()
	for i := int32(1); i <= 5; i++ {
		store.PutUnit(domain.Unit{
			ID:              i,
			WarehouseID:     1,
			Name:            fmt.Sprintf("A-%02d", i),
			BaseMonthlyRate: decimal.NewFromInt(int64(2000 + 500*i)),
			Status:          domain.UnitStatusActive,
			Availability:    domain.UnitAvailabilityFree,
			CreatedOn:       now,
			UpdatedOn:       now,
		})
	}

	token := security.NewSessionToken()
	store.PutSession(domain.SessionRow{
		Token:         token,
		UserID:        1,
		Role:          domain.RoleAdmin,
		DisplayName:   "Local Admin",
		AccountStatus: domain.AccountStatusActive,
		ExpiresAt:     now.Add(24 * time.Hour),
		LastActivity:  now,
	})
	logger.Info("Seeded in-memory store", "units", 5, "admin_token", token)
}
