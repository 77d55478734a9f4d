package jobs

import (
	"fmt"
	"log/slog"

	"storage-rental-backend/internal/config"
	"storage-rental-backend/internal/logger"
	"storage-rental-backend/internal/repository"
	"storage-rental-backend/internal/service"
)

const (
	JobCompleteBookings = "complete-bookings"
	JobPurgeSessions    = "purge-sessions"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	repos    repository.Repositories
	services *Services
	clock    service.Clock
	config   *config.Config
	log      *slog.Logger
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Booking service.BookingService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(repos repository.Repositories, services *Services, clock service.Clock, cfg *config.Config) *JobRunner {
	if clock == nil {
		clock = service.SystemClock{}
	}
	return &JobRunner{
		repos:    repos,
		services: services,
		clock:    clock,
		config:   cfg,
		log:      logger.WithService("jobs"),
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			jr.log.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	jr.log.Info("Starting job", "job", jobName)
	jobFunc()
	jr.log.Info("Job completed", "job", jobName)
}

// Run executes one job by name, or every job for "all"
func (jr *JobRunner) Run(name string) error {
	switch name {
	case JobCompleteBookings:
		jr.CompleteElapsedBookings()
	case JobPurgeSessions:
		jr.PurgeExpiredSessions()
	case "all":
		jr.CompleteElapsedBookings()
		jr.PurgeExpiredSessions()
	default:
		return fmt.Errorf("unknown job: %s", name)
	}
	return nil
}
