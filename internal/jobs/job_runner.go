package jobs

import (
	"context"
	"log/slog"

	"yamlrg-backend/internal/config"
	"yamlrg-backend/internal/logger"
	"yamlrg-backend/internal/repository"
	"yamlrg-backend/internal/security"
	"yamlrg-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	requests repository.JoinRequestRepository
	users    repository.UserAccountRepository
	email    service.EmailService
	policy   *security.Policy
	config   *config.Config
	log      *slog.Logger
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(
	requests repository.JoinRequestRepository,
	users repository.UserAccountRepository,
	email service.EmailService,
	policy *security.Policy,
	cfg *config.Config,
) *JobRunner {
	return &JobRunner{
		requests: requests,
		users:    users,
		email:    email,
		policy:   policy,
		config:   cfg,
		log:      logger.WithService("cronjob"),
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			jr.log.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	jr.log.Info("Starting job", "job", jobName)
	jobFunc(context.Background())
	jr.log.Info("Job completed", "job", jobName)
}

// RunAllJobs runs every job once (for manual execution)
func (jr *JobRunner) RunAllJobs() {
	jr.SendPendingRequestDigest()
	jr.SendProfileReminders()
}
