package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	firebase "firebase.google.com/go/v4"

	"yamlrg-backend/internal/config"
	"yamlrg-backend/internal/identity"
	"yamlrg-backend/internal/jobs"
	"yamlrg-backend/internal/logger"
	"yamlrg-backend/internal/repository/document"
	"yamlrg-backend/internal/scheduler"
	"yamlrg-backend/internal/security"
	"yamlrg-backend/internal/service"
	"yamlrg-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'pending-request-digest', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting YAMLRG Cronjob Runner...", "log_level", cfg.Log.Level)

	ctx := context.Background()

	var app *firebase.App
	if cfg.Store.Type == "firestore" {
		app, err = identity.NewFirebaseApp(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			logger.Error("Failed to initialize firebase", "error", err)
			log.Fatalf("Failed to initialize firebase: %v", err)
		}
	}

	// Initialize Document Store and Repositories
	docs, err := storage.Open(ctx, cfg, app)
	if err != nil {
		logger.Error("Failed to open document store", "error", err)
		log.Fatalf("Failed to open document store: %v", err)
	}
	store := document.NewStore(docs)
	defer store.Close()

	// Initialize Services
	links := service.EmailLinks{CommunityChatURL: cfg.Email.CommunityChatURL, ProfileURL: cfg.Email.ProfileURL}
	var emailService service.EmailService
	if cfg.Email.Provider == "log" {
		emailService = service.NewLogEmailService(links)
	} else {
		emailService = service.NewSendGridEmailService(cfg.Email.APIKey, cfg.Email.From, cfg.Email.FromName, links)
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(
		store.JoinRequestRepository,
		store.UserAccountRepository,
		emailService,
		security.NewPolicy(cfg.Admin.Emails),
		cfg,
	)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.", "jobs", cronScheduler.JobCount())

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "pending-request-digest":
		jobRunner.SendPendingRequestDigest()
	case "profile-reminders":
		jobRunner.SendProfileReminders()
	case "all":
		jobRunner.RunAllJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - pending-request-digest\n")
		fmt.Printf("  - profile-reminders\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
