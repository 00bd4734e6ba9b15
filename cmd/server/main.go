package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"

	httpapi "yamlrg-backend/internal/api/http"
	"yamlrg-backend/internal/config"
	"yamlrg-backend/internal/identity"
	"yamlrg-backend/internal/logger"
	"yamlrg-backend/internal/repository/document"
	"yamlrg-backend/internal/security"
	"yamlrg-backend/internal/service"
	"yamlrg-backend/internal/storage"
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
	logger.Info("Starting YAMLRG Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Backends", "store", cfg.Store.Type, "identity", cfg.Identity.Type, "email", cfg.Email.Provider)

	ctx := context.Background()

	// Initialize Firebase when either backend needs it
	var app *firebase.App
	if cfg.Store.Type == "firestore" || cfg.Identity.Type == "firebase" {
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

	// Initialize Identity Provider
	var identities identity.Provider
	switch cfg.Identity.Type {
	case "firebase":
		identities, err = identity.NewFirebaseProvider(ctx, app)
		if err != nil {
			logger.Error("Failed to initialize firebase auth", "error", err)
			log.Fatalf("Failed to initialize firebase auth: %v", err)
		}
	case "local":
		logger.Warn("Using local identity provider; tokens are signed with the configured secret")
		identities = identity.NewLocalProvider(security.NewTokenManager(cfg.Identity.LocalSecret))
	}

	// Initialize Email Service
	links := service.EmailLinks{CommunityChatURL: cfg.Email.CommunityChatURL, ProfileURL: cfg.Email.ProfileURL}
	var emailSvc service.EmailService
	if cfg.Email.Provider == "log" {
		emailSvc = service.NewLogEmailService(links)
	} else {
		emailSvc = service.NewSendGridEmailService(cfg.Email.APIKey, cfg.Email.From, cfg.Email.FromName, links)
	}

	// Initialize Security
	policy := security.NewPolicy(cfg.Admin.Emails)
	logger.Info("Admin allow-list loaded", "admins", len(policy.AdminEmails()))

	// Initialize Services
	authSvc := service.NewAuthService(store.JoinRequestRepository, store.UserAccountRepository, identities, policy)
	adminSvc := service.NewAdminService(
		store.JoinRequestRepository,
		store.UserAccountRepository,
		policy,
		service.NewEmailNotifier(emailSvc),
	)
	userSvc := service.NewUserService(store.UserAccountRepository, identities, policy)
	workshopSvc := service.NewWorkshopService(store.WorkshopRepository, store.PresentationRequestRepository, policy)

	// Set up HTTP server
	router := httpapi.NewRouter(httpapi.Services{
		Auth:      authSvc,
		Admin:     adminSvc,
		Users:     userSvc,
		Workshops: workshopSvc,
		Email:     emailSvc,
		Policy:    policy,
	}, identities, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
