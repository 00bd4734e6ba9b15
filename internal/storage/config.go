package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"

	"yamlrg-backend/internal/config"
	"yamlrg-backend/internal/logger"
)

// Open connects the document store selected by cfg.Store.Type.
// app is only consulted for the firestore backend and may be nil otherwise.
func Open(ctx context.Context, cfg *config.Config, app *firebase.App) (DocumentStore, error) {
	switch cfg.Store.Type {
	case "firestore":
		if app == nil {
			return nil, errors.New("firestore store requires a firebase app")
		}
		client, err := app.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create firestore client: %w", err)
		}
		logger.Info("Using Firestore document store", "project_id", cfg.Firebase.ProjectID)
		return NewFirestoreStore(client), nil

	case "postgres":
		p := cfg.Store.Postgres
		logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", p.User, p.Host, p.Port, p.Database))
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		store := NewPostgresStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create documents table: %w", err)
		}
		logger.Info("Using PostgreSQL document store", "host", p.Host, "database", p.Database)
		return store, nil

	case "memory":
		logger.Warn("Using in-memory document store; data is lost on restart")
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unsupported store type: %s", cfg.Store.Type)
}
