package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/newrelic/go-agent/v3/integrations/nrpq" // Registers "nrpostgres" driver
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/Siddharthbgp/ride-hailing-app/internal/config"
)

// NewDatabase creates a new PostgreSQL connection pool. If nrApp is provided,
// it uses the New Relic instrumented driver for automatic SQL tracing.
func NewDatabase(ctx context.Context, cfg config.DatabaseConfig, nrApp *newrelic.Application) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	var db *sql.DB
	var err error

	// The "nrpostgres" driver is registered by the nrpq import.
	if nrApp != nil {
		db, err = sql.Open("nrpostgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database with nrpq: %w", err)
		}
	} else {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
	}

	// Pool sizing: dispatch traffic is short transactions, so favor a
	// moderate ceiling with warm idle connections.
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
