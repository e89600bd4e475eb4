package bunstore

import (
	"database/sql"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// Driver selects the SQL backend the document store runs on.
type Driver string

const (
	// DriverSQLite stores records in a SQLite database. Suitable for single
	// process deployments and tests.
	DriverSQLite Driver = "sqlite"

	// DriverPostgres stores records in PostgreSQL via lib/pq.
	DriverPostgres Driver = "postgres"
)

// Config holds the store connection settings.
type Config struct {
	// Driver picks the backend. Must be one of DriverSQLite or DriverPostgres.
	Driver Driver

	// DSN is the driver-specific connection string.
	DSN string
}

// DefaultConfig returns a Config backed by a shared in-memory SQLite
// database, which is what the examples and tests use.
func DefaultConfig() Config {
	return Config{
		Driver: DriverSQLite,
		DSN:    "file::memory:?cache=shared&_busy_timeout=5000",
	}
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Driver, validation.Required, validation.In(DriverSQLite, DriverPostgres)),
		validation.Field(&c.DSN, validation.Required),
	)
}

// Open validates the configuration and returns a bun handle for it. The
// caller owns the handle's lifecycle; nothing here uses process-wide state.
func Open(cfg Config) (*bun.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("bunstore: invalid config: %w", err)
	}

	switch cfg.Driver {
	case DriverSQLite:
		sqldb, err := sql.Open("sqlite3", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("bunstore: open sqlite: %w", err)
		}
		// A single connection keeps in-memory databases coherent and avoids
		// SQLITE_BUSY under concurrent writers.
		sqldb.SetMaxOpenConns(1)
		return bun.NewDB(sqldb, sqlitedialect.New()), nil

	case DriverPostgres:
		sqldb, err := sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("bunstore: open postgres: %w", err)
		}
		return bun.NewDB(sqldb, pgdialect.New()), nil

	default:
		return nil, fmt.Errorf("bunstore: unsupported driver %q", cfg.Driver)
	}
}
