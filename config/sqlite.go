package config

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// NewSQLite opens the SQLite file at cfg.SQLitePath. SQLite allows a single
// writer, so the pool is capped at one connection.
func NewSQLite(ctx context.Context, cfg *Config) (*sql.DB, error) {
	db, err := sql.Open("sqlite", cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode = WAL`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite pragma: %w", err)
	}
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite pragma: %w", err)
	}
	return db, nil
}

// NewDatabase opens the store selected by cfg.StoreDriver. It returns a nil
// DB for the memory driver.
func NewDatabase(ctx context.Context, cfg *Config) (*sql.DB, error) {
	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		return NewPostgres(ctx, cfg)
	case StoreDriverSQLite:
		return NewSQLite(ctx, cfg)
	case StoreDriverMemory:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
