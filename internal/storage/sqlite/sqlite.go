// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/coffeeshop/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// ErrDatabaseNotFound is returned by Open when there is no generated dataset at the path.
var ErrDatabaseNotFound = errors.New("database not found")

// dsnPragmas apply to every pooled connection.
const dsnPragmas = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := open(dbPath)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Open opens an existing dataset for reading.
// It never creates the file or the schema: a missing file or missing
// relations yield ErrDatabaseNotFound.
func Open(dbPath string) (*SQLiteStore, error) {
	if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, dbPath)
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat database: %w", err)
	}

	db, err := open(dbPath)
	if err != nil {
		return nil, err
	}

	var found int
	err = db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN (?, ?, ?, ?, ?)",
		requiredTables[0], requiredTables[1], requiredTables[2], requiredTables[3], requiredTables[4],
	).Scan(&found)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to inspect schema: %w", err)
	}
	if found != len(requiredTables) {
		db.Close()
		return nil, fmt.Errorf("%w: %s has no dataset tables", ErrDatabaseNotFound, dbPath)
	}

	return &SQLiteStore{db: db}, nil
}

func open(dbPath string) (*sql.DB, error) {
	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Single writer; also keeps the connection-scoped pragmas in one place.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ResetSchema drops and recreates all relations.
func (s *SQLiteStore) ResetSchema(ctx context.Context) error {
	if err := resetSchema(ctx, s.db); err != nil {
		return fmt.Errorf("failed to reset schema: %w", err)
	}
	return nil
}

// money converts a stored REAL amount back to an exact cent value.
func money(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(2)
}

func parseTime(layout, value string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse time %q: %w", value, err)
	}
	return t, nil
}
