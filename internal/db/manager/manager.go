package manager

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rkmishra-dev/sheetport/pkg/sheetport"
)

const (
	queryDatabaseExists = "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)"
	queryServerVersion  = "SELECT version()"
)

// Manager implements sheetport.DatabaseManager. Stateless; thread safety
// depends on the injected DBConnection.
type Manager struct{}

// New creates a DatabaseManager.
func New() sheetport.DatabaseManager {
	return &Manager{}
}

// Exists checks if a database exists.
func (m *Manager) Exists(ctx context.Context, conn sheetport.DBConnection, dbName string) (bool, error) {
	var exists bool
	if err := conn.QueryRow(ctx, queryDatabaseExists, dbName).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check database existence: %w", err)
	}
	return exists, nil
}

// Create creates a new database. CREATE DATABASE cannot run inside a
// transaction, so it needs a dedicated connection rather than pool Exec.
func (m *Manager) Create(ctx context.Context, conn sheetport.DBConnection, dbName string) error {
	pooledConn, err := conn.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer pooledConn.Release()

	query := fmt.Sprintf("CREATE DATABASE %s", pgx.Identifier{dbName}.Sanitize())
	if _, err := pooledConn.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create database %q: %w", dbName, err)
	}
	return nil
}

// ServerVersion reports the server version string for the connect banner.
func (m *Manager) ServerVersion(ctx context.Context, conn sheetport.DBConnection) (string, error) {
	var version string
	if err := conn.QueryRow(ctx, queryServerVersion).Scan(&version); err != nil {
		return "", fmt.Errorf("failed to query server version: %w", err)
	}
	return version, nil
}

// EnsureCollation creates the case/accent-insensitive ICU collation used by
// imported TEXT columns, if the target database does not have it yet. Must run
// against the target database, not the management database; collations are
// per-database objects.
func EnsureCollation(ctx context.Context, conn sheetport.DBConnection) error {
	query := fmt.Sprintf(
		`CREATE COLLATION IF NOT EXISTS %s (provider = icu, locale = 'und-u-ks-level1', deterministic = false)`,
		pgx.Identifier{sheetport.CollationName}.Sanitize())

	if _, err := conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create collation %q: %w", sheetport.CollationName, err)
	}
	return nil
}

var _ sheetport.DatabaseManager = (*Manager)(nil)
