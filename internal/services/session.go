package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rkmishra-dev/sheetport/internal/db"
	"github.com/rkmishra-dev/sheetport/internal/db/manager"
	"github.com/rkmishra-dev/sheetport/pkg/sheetport"
)

// SessionManager prepares the import session: it creates the target database
// if absent, bootstraps the collation, connects, and acquires the single
// connection the whole run uses.
//
// Thread-safe as long as the injected dependencies are.
type SessionManager struct {
	connectorFactory func(*sheetport.ConnectionConfig) (sheetport.Connector, error)
	dbManager        sheetport.DatabaseManager
	logger           sheetport.Logger
}

// NewSessionManager creates a SessionManager with all dependencies injected.
//
// Panics if any dependency is nil. Fail-fast on wiring mistakes beats a nil
// dereference halfway through a run.
func NewSessionManager(
	connectorFactory func(*sheetport.ConnectionConfig) (sheetport.Connector, error),
	dbManager sheetport.DatabaseManager,
	logger sheetport.Logger,
) *SessionManager {
	if connectorFactory == nil {
		panic("connectorFactory cannot be nil")
	}
	if dbManager == nil {
		panic("dbManager cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &SessionManager{
		connectorFactory: connectorFactory,
		dbManager:        dbManager,
		logger:           logger,
	}
}

// PrepareSession ensures the target database exists, connects to it, prepares
// the collation, and acquires the run's connection.
//
// The caller owns the returned session: defer session.Close().
func (sm *SessionManager) PrepareSession(ctx context.Context, config sheetport.ImportConfig) (*sheetport.Session, error) {
	connConfig, err := db.ParseConnectionString(config.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sheetport.ErrInvalidConfig, err)
	}
	connConfig.AuthMethod = config.AuthMethod
	connConfig.AzureTenantID = config.AzureTenantID
	connConfig.AzureClientID = config.AzureClientID
	connConfig.AzureClientSecret = config.AzureClientSecret
	connConfig.AWSRegion = config.AWSRegion
	connConfig.GoogleInstance = config.GoogleInstance

	if err := sm.ensureDatabase(ctx, connConfig, config); err != nil {
		return nil, err
	}

	pool, err := sm.connect(ctx, connConfig, config.DatabaseName)
	if err != nil {
		return nil, err
	}

	if err := manager.EnsureCollation(ctx, db.NewPoolAdapter(pool)); err != nil {
		pool.Close()
		return nil, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}

	return sheetport.NewSession(pool, conn), nil
}

// ensureDatabase connects to the management database, reports the server
// version, and creates the target database when it does not exist yet.
func (sm *SessionManager) ensureDatabase(ctx context.Context, connConfig *sheetport.ConnectionConfig, config sheetport.ImportConfig) error {
	mgmtDB := config.ManagementDatabase
	if mgmtDB == "" {
		mgmtDB = sheetport.DefaultManagementDB
	}

	pool, err := sm.connect(ctx, connConfig, mgmtDB)
	if err != nil {
		return err
	}
	defer pool.Close()

	adapter := db.NewPoolAdapter(pool)

	if version, err := sm.dbManager.ServerVersion(ctx, adapter); err == nil {
		sm.logger.Info("Connected to %s", version)
	} else {
		sm.logger.Verbose("Could not read server version: %v", err)
	}

	exists, err := sm.dbManager.Exists(ctx, adapter, config.DatabaseName)
	if err != nil {
		return err
	}
	if exists {
		sm.logger.Verbose("Database %q already exists", config.DatabaseName)
		return nil
	}

	if err := sm.dbManager.Create(ctx, adapter, config.DatabaseName); err != nil {
		return err
	}
	sm.logger.Info("✓ Created database %q", config.DatabaseName)
	return nil
}

func (sm *SessionManager) connect(ctx context.Context, connConfig *sheetport.ConnectionConfig, database string) (*pgxpool.Pool, error) {
	target := *connConfig
	target.Database = database

	sm.logger.Verbose("Connecting to database %q on %s:%d", database, target.Host, target.Port)

	connector, err := sm.connectorFactory(&target)
	if err != nil {
		return nil, fmt.Errorf("failed to create connector: %w", err)
	}

	pool, err := connector.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %q: %w", database, err)
	}
	return pool, nil
}

var _ sheetport.SessionPreparer = (*SessionManager)(nil)
