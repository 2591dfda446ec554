package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rkmishra-dev/sheetport/pkg/sheetport"
)

// Pool sizing for a fully sequential importer: one working connection plus
// headroom for management queries.
const (
	defaultMaxConns        = 2
	defaultMinConns        = 1
	defaultMaxConnIdleTime = 30 * time.Minute
)

func configurePool(poolConfig *pgxpool.Config) {
	poolConfig.MaxConns = defaultMaxConns
	poolConfig.MinConns = defaultMinConns
	poolConfig.MaxConnIdleTime = defaultMaxConnIdleTime
}

// StandardConnector implements sheetport.Connector for username/password
// authentication. A failed connection is terminal: the run aborts rather than
// retrying, so errors surface immediately with guidance.
type StandardConnector struct {
	config *sheetport.ConnectionConfig
}

// NewStandardConnector creates a StandardConnector with the given configuration.
func NewStandardConnector(config *sheetport.ConnectionConfig) *StandardConnector {
	return &StandardConnector{config: config}
}

// Connect establishes and pings a connection pool.
func (c *StandardConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(BuildConnectionString(c.config))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}

	configurePool(poolConfig)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, wrapConnectionError(err, c.config)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, wrapConnectionError(err, c.config)
	}

	return pool, nil
}

// NewConnector creates the Connector matching the config's AuthMethod.
func NewConnector(config *sheetport.ConnectionConfig) (sheetport.Connector, error) {
	switch config.AuthMethod {
	case sheetport.AuthMethodStandard:
		return NewStandardConnector(config), nil
	case sheetport.AuthMethodAWSIAM:
		return newAWSConnector(config)
	case sheetport.AuthMethodGoogleIAM:
		return newGoogleConnector(config)
	case sheetport.AuthMethodAzureEntraID:
		return newAzureConnector(config)
	default:
		return nil, fmt.Errorf("auth method %v: %w", config.AuthMethod, sheetport.ErrUnsupportedAuthMethod)
	}
}

// wrapConnectionError turns raw pgx errors into sheetport.ErrConnectionFailed
// with actionable guidance.
func wrapConnectionError(err error, config *sheetport.ConnectionConfig) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf(`%w: connection refused to %s

Possible causes:
  - PostgreSQL is not running (check: pg_isready -h %s -p %d)
  - Wrong host or port
  - Firewall blocking the connection

Original error: %w`, sheetport.ErrConnectionFailed, addr, config.Host, config.Port, err)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		return fmt.Errorf(`%w: cannot resolve host %q

Possible causes:
  - Hostname is misspelled
  - DNS is not configured or reachable

Original error: %w`, sheetport.ErrConnectionFailed, config.Host, err)

	case strings.Contains(errStr, "password authentication failed"):
		return fmt.Errorf(`%w: password authentication failed for database %q

Possible causes:
  - Wrong password (check $PGPASSWORD or ~/.pgpass)
  - Wrong username
  - User does not have access to the database

Original error: %w`, sheetport.ErrConnectionFailed, config.Database, err)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		return fmt.Errorf(`%w: connection timed out to %s

Possible causes:
  - Server is overloaded or unresponsive
  - Firewall silently dropping packets
  - Wrong host/port (server not listening)

Original error: %w`, sheetport.ErrConnectionFailed, addr, err)

	case strings.Contains(errStr, "ssl") || strings.Contains(errStr, "tls"):
		return fmt.Errorf(`%w: SSL/TLS negotiation failed

Possible causes:
  - Server requires SSL but sslmode is wrong (try sslmode=require)
  - Certificate verification failed

Original error: %w`, sheetport.ErrConnectionFailed, err)

	default:
		return fmt.Errorf("%w: %w", sheetport.ErrConnectionFailed, err)
	}
}

// newAWSConnector wires the AWS RDS IAM token provider into a token-based
// connector.
func newAWSConnector(config *sheetport.ConnectionConfig) (sheetport.Connector, error) {
	endpoint := fmt.Sprintf("%s:%d", config.Host, config.Port)

	tokenProvider, err := NewAWSIAMTokenProvider(endpoint, config.AWSRegion, config.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS IAM token provider: %w", err)
	}

	return NewTokenBasedConnector(config, tokenProvider, "AWS IAM"), nil
}

func newGoogleConnector(config *sheetport.ConnectionConfig) (sheetport.Connector, error) {
	if config.GoogleInstance == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires an instance connection name (project:region:instance)")
	}
	if config.Username == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires a username")
	}

	return NewGoogleCloudSQLConnector(config, config.GoogleInstance), nil
}

// newAzureConnector prefers explicit Service Principal credentials and falls
// back to the DefaultAzureCredential chain.
func newAzureConnector(config *sheetport.ConnectionConfig) (sheetport.Connector, error) {
	var tokenProvider TokenProvider
	var err error

	if config.AzureTenantID != "" && config.AzureClientID != "" && config.AzureClientSecret != "" {
		tokenProvider, err = NewAzureServicePrincipalProvider(
			config.AzureTenantID, config.AzureClientID, config.AzureClientSecret)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure Service Principal provider: %w", err)
		}
	} else {
		tokenProvider, err = NewAzureDefaultCredentialProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure Default Credential provider: %w", err)
		}
	}

	return NewTokenBasedConnector(config, tokenProvider, "Azure"), nil
}
