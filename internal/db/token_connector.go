package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rkmishra-dev/sheetport/pkg/sheetport"
)

// TokenBasedConnector implements sheetport.Connector for providers that
// authenticate with short-lived tokens (AWS IAM, Azure Entra ID). The token
// from the TokenProvider is used as the PostgreSQL password.
type TokenBasedConnector struct {
	config        *sheetport.ConnectionConfig
	tokenProvider TokenProvider
	providerName  string
}

// NewTokenBasedConnector creates a token-authenticated connector.
// providerName appears in error and warning messages.
func NewTokenBasedConnector(config *sheetport.ConnectionConfig, tokenProvider TokenProvider, providerName string) *TokenBasedConnector {
	return &TokenBasedConnector{
		config:        config,
		tokenProvider: tokenProvider,
		providerName:  providerName,
	}
}

// Connect acquires a token, then establishes and pings a connection pool.
func (c *TokenBasedConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	token, expiresOn, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire %s token: %w", c.providerName, err)
	}

	// The importer holds one connection for the whole run; a token about to
	// expire is worth flagging before hours of inserts start.
	if remaining := time.Until(expiresOn); remaining < 5*time.Minute {
		fmt.Fprintf(os.Stderr, "Warning: %s token expires in %v\n", c.providerName, remaining.Round(time.Second))
	}

	configWithToken := *c.config
	configWithToken.Password = token

	poolConfig, err := pgxpool.ParseConfig(BuildConnectionString(&configWithToken))
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
