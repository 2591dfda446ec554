package db

import (
	"context"
	"time"
)

// TokenProvider abstracts cloud token acquisition for database authentication.
// The token stands in for the password when connecting to a cloud-hosted
// PostgreSQL instance.
type TokenProvider interface {
	// GetToken acquires a short-lived authentication token and its expiry.
	GetToken(ctx context.Context) (token string, expiresOn time.Time, err error)

	// String describes the provider for logging. Must not include secrets.
	String() string
}

// AzurePostgreSQLScope is the OAuth scope under which Entra ID issues tokens
// for Azure Database for PostgreSQL.
const AzurePostgreSQLScope = "https://ossrdbms-aad.database.windows.net/.default"
