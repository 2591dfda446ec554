package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rkmishra-dev/sheetport/internal/config"
	"github.com/rkmishra-dev/sheetport/pkg/sheetport"
)

// GranularConnFlags represents connection parameters from CLI flags.
// These follow PostgreSQL standard flag conventions (-H, -p, -U, -d).
//
// Note: Password is NOT included as a CLI flag for security reasons.
// Use one of these methods instead:
//  1. $PGPASSWORD environment variable
//  2. Connection string with embedded password
type GranularConnFlags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string
}

// IsEmpty returns true if no connection-related granular flags were provided.
// The database flag is excluded because it can override the database from a
// connection string.
func (g *GranularConnFlags) IsEmpty() bool {
	return g == nil || (g.Host == "" && g.Port == 0 && g.Username == "" && g.SSLMode == "")
}

// AzureFlags represents Azure Entra ID CLI flags.
// These override the corresponding AZURE_* environment variables.
// Note: Client secret is NOT included as a CLI flag for security reasons.
// Use the AZURE_CLIENT_SECRET environment variable instead.
type AzureFlags struct {
	Enabled  bool   // --azure
	TenantID string // Overrides AZURE_TENANT_ID
	ClientID string // Overrides AZURE_CLIENT_ID
}

// IsEmpty returns true if no Azure flags were provided.
func (a *AzureFlags) IsEmpty() bool {
	return a == nil || (!a.Enabled && a.TenantID == "" && a.ClientID == "")
}

// AWSFlags represents AWS IAM authentication CLI flags.
type AWSFlags struct {
	Region string // --aws-region, enables AWS IAM auth when set
}

// GoogleFlags represents Google Cloud SQL IAM CLI flags.
type GoogleFlags struct {
	Instance string // --google-instance in project:region:instance form
}

// EnvVars represents PostgreSQL standard environment variables.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	PGHOST       string
	PGPORT       string
	PGUSER       string
	PGPASSWORD   string
	PGDATABASE   string
	PGSSLMODE    string
	DATABASE_URL string // Full connection string (Heroku/Rails convention)

	// Azure Entra ID environment variables (Azure SDK standard names)
	AZURE_TENANT_ID     string
	AZURE_CLIENT_ID     string
	AZURE_CLIENT_SECRET string
}

// LoadFromEnvironment loads PostgreSQL and cloud provider environment variables.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		PGHOST:              os.Getenv("PGHOST"),
		PGPORT:              os.Getenv("PGPORT"),
		PGUSER:              os.Getenv("PGUSER"),
		PGPASSWORD:          os.Getenv("PGPASSWORD"),
		PGDATABASE:          os.Getenv("PGDATABASE"),
		PGSSLMODE:           os.Getenv("PGSSLMODE"),
		DATABASE_URL:        os.Getenv("DATABASE_URL"),
		AZURE_TENANT_ID:     os.Getenv("AZURE_TENANT_ID"),
		AZURE_CLIENT_ID:     os.Getenv("AZURE_CLIENT_ID"),
		AZURE_CLIENT_SECRET: os.Getenv("AZURE_CLIENT_SECRET"),
	}
}

// HasConnectionSource returns true if the environment alone provides enough
// information to connect without the interactive wizard.
func (e *EnvVars) HasConnectionSource() bool {
	return e.DATABASE_URL != "" || e.PGHOST != ""
}

// ResolveConnectionParams resolves connection parameters with this precedence:
//
//  1. Connection string flag (--connection), parsed and used directly
//  2. Granular flags (-H, -p, -U, -d)
//  3. Environment variables (PGHOST, PGPORT, DATABASE_URL, ...)
//  4. sheetport.yaml connection section
//  5. Defaults (localhost:5432, user root, database hospital_db, prefer SSL)
//
// Cloud authentication: Azure flags/env switch AuthMethod to Azure Entra ID,
// --aws-region to AWS IAM, and --google-instance to Cloud SQL IAM. At most one
// may be active.
//
// Returns the resolved config plus the management database name used for
// CREATE DATABASE operations.
func ResolveConnectionParams(
	connStringFlag string,
	granularFlags *GranularConnFlags,
	azureFlags *AzureFlags,
	awsFlags *AWSFlags,
	googleFlags *GoogleFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*sheetport.ConnectionConfig, string, error) {
	if granularFlags == nil {
		granularFlags = &GranularConnFlags{}
	}
	if azureFlags == nil {
		azureFlags = &AzureFlags{}
	}
	if awsFlags == nil {
		awsFlags = &AWSFlags{}
	}
	if googleFlags == nil {
		googleFlags = &GoogleFlags{}
	}
	if envVars == nil {
		envVars = &EnvVars{}
	}

	// Connection string XOR granular flags: both at once is ambiguous.
	if connStringFlag != "" && !granularFlags.IsEmpty() {
		return nil, "", fmt.Errorf(
			"cannot specify both --connection and granular flags (--host, --port, --username)\n" +
				"Choose one approach:\n" +
				"  1. Connection string: --connection \"postgresql://user@localhost:5432/hospital_db\"\n" +
				"  2. Granular flags: --host localhost --port 5432 --username root --database hospital_db\n" +
				"  3. Environment variables: export PGHOST=localhost PGUSER=root PGDATABASE=hospital_db",
		)
	}

	var cfg *sheetport.ConnectionConfig
	var managementDB string
	var err error

	switch {
	case connStringFlag != "":
		cfg, managementDB, err = resolveFromConnectionString(connStringFlag, envVars)
	case granularFlags.IsEmpty() && envVars.DATABASE_URL != "":
		cfg, managementDB, err = resolveFromConnectionString(envVars.DATABASE_URL, envVars)
	default:
		cfg, managementDB, err = resolveFromGranularParams(granularFlags, envVars, projectConfig)
	}
	if err != nil {
		return nil, "", err
	}

	if err := applyCloudAuth(cfg, azureFlags, awsFlags, googleFlags, envVars, projectConfig); err != nil {
		return nil, "", err
	}

	return cfg, managementDB, nil
}

// applyCloudAuth sets the authentication method when cloud flags or environment
// variables select one. CLI flags take precedence over environment variables,
// which take precedence over sheetport.yaml.
func applyCloudAuth(
	cfg *sheetport.ConnectionConfig,
	azure *AzureFlags,
	aws *AWSFlags,
	google *GoogleFlags,
	env *EnvVars,
	projectConfig *config.ProjectConfig,
) error {
	var pc config.ConnectionConfig
	if projectConfig != nil {
		pc = projectConfig.Connection
	}

	awsRegion := aws.Region
	if awsRegion == "" {
		awsRegion = pc.AWSRegion
	}
	googleInstance := google.Instance
	if googleInstance == "" {
		googleInstance = pc.GoogleInstance
	}

	tenantID := azure.TenantID
	if tenantID == "" {
		tenantID = env.AZURE_TENANT_ID
	}
	if tenantID == "" {
		tenantID = pc.AzureTenantID
	}
	clientID := azure.ClientID
	if clientID == "" {
		clientID = env.AZURE_CLIENT_ID
	}
	if clientID == "" {
		clientID = pc.AzureClientID
	}
	azureActive := azure.Enabled || tenantID != "" || clientID != ""

	active := 0
	for _, on := range []bool{azureActive, awsRegion != "", googleInstance != ""} {
		if on {
			active++
		}
	}
	if active > 1 {
		return fmt.Errorf("conflicting authentication methods: choose one of --azure, --aws-region, --google-instance")
	}

	switch {
	case azureActive:
		cfg.AuthMethod = sheetport.AuthMethodAzureEntraID
		cfg.AzureTenantID = tenantID
		cfg.AzureClientID = clientID
		// Client secret only comes from the environment (no flag for security)
		cfg.AzureClientSecret = env.AZURE_CLIENT_SECRET
	case awsRegion != "":
		cfg.AuthMethod = sheetport.AuthMethodAWSIAM
		cfg.AWSRegion = awsRegion
	case googleInstance != "":
		cfg.AuthMethod = sheetport.AuthMethodGoogleIAM
		cfg.GoogleInstance = googleInstance
	}
	return nil
}

// resolveFromConnectionString parses a connection string. The database inside
// the string doubles as the management database; the import target still comes
// from --database.
func resolveFromConnectionString(connStr string, envVars *EnvVars) (*sheetport.ConnectionConfig, string, error) {
	cfg, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, "", fmt.Errorf("invalid connection string: %w", err)
	}

	// Environment variables are fallbacks for parameters the string omits,
	// following libpq behavior.
	if cfg.SSLMode == "" && envVars != nil && envVars.PGSSLMODE != "" {
		cfg.SSLMode = envVars.PGSSLMODE
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "prefer"
	}

	managementDB := cfg.Database
	if managementDB == "" {
		managementDB = sheetport.DefaultManagementDB
	}

	return cfg, managementDB, nil
}

// resolveFromGranularParams builds a ConnectionConfig from flags, environment
// variables, and sheetport.yaml with flag > env > yaml > default precedence.
func resolveFromGranularParams(
	flags *GranularConnFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*sheetport.ConnectionConfig, string, error) {
	cfg := &sheetport.ConnectionConfig{
		AuthMethod:       sheetport.AuthMethodStandard,
		AdditionalParams: make(map[string]string),
	}

	var pc config.ConnectionConfig
	if projectConfig != nil {
		pc = projectConfig.Connection
	}

	cfg.Host = flags.Host
	if cfg.Host == "" {
		cfg.Host = envVars.PGHOST
	}
	if cfg.Host == "" {
		cfg.Host = pc.Host
	}
	if cfg.Host == "" {
		cfg.Host = sheetport.DefaultHost
	}

	if flags.Port != 0 {
		cfg.Port = flags.Port
	} else if envVars.PGPORT != "" {
		port, err := strconv.Atoi(envVars.PGPORT)
		if err != nil {
			return nil, "", fmt.Errorf("invalid $PGPORT value '%s': must be an integer", envVars.PGPORT)
		}
		cfg.Port = port
	} else if pc.Port != 0 {
		cfg.Port = pc.Port
	} else {
		cfg.Port = sheetport.DefaultPort
	}

	cfg.Username = flags.Username
	if cfg.Username == "" {
		cfg.Username = envVars.PGUSER
	}
	if cfg.Username == "" {
		cfg.Username = pc.Username
	}
	if cfg.Username == "" {
		cfg.Username = sheetport.DefaultUser
	}

	cfg.Password = envVars.PGPASSWORD

	cfg.Database = flags.Database
	if cfg.Database == "" {
		cfg.Database = envVars.PGDATABASE
	}
	if cfg.Database == "" {
		cfg.Database = pc.Database
	}
	if cfg.Database == "" {
		cfg.Database = sheetport.DefaultDatabase
	}

	cfg.SSLMode = flags.SSLMode
	if cfg.SSLMode == "" {
		cfg.SSLMode = envVars.PGSSLMODE
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = pc.SSLMode
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "prefer"
	}

	managementDB := pc.ManagementDatabase
	if managementDB == "" {
		managementDB = sheetport.DefaultManagementDB
	}

	return cfg, managementDB, nil
}
