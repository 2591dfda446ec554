package sheetport

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ImportConfig contains all parameters needed for an import run.
type ImportConfig struct {
	// FolderPath is the directory containing .xlsx/.xls files to import
	FolderPath string

	// DatabaseName is the target database name (created if absent)
	DatabaseName string

	// ManagementDatabase is the database to connect to for server-level
	// operations (CREATE DATABASE). Typically "postgres".
	ManagementDatabase string

	// ConnectionString is the PostgreSQL connection string for the target.
	// After CLI resolution, this points at the TARGET database.
	ConnectionString string

	// Force bypasses interactive approval when existing tables would be replaced
	Force bool

	// SkipTableListing suppresses the post-import table report
	SkipTableListing bool

	// Verbose enables detailed logging
	Verbose bool

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Azure Entra ID authentication parameters (used when AuthMethod is AuthMethodAzureEntraID)
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// AWSRegion is the region for AWS IAM token generation (used when AuthMethod is AuthMethodAWSIAM)
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name in
	// project:region:instance form (used when AuthMethod is AuthMethodGoogleIAM)
	GoogleInstance string
}

// Validate checks if the ImportConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *ImportConfig) Validate() error {
	var errs []error

	if c.FolderPath == "" {
		errs = append(errs, fmt.Errorf("FolderPath is required: %w", ErrInvalidConfig))
	}

	if c.DatabaseName == "" {
		errs = append(errs, fmt.Errorf("DatabaseName is required: %w", ErrInvalidConfig))
	}

	if c.ConnectionString == "" {
		errs = append(errs, fmt.Errorf("ConnectionString is required: %w", ErrInvalidConfig))
	}

	if !c.AuthMethod.IsValid() {
		errs = append(errs, fmt.Errorf("unknown auth method %d: %w", c.AuthMethod, ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// Azure Entra ID authentication parameters (used when AuthMethod is AuthMethodAzureEntraID).
	// If all three are provided, Service Principal authentication is used.
	// If none are provided, DefaultAzureCredential chain is used (env vars, managed identity, CLI, etc.)
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// AWSRegion is the region for AWS IAM token generation (used when AuthMethod is AuthMethodAWSIAM)
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name in
	// project:region:instance form (used when AuthMethod is AuthMethodGoogleIAM)
	GoogleInstance string
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}

// SheetOutcome classifies the result of processing one sheet.
type SheetOutcome int

const (
	// OutcomeSucceeded means the sheet's table was created and all rows committed.
	OutcomeSucceeded SheetOutcome = iota

	// OutcomeEmpty means the sheet had no data rows (or only null rows) and was
	// skipped without touching the database.
	OutcomeEmpty

	// OutcomeFailed means the sheet errored; its transaction was rolled back
	// and no rows were persisted.
	OutcomeFailed
)

// String returns a human-readable string representation of the SheetOutcome.
func (o SheetOutcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("Unknown(%d)", int(o))
	}
}

// SheetResult records the outcome of processing a single sheet.
// Failures are values, not propagated errors: the pipeline converts per-sheet
// errors into results and continues with the next sheet.
type SheetResult struct {
	File    string       // Source file name (with extension)
	Sheet   string       // Sheet name within the workbook
	Table   string       // Sanitized target table name ("" when skipped before naming)
	Rows    int          // Rows committed (0 unless Outcome is OutcomeSucceeded)
	Fixed   int          // Rows repaired by a sheet fixer before insert
	Outcome SheetOutcome // Final classification
	Err     string       // Non-empty when Outcome is OutcomeFailed
}

// TableStat describes one resulting table for the post-import report.
type TableStat struct {
	Name    string
	Columns int
	Rows    int64
}

// ImportSummary is the final result of an import run.
type ImportSummary struct {
	// RunID uniquely identifies this run in logs and reports.
	RunID uuid.UUID

	// Files is the number of spreadsheet files discovered in the folder.
	Files int

	// Results holds one entry per processed sheet, in file → sheet order.
	Results []SheetResult

	// Tables lists the resulting tables with row counts.
	// Empty when SkipTableListing is set.
	Tables []TableStat

	// Duration is the wall-clock time of the whole run.
	Duration time.Duration
}

// Succeeded returns the number of sheets that imported completely.
func (s *ImportSummary) Succeeded() int { return s.count(OutcomeSucceeded) }

// Empty returns the number of sheets skipped for having no data.
func (s *ImportSummary) Empty() int { return s.count(OutcomeEmpty) }

// Failed returns the number of sheets that errored and were rolled back.
func (s *ImportSummary) Failed() int { return s.count(OutcomeFailed) }

func (s *ImportSummary) count(o SheetOutcome) int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == o {
			n++
		}
	}
	return n
}
