package sheetport

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess      = 0 // Import completed, or run cancelled by the user
	ExitGeneralError = 1 // Unknown or unclassified error
	ExitUsageError   = 2 // CLI usage error (missing args, invalid flags)
	ExitPanic        = 3 // Internal panic (unexpected crash)

	// ExitConnectionError shares the general error code: an unreachable
	// database has always terminated the run with status 1.
	ExitConnectionError = 1

	ExitConfigError    = 10 // Invalid configuration or parameters
	ExitApprovalDenied = 12 // User denied table-overwrite approval
)

// Connection defaults. Host, user, database, and folder mirror the defaults
// the tool has always prompted with.
const (
	DefaultHost     = "localhost"
	DefaultPort     = 5432
	DefaultUser     = "root"
	DefaultDatabase = "hospital_db"
	DefaultFolder   = "dataset"

	// DefaultManagementDB is the database to connect to for server-level
	// operations (CREATE DATABASE). The target database may not exist yet.
	DefaultManagementDB = "postgres"
)

const (
	// MaxIdentifierLength caps sanitized table and column names.
	MaxIdentifierLength = 64

	// CollationName is the per-database ICU collation applied to TEXT columns.
	// It is nondeterministic (case- and accent-insensitive comparison).
	CollationName = "sheetport_ci"

	// PrimaryKeyColumn is the synthetic auto-incrementing key prepended to
	// every imported table.
	PrimaryKeyColumn = "id"
)

// Storage formats for Timestamp columns.
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05"
	DateTimeLayout = "2006-01-02 15:04:05"
)
