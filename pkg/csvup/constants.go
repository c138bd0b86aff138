package csvup

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Load and verification completed
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or parameters
	ExitConnectionError = 11 // Failed to connect or authenticate to the database
	ExitApprovalDenied  = 12 // User denied table replace approval
	ExitSchemaError     = 13 // Column types incompatible with the destination
	ExitPermissionError = 14 // Credential lacks write/drop privileges
	ExitFileNotFound    = 15 // Input file does not exist
	ExitParseError      = 16 // Input file is not valid delimited text
	ExitQueryError      = 17 // Count query failed or returned unexpected shape
	ExitCountMismatch   = 20 // Row counts differ and --strict was set
)

const (
	// DefaultTimeout bounds the whole run. It is catastrophic failure
	// protection against hung network calls, not query-level tuning.
	DefaultTimeout = 3 * time.Minute

	// DefaultDelimiter is the field separator used when none is configured.
	DefaultDelimiter = ','

	// MaxIdentifierLength is PostgreSQL's identifier length limit in bytes.
	MaxIdentifierLength = 63
)
