package csvup

import (
	"errors"
	"strings"
)

// Sentinel errors for the failure taxonomy. Every stage wraps its failures
// with exactly one of these so callers can classify with errors.Is().
//
// Example usage:
//
//	report, err := service.Run(ctx, config)
//	if errors.Is(err, csvup.ErrPermission) {
//	    // Credential cannot write to the destination
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrFileNotFound indicates the input file does not exist.
	ErrFileNotFound = errors.New("input file not found")

	// ErrParse indicates the input file is not valid delimited text.
	ErrParse = errors.New("input file parse failed")

	// ErrConnection indicates the store is unreachable or the credential
	// failed to authenticate.
	ErrConnection = errors.New("connection failed")

	// ErrSchema indicates the derived column types are incompatible with
	// the destination's type system.
	ErrSchema = errors.New("schema incompatible")

	// ErrPermission indicates the credential lacks write or drop privileges.
	ErrPermission = errors.New("insufficient privilege")

	// ErrQuery indicates the count query could not be executed or did not
	// return exactly one scalar value.
	ErrQuery = errors.New("count query failed")

	// ErrApprovalDenied indicates the user denied the table replace prompt.
	ErrApprovalDenied = errors.New("approval denied")

	// ErrCountMismatch indicates the row counts differ. It is only returned
	// in strict mode; a mismatch is otherwise reported, not raised.
	ErrCountMismatch = errors.New("row counts do not match")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrFileNotFound):
		return ExitFileNotFound
	case errors.Is(err, ErrParse):
		return ExitParseError
	case errors.Is(err, ErrApprovalDenied):
		return ExitApprovalDenied
	case errors.Is(err, ErrPermission):
		return ExitPermissionError
	case errors.Is(err, ErrSchema):
		return ExitSchemaError
	case errors.Is(err, ErrQuery):
		return ExitQueryError
	case errors.Is(err, ErrConnection):
		return ExitConnectionError
	case errors.Is(err, ErrCountMismatch):
		return ExitCountMismatch
	}

	// Connection failures from lower layers do not always carry the
	// sentinel; recognize the common pgx message patterns.
	errStr := err.Error()
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
