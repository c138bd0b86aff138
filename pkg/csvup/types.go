package csvup

import (
	"errors"
	"fmt"
	"time"
)

// LoadConfig contains all parameters needed for one load-and-verify run.
// It is constructed once at startup, passed into the pipeline entry point,
// and never mutated afterwards.
type LoadConfig struct {
	// CSVPath is the path to the delimited input file (header row required)
	CSVPath string

	// TableName is the destination table. Replaced in full on every run.
	TableName string

	// Delimiter is the field separator. Zero means DefaultDelimiter.
	Delimiter rune

	// ConnectionString is the PostgreSQL connection string (URI or ADO.NET
	// format) after CLI resolution.
	ConnectionString string

	// Force bypasses the interactive approval when replacing an existing table
	Force bool

	// Strict makes a row-count mismatch a non-zero exit after it is reported
	Strict bool

	// Timeout is the global timeout for the entire run
	Timeout time.Duration

	// Verbose enables detailed logging
	Verbose bool

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Azure Entra ID authentication parameters (AuthMethodAzureEntraID)
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// AWSRegion is required for AuthMethodAWSIAM
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name
	// (project:region:instance), required for AuthMethodGoogleIAM.
	GoogleInstance string
}

// Validate checks if the LoadConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *LoadConfig) Validate() error {
	var errs []error

	if c.CSVPath == "" {
		errs = append(errs, fmt.Errorf("CSVPath is required: %w", ErrInvalidConfig))
	}

	if c.TableName == "" {
		errs = append(errs, fmt.Errorf("TableName is required: %w", ErrInvalidConfig))
	}

	if c.ConnectionString == "" {
		errs = append(errs, fmt.Errorf("ConnectionString is required: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
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

	// Azure Entra ID authentication parameters (AuthMethodAzureEntraID).
	// If all three are provided, Service Principal authentication is used;
	// otherwise the DefaultAzureCredential chain applies.
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// AWSRegion is the region used to sign RDS IAM auth tokens
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name
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
