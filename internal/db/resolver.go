package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vvka-141/csvup/internal/config"
	"github.com/vvka-141/csvup/pkg/csvup"
)

// GranularConnFlags represents connection parameters from CLI flags.
// These follow PostgreSQL standard flag conventions (-H, -p, -U, -d).
//
// Note: Password is NOT included as a CLI flag for security reasons.
// Use one of these methods instead:
//  1. $PGPASSWORD environment variable
//  2. Connection string with embedded password
//  3. The interactive prompt on a terminal
type GranularConnFlags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string
}

// IsEmpty returns true if no connection-related granular flags were provided.
// Database is excluded because it may override the database named in a
// connection string.
func (g *GranularConnFlags) IsEmpty() bool {
	return g.Host == "" && g.Port == 0 && g.Username == "" && g.SSLMode == ""
}

// CloudFlags represents cloud IAM authentication CLI flags.
// Secrets are never CLI flags; AZURE_CLIENT_SECRET comes from the environment.
type CloudFlags struct {
	Azure          bool   // Enable Azure Entra ID authentication
	AzureTenantID  string // Overrides AZURE_TENANT_ID
	AzureClientID  string // Overrides AZURE_CLIENT_ID
	AWSIAM         bool   // Enable AWS RDS IAM authentication
	AWSRegion      string // Overrides AWS_REGION
	GoogleInstance string // Cloud SQL instance name; implies Google IAM auth
}

// IsEmpty returns true if no cloud auth flags were provided.
func (c *CloudFlags) IsEmpty() bool {
	return c == nil || (!c.Azure && !c.AWSIAM && c.GoogleInstance == "" &&
		c.AzureTenantID == "" && c.AzureClientID == "" && c.AWSRegion == "")
}

// EnvVars represents the PostgreSQL standard environment variables plus the
// cloud SDK conventions the connectors understand.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	PGHOST       string
	PGPORT       string
	PGUSER       string
	PGPASSWORD   string
	PGDATABASE   string
	PGSSLMODE    string
	DATABASE_URL string // Full connection string (Heroku/Neon convention)

	AZURE_TENANT_ID     string
	AZURE_CLIENT_ID     string
	AZURE_CLIENT_SECRET string
	AWS_REGION          string
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
		AWS_REGION:          os.Getenv("AWS_REGION"),
	}
}

// ResolveConnectionParams resolves connection parameters using
// PostgreSQL-standard precedence:
//
//  1. Connection string flag (--connection) — if provided, parse and use directly
//  2. Granular flags (-H, -p, -U, -d) — if any provided, build config from flags
//  3. DATABASE_URL environment variable — if no granular params
//  4. Environment variables (PGHOST, PGPORT, ...) and csvup.yaml
//  5. Defaults (localhost:5432, prefer SSL)
//
// Cloud IAM auth is applied on top: --google-instance selects Google IAM,
// --aws-iam selects AWS RDS IAM, and --azure (or the presence of AZURE_*
// environment variables) selects Azure Entra ID.
//
// Returns an error if BOTH --connection and granular flags are provided.
func ResolveConnectionParams(
	connStringFlag string,
	granularFlags *GranularConnFlags,
	cloudFlags *CloudFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*csvup.ConnectionConfig, error) {
	if granularFlags == nil {
		granularFlags = &GranularConnFlags{}
	}
	if cloudFlags == nil {
		cloudFlags = &CloudFlags{}
	}
	if envVars == nil {
		envVars = &EnvVars{}
	}

	if connStringFlag != "" && !granularFlags.IsEmpty() {
		return nil, fmt.Errorf(
			"cannot specify both --connection and granular flags (-H, -p, -U)\n"+
				"Choose one approach:\n"+
				"  1. Connection string: --connection \"postgresql://user@localhost:5432/mydb\"\n"+
				"  2. Granular flags: -H localhost -p 5432 -U myuser -d mydb\n"+
				"  3. Environment: export DATABASE_URL=postgresql://...: %w", csvup.ErrInvalidConfig,
		)
	}

	var connConfig *csvup.ConnectionConfig
	var err error

	switch {
	case connStringFlag != "":
		connConfig, err = resolveFromConnectionString(connStringFlag, envVars)
	case granularFlags.IsEmpty() && envVars.DATABASE_URL != "":
		connConfig, err = resolveFromConnectionString(envVars.DATABASE_URL, envVars)
	default:
		connConfig, err = resolveFromGranularParams(granularFlags, envVars, projectConfig)
	}
	if err != nil {
		return nil, err
	}

	if err := applyCloudAuth(connConfig, cloudFlags, envVars); err != nil {
		return nil, err
	}

	return connConfig, nil
}

// applyCloudAuth switches the auth method when cloud flags or Azure
// environment credentials are present. Flags win over environment values.
func applyCloudAuth(cfg *csvup.ConnectionConfig, flags *CloudFlags, env *EnvVars) error {
	tenantID := flags.AzureTenantID
	if tenantID == "" {
		tenantID = env.AZURE_TENANT_ID
	}
	clientID := flags.AzureClientID
	if clientID == "" {
		clientID = env.AZURE_CLIENT_ID
	}
	region := flags.AWSRegion
	if region == "" {
		region = env.AWS_REGION
	}

	azureRequested := flags.Azure || tenantID != "" || clientID != ""

	selected := 0
	if flags.GoogleInstance != "" {
		selected++
	}
	if flags.AWSIAM {
		selected++
	}
	if flags.Azure {
		selected++
	}
	if selected > 1 {
		return fmt.Errorf("at most one of --google-instance, --aws-iam, --azure may be set: %w", csvup.ErrInvalidConfig)
	}

	switch {
	case flags.GoogleInstance != "":
		cfg.AuthMethod = csvup.AuthMethodGoogleIAM
		cfg.GoogleInstance = flags.GoogleInstance
	case flags.AWSIAM:
		cfg.AuthMethod = csvup.AuthMethodAWSIAM
		cfg.AWSRegion = region
	case azureRequested:
		cfg.AuthMethod = csvup.AuthMethodAzureEntraID
		cfg.AzureTenantID = tenantID
		cfg.AzureClientID = clientID
		cfg.AzureClientSecret = env.AZURE_CLIENT_SECRET
	}

	return nil
}

// resolveFromConnectionString parses a connection string, applying
// environment fallbacks for parameters it does not carry.
func resolveFromConnectionString(connStr string, envVars *EnvVars) (*csvup.ConnectionConfig, error) {
	connConfig, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w", err)
	}

	// libpq behavior: environment variables back-fill what the string omits.
	if connConfig.SSLMode == "" && envVars != nil && envVars.PGSSLMODE != "" {
		connConfig.SSLMode = envVars.PGSSLMODE
	}
	if connConfig.SSLMode == "" {
		connConfig.SSLMode = "prefer"
	}
	if connConfig.Password == "" && envVars != nil && envVars.PGPASSWORD != "" {
		connConfig.Password = envVars.PGPASSWORD
	}

	return connConfig, nil
}

// resolveFromGranularParams builds a ConnectionConfig from granular flags,
// environment variables, and csvup.yaml, in that precedence order.
func resolveFromGranularParams(
	flags *GranularConnFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*csvup.ConnectionConfig, error) {
	cfg := &csvup.ConnectionConfig{
		AuthMethod:       csvup.AuthMethodStandard,
		AdditionalParams: make(map[string]string),
	}

	var pc config.ConnectionConfig
	if projectConfig != nil {
		pc = projectConfig.Connection
	}

	// Host: flag > PGHOST > csvup.yaml > default
	cfg.Host = firstNonEmpty(flags.Host, envVars.PGHOST, pc.Host, "localhost")

	// Port: flag > PGPORT > csvup.yaml > default
	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case envVars.PGPORT != "":
		port, err := strconv.Atoi(envVars.PGPORT)
		if err != nil {
			return nil, fmt.Errorf("invalid $PGPORT value %q: must be an integer: %w", envVars.PGPORT, csvup.ErrInvalidConfig)
		}
		cfg.Port = port
	case pc.Port != 0:
		cfg.Port = pc.Port
	default:
		cfg.Port = 5432
	}

	// Username: flag > PGUSER > csvup.yaml > current OS user
	cfg.Username = firstNonEmpty(flags.Username, envVars.PGUSER, pc.Username,
		os.Getenv("USER"), os.Getenv("USERNAME"))

	cfg.Password = envVars.PGPASSWORD

	// Database: flag > PGDATABASE > csvup.yaml
	cfg.Database = firstNonEmpty(flags.Database, envVars.PGDATABASE, pc.Database)

	// SSLMode: flag > PGSSLMODE > csvup.yaml > default
	cfg.SSLMode = firstNonEmpty(flags.SSLMode, envVars.PGSSLMODE, pc.SSLMode, "prefer")

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
