package cli

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/vvka-141/csvup/internal/config"
	"github.com/vvka-141/csvup/internal/db"
	"github.com/vvka-141/csvup/pkg/csvup"
)

// connectionStringFromEnv returns the first non-empty connection string from
// CSVUP_CONNECTION_STRING or DATABASE_URL environment variables.
func connectionStringFromEnv() string {
	if s := os.Getenv("CSVUP_CONNECTION_STRING"); s != "" {
		return s
	}
	return os.Getenv("DATABASE_URL")
}

// resolveConnection consolidates connection resolution: connection string
// flag, granular flags, cloud IAM flags, environment variables, and
// csvup.yaml, in that precedence order.
//
// When the resolved configuration uses standard authentication and still has
// no password, ~/.pgpass is consulted, then an interactive prompt if stdin
// is a terminal.
func resolveConnection(
	connStringFlag string,
	granularFlags *db.GranularConnFlags,
	cloudFlags *db.CloudFlags,
	projectConfig *config.ProjectConfig,
) (*csvup.ConnectionConfig, error) {
	connString := connStringFlag
	if connString == "" {
		connString = connectionStringFromEnv()
	}

	envVars := db.LoadFromEnvironment()

	connConfig, err := db.ResolveConnectionParams(
		connString,
		granularFlags,
		cloudFlags,
		envVars,
		projectConfig,
	)
	if err != nil {
		return nil, err
	}

	if connConfig.AuthMethod == csvup.AuthMethodStandard && connConfig.Password == "" {
		if password := lookupPgpassPassword(connConfig); password != "" {
			connConfig.Password = password
		} else if password, err := promptPassword(connConfig.Username); err == nil {
			connConfig.Password = password
		}
	}

	return connConfig, nil
}

// promptPassword reads a password from the terminal without echo.
// Returns an error when stdin is not a terminal (CI pipelines, pipes).
func promptPassword(username string) (string, error) {
	fd := int(syscall.Stdin)
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("stdin is not a terminal")
	}

	fmt.Fprintf(os.Stderr, "Password for user %s: ", username)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}
