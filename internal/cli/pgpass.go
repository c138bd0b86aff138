package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/vvka-141/csvup/pkg/csvup"
)

// pgpassPath returns the platform-appropriate .pgpass file path.
func pgpassPath() string {
	if custom := os.Getenv("PGPASSFILE"); custom != "" {
		return custom
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "postgresql", "pgpass.conf")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pgpass")
}

// lookupPgpassPassword returns the password for cfg from the .pgpass file,
// following libpq matching rules: each line is host:port:database:username:
// password, a field of * matches anything, and the first matching line wins.
// Returns "" when the file is missing or no line matches.
func lookupPgpassPassword(cfg *csvup.ConnectionConfig) string {
	path := pgpassPath()
	if path == "" {
		return ""
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	port := fmt.Sprintf("%d", cfg.Port)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := splitPgpassLine(line)
		if len(fields) != 5 {
			continue
		}

		if matchPgpassField(fields[0], cfg.Host) &&
			matchPgpassField(fields[1], port) &&
			matchPgpassField(fields[2], cfg.Database) &&
			matchPgpassField(fields[3], cfg.Username) {
			return fields[4]
		}
	}
	return ""
}

// splitPgpassLine splits a .pgpass line on unescaped colons and unescapes
// the \: and \\ sequences inside each field.
func splitPgpassLine(line string) []string {
	var fields []string
	var field strings.Builder

	escaped := false
	for _, r := range line {
		switch {
		case escaped:
			field.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ':':
			fields = append(fields, field.String())
			field.Reset()
		default:
			field.WriteRune(r)
		}
	}
	fields = append(fields, field.String())
	return fields
}

// matchPgpassField reports whether a .pgpass field matches a value.
func matchPgpassField(field, value string) bool {
	return field == "*" || field == value
}
