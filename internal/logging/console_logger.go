// Package logging provides concrete implementations of the csvup.Logger interface.
package logging

import (
	"fmt"
	"os"
	"sync"
)

// ConsoleLogger writes log messages to stderr, keeping stdout free for the
// verification report line. Safe for concurrent use.
type ConsoleLogger struct {
	verbose bool
	mu      sync.Mutex
}

// NewConsoleLogger creates a new ConsoleLogger. If verbose is false,
// Verbose() calls are no-ops.
func NewConsoleLogger(verbose bool) *ConsoleLogger {
	return &ConsoleLogger{verbose: verbose}
}

// Verbose logs detailed diagnostic information if verbose mode is enabled.
func (l *ConsoleLogger) Verbose(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.write("[VERBOSE] ", format, args)
}

// Info logs informational messages about normal operations.
func (l *ConsoleLogger) Info(format string, args ...interface{}) {
	l.write("", format, args)
}

// Error logs error messages.
func (l *ConsoleLogger) Error(format string, args ...interface{}) {
	l.write("[ERROR] ", format, args)
}

func (l *ConsoleLogger) write(prefix, format string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, prefix+format+"\n", args...)
	} else {
		fmt.Fprint(os.Stderr, prefix+format+"\n")
	}
}
