// Package ui implements the csvup.Approver interface for console use.
package ui

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/vvka-141/csvup/pkg/csvup"
)

// InteractiveApprover prompts the user to type the destination table name
// to confirm replacing a table that already exists.
type InteractiveApprover struct {
	verbose bool
}

// NewInteractiveApprover creates a new InteractiveApprover.
func NewInteractiveApprover(verbose bool) csvup.Approver {
	return &InteractiveApprover{verbose: verbose}
}

// RequestApproval prompts the user to type the table name to confirm.
func (a *InteractiveApprover) RequestApproval(ctx context.Context, tableName string) (bool, error) {
	fmt.Fprintf(os.Stderr, "\nWARNING: table %q already exists and will be DROPPED and recreated.\n", tableName)
	fmt.Fprintln(os.Stderr, "All rows currently in this table will be permanently deleted.")
	fmt.Fprintf(os.Stderr, "\nTo confirm, type the table name %q and press Enter: ", tableName)

	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		reader := bufio.NewReader(os.Stdin)
		input, err := reader.ReadString('\n')
		if err != nil {
			errChan <- err
			return
		}
		inputChan <- strings.TrimSpace(input)
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-errChan:
		return false, fmt.Errorf("failed to read input: %w", err)
	case input := <-inputChan:
		if input == tableName {
			fmt.Fprintln(os.Stderr, "Confirmed. Replacing table...")
			return true, nil
		}
		fmt.Fprintf(os.Stderr, "Input %q does not match table name %q. Operation cancelled.\n", input, tableName)
		return false, nil
	}
}

var _ csvup.Approver = (*InteractiveApprover)(nil)
