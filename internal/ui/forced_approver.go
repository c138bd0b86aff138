package ui

import (
	"context"
	"fmt"
	"os"

	"github.com/vvka-141/csvup/pkg/csvup"
)

// ForcedApprover approves table replacement without prompting.
// Used with --force and in CI pipelines where stdin is not a terminal.
type ForcedApprover struct {
	verbose bool
}

// NewForcedApprover creates a new ForcedApprover.
func NewForcedApprover(verbose bool) csvup.Approver {
	return &ForcedApprover{verbose: verbose}
}

// RequestApproval logs the replacement and approves it.
func (a *ForcedApprover) RequestApproval(ctx context.Context, tableName string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(os.Stderr, "Replacing existing table %q (--force)\n", tableName)
	return true, nil
}

var _ csvup.Approver = (*ForcedApprover)(nil)
