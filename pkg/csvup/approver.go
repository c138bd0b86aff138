package csvup

import "context"

// Approver handles user interaction for approval workflows, in particular
// before an existing destination table is dropped and replaced.
//
// Implementations:
//   - ForcedApprover: approves automatically (for --force and CI pipelines)
//   - InteractiveApprover: prompts the user to type the table name
type Approver interface {
	// RequestApproval asks for confirmation before replacing tableName.
	// Returns true if approved, false if denied.
	RequestApproval(ctx context.Context, tableName string) (bool, error)
}
