package eligibility

import (
	"context"

	domaintask "github.com/fleetmesh/dispatch/internal/domain/task"
)

// Oracle answers the pluggable eligibility questions: which delegates can in
// principle run a task, which are connected right now, and which have
// recently proven the task's capabilities (whitelisted).
type Oracle interface {
	GetEligibleDelegates(ctx context.Context, t domaintask.Task) ([]string, error)
	GetConnectedDelegates(ctx context.Context, accountID string, delegateIDs []string) ([]string, error)
	IsWhitelisted(ctx context.Context, t domaintask.Task, delegateID string) (bool, error)
	// ShouldValidate reports whether the delegate's capability proofs are
	// stale and must be re-established before assignment.
	ShouldValidate(ctx context.Context, t domaintask.Task, delegateID string) (bool, error)

	// NoInstalledDelegates distinguishes "no delegates at all" from
	// "delegates exist but none matched" when composing error messages.
	NoInstalledDelegates(ctx context.Context, accountID string) (bool, error)
	AssignmentErrorMessage(ctx context.Context, t domaintask.Task) (string, error)
}
