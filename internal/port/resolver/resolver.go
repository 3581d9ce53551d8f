package resolver

import (
	"context"

	domaintask "github.com/fleetmesh/dispatch/internal/domain/task"
)

// Mode selects how secret expressions embedded in task parameters are
// resolved.
type Mode string

const (
	// ModeDryRun replaces secret expressions with masked placeholders. Used
	// before capability validation so no live secret leaves the manager.
	ModeDryRun Mode = "DRY_RUN"
	// ModeApply resolves secret expressions to live values. Used once, at
	// assignment time.
	ModeApply Mode = "APPLY"
)

// Resolver expands secret expressions in task data.
type Resolver interface {
	Resolve(ctx context.Context, t *domaintask.Task, mode Mode) (secrets map[string]string, err error)
}
