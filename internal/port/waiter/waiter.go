package waiter

import (
	"context"

	domaintask "github.com/fleetmesh/dispatch/internal/domain/task"
)

// WaitNotify decouples task completion from whoever is blocked on it. The
// dispatch core only ever signals completion; waiting is the caller's side.
type WaitNotify interface {
	// DoneWith publishes the terminal result for a wait id.
	DoneWith(ctx context.Context, waitID string, r domaintask.Result) error
	// WaitForTask blocks until the wait id completes or ctx is done.
	WaitForTask(ctx context.Context, waitID string) (domaintask.Result, error)
}
