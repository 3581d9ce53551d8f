package task

import (
	"context"
	"errors"
	"time"

	domaintask "github.com/fleetmesh/dispatch/internal/domain/task"
)

// ErrNotFound is returned when no row matches, including when a conditional
// update's predicate fails. Callers that race (Assign, EndTask) branch on it.
var ErrNotFound = errors.New("task not found")

type Repository interface {
	Create(ctx context.Context, t domaintask.Task) (domaintask.Task, error)
	GetByID(ctx context.Context, accountID, id string) (domaintask.Task, error)
	List(ctx context.Context, filters domaintask.ListFilters) ([]domaintask.Task, error)
	Update(ctx context.Context, t domaintask.Task) error

	// Assign performs an atomic CAS: the row is claimed only if it is still
	// queued, unexpired and unassigned. The winning update also clears the
	// validation bookkeeping. Returns the post-update row, or ErrNotFound
	// when the predicate did not match.
	Assign(ctx context.Context, accountID, taskID, delegateID, instanceID string, newExpiry time.Time) (domaintask.Task, error)

	// GetStarted returns the started task only if it is held by the given
	// delegate instance. Backs idempotent re-acquire after a lost CAS race.
	GetStarted(ctx context.Context, accountID, taskID, delegateID, instanceID string) (domaintask.Task, error)

	// Terminate atomically moves the task to a terminal status if its current
	// status is among `from`, returning the pre-transition row so callers can
	// inspect what was being executed. ErrNotFound when no row matched. The
	// row is kept; completed tasks become inert and are removed only by bulk
	// tenant cleanup.
	Terminate(ctx context.Context, accountID, taskID string, to domaintask.Status, from ...domaintask.Status) (domaintask.Task, error)

	// DeleteByAccount removes all task rows for a tenant. Bulk cleanup only.
	DeleteByAccount(ctx context.Context, accountID string) (int64, error)

	// AddValidating records a validation attempt; it only touches rows that
	// are still queued and unassigned.
	AddValidating(ctx context.Context, accountID, taskID, delegateID string) error
	AddValidationComplete(ctx context.Context, accountID, taskID, delegateID string) error

	// SetBroadcast records one broadcast attempt: recipients, round, next
	// rebroadcast time.
	SetBroadcast(ctx context.Context, accountID, taskID string, delegateIDs []string, round int, nextBroadcast time.Time) error

	// ListQueuedFor returns queued, unexpired, unassigned tasks whose
	// eligible set includes the given delegate. The broadcast list is not a
	// filter here; it only picks who gets nudged first.
	ListQueuedFor(ctx context.Context, accountID, delegateID string) ([]domaintask.Task, error)

	// ListAbortedFor returns aborted tasks still attributed to the delegate.
	ListAbortedFor(ctx context.Context, accountID, delegateID string) ([]domaintask.Task, error)
	// ClearDelegateID detaches the delegate from an aborted task so the abort
	// event is delivered at most once.
	ClearDelegateID(ctx context.Context, accountID, taskID string) error

	// ListRebroadcastable returns queued tasks due another broadcast round.
	ListRebroadcastable(ctx context.Context, now time.Time, limit int) ([]domaintask.Task, error)
	// ListExpired returns queued or started tasks past their expiry.
	ListExpired(ctx context.Context, now time.Time, limit int) ([]domaintask.Task, error)

	// CountActive counts queued and started tasks for an account at or above
	// the given rank.
	CountActive(ctx context.Context, accountID string, ranks ...domaintask.Rank) (int, error)

	// ListRunningFor returns started tasks held by the delegate, used when a
	// delegate disconnects mid-execution.
	ListRunningFor(ctx context.Context, accountID, delegateID string) ([]domaintask.Task, error)
}
