package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fleetmesh/dispatch/internal/domain/event"
	domaintask "github.com/fleetmesh/dispatch/internal/domain/task"
	portmetrics "github.com/fleetmesh/dispatch/internal/port/metrics"
	portresolver "github.com/fleetmesh/dispatch/internal/port/resolver"
	porttask "github.com/fleetmesh/dispatch/internal/port/task"
)

// PollEvents produces the event stream a delegate long-polls: unassigned
// queued tasks it is eligible for, plus abort notices for tasks it holds.
// Sync events come first so a delegate draining its queue picks up blocking
// work before backlog; syncOnly drops the async events entirely. Abort
// notices are tombstoned on delivery: clearing the delegate attribution
// makes the next poll return nothing, so each abort is delivered at most
// once.
func (s *Service) PollEvents(ctx context.Context, accountID, delegateID string, syncOnly bool) ([]event.TaskEvent, error) {
	queued, err := s.repo.ListQueuedFor(ctx, accountID, delegateID)
	if err != nil {
		return nil, fmt.Errorf("listing queued tasks for delegate %s: %w", delegateID, err)
	}

	var events []event.TaskEvent
	for _, t := range queued {
		if t.Data.Async {
			continue
		}
		events = append(events, event.TaskEvent{
			AccountID: t.AccountID,
			TaskID:    t.ID,
			Sync:      true,
			TaskType:  t.Data.Type,
		})
	}
	if !syncOnly {
		for _, t := range queued {
			if !t.Data.Async {
				continue
			}
			events = append(events, event.TaskEvent{
				AccountID: t.AccountID,
				TaskID:    t.ID,
				TaskType:  t.Data.Type,
			})
		}
	}

	aborted, err := s.repo.ListAbortedFor(ctx, accountID, delegateID)
	if err != nil {
		return nil, fmt.Errorf("listing aborted tasks for delegate %s: %w", delegateID, err)
	}
	for _, t := range aborted {
		events = append(events, event.TaskEvent{
			AccountID: t.AccountID,
			TaskID:    t.ID,
			Aborted:   true,
		})
		if err := s.repo.ClearDelegateID(ctx, t.AccountID, t.ID); err != nil {
			slog.ErrorContext(ctx, "failed to tombstone abort event", "task_id", t.ID, "error", err)
		}
	}

	return events, nil
}

// Acquire is a delegate's claim on a broadcast task. Depending on state the
// delegate receives the task package (it won), a validation package (it must
// prove capabilities first), or an empty package (it lost, or the task is
// gone). An empty package is a normal outcome, never an error.
func (s *Service) Acquire(ctx context.Context, accountID, delegateID, instanceID, taskID string) (domaintask.Package, error) {
	d, err := s.delegates.GetByID(ctx, accountID, delegateID)
	if err != nil {
		return domaintask.Package{}, fmt.Errorf("looking up delegate %s: %w", delegateID, err)
	}
	if !d.CanAcquire() {
		return domaintask.Package{}, nil
	}

	t, err := s.repo.GetByID(ctx, accountID, taskID)
	if err != nil {
		if errors.Is(err, porttask.ErrNotFound) {
			// Task finished or expired between broadcast and acquire.
			return domaintask.Package{}, nil
		}
		return domaintask.Package{}, fmt.Errorf("looking up task %s: %w", taskID, err)
	}

	if t.Status == domaintask.StatusStarted {
		// Idempotent re-acquire: the same delegate instance asking again gets
		// the package again; anyone else gets nothing.
		if heldBy(t, delegateID, instanceID) {
			return s.buildPackage(ctx, t, delegateID, instanceID, portresolver.ModeApply)
		}
		return domaintask.Package{}, nil
	}
	if t.Status != domaintask.StatusQueued {
		return domaintask.Package{}, nil
	}

	if !t.IsEligible(delegateID) {
		s.selection.NotSelected(ctx, &t, delegateID, "Delegate was not in the eligible set for this task")
		return domaintask.Package{}, nil
	}

	mustValidate, err := s.oracle.ShouldValidate(ctx, t, delegateID)
	if err != nil {
		return domaintask.Package{}, fmt.Errorf("checking validation requirement: %w", err)
	}
	if mustValidate {
		return s.startValidation(ctx, t, delegateID, instanceID)
	}

	return s.assignTask(ctx, t, delegateID, instanceID)
}

// startValidation hands the delegate a dry-run package: agent-evaluated
// capabilities plus masked secret placeholders, never live values.
func (s *Service) startValidation(ctx context.Context, t domaintask.Task, delegateID, instanceID string) (domaintask.Package, error) {
	if err := s.repo.AddValidating(ctx, t.AccountID, t.ID, delegateID); err != nil {
		return domaintask.Package{}, fmt.Errorf("recording validation start: %w", err)
	}
	s.metrics.Inc(portmetrics.ValidationStarted)

	slog.InfoContext(ctx, "delegate validating task capabilities",
		"task_id", t.ID, "delegate_id", delegateID)

	return s.buildPackage(ctx, t, delegateID, instanceID, portresolver.ModeDryRun)
}

// ReportConnectionResults completes one delegate's validation handshake.
// Membership in the validation-complete set is recorded unconditionally; the
// delegate proceeds to assignment only when it reported a verdict for every
// agent-evaluated capability and all of them validated.
func (s *Service) ReportConnectionResults(ctx context.Context, accountID, delegateID, instanceID, taskID string, results []domaintask.ConnectionResult) (domaintask.Package, error) {
	t, err := s.repo.GetByID(ctx, accountID, taskID)
	if err != nil {
		if errors.Is(err, porttask.ErrNotFound) {
			return domaintask.Package{}, nil
		}
		return domaintask.Package{}, fmt.Errorf("looking up task %s: %w", taskID, err)
	}
	if t.Status != domaintask.StatusQueued {
		return domaintask.Package{}, nil
	}

	if err := s.repo.AddValidationComplete(ctx, accountID, taskID, delegateID); err != nil {
		return domaintask.Package{}, fmt.Errorf("recording validation completion: %w", err)
	}

	required := len(domaintask.AgentCapabilities(t.ExecutionCapabilities))
	if len(results) == required && allValidated(results) {
		for _, res := range results {
			if err := s.proofs.RecordProof(ctx, accountID, delegateID, res.Criteria); err != nil {
				slog.WarnContext(ctx, "failed to whitelist capability proof",
					"task_id", taskID, "delegate_id", delegateID, "criteria", res.Criteria, "error", err)
			}
		}
		return s.assignTask(ctx, t, delegateID, instanceID)
	}

	s.selection.Rejected(ctx, &t, delegateID, "Delegate could not validate the task's capabilities")
	s.failIfAllDelegatesFailed(ctx, accountID, taskID)
	return domaintask.Package{}, nil
}

// failIfAllDelegatesFailed ends the task once every validating delegate has
// reported and none validated; otherwise the task keeps waiting for the
// remaining delegates or the rebroadcast sweep.
func (s *Service) failIfAllDelegatesFailed(ctx context.Context, accountID, taskID string) {
	t, err := s.repo.GetByID(ctx, accountID, taskID)
	if err != nil {
		return
	}
	if t.Status != domaintask.StatusQueued || len(t.ValidatingDelegateIDs) == 0 {
		return
	}
	if !containsAll(t.ValidationCompleteDelegateIDs, t.ValidatingDelegateIDs) {
		return
	}

	old, err := s.repo.Terminate(ctx, accountID, taskID, domaintask.StatusError, domaintask.StatusQueued)
	if err != nil {
		if !errors.Is(err, porttask.ErrNotFound) {
			slog.ErrorContext(ctx, "failed to end task after validation failure", "task_id", taskID, "error", err)
		}
		return
	}

	s.selection.ValidationFailed(ctx, &old, old.ValidatingDelegateIDs)
	message := "No eligible delegate was able to confirm that it has the capability to execute " + old.Description()
	s.waiter.DoneWith(ctx, old.WaitID, domaintask.Result{ //nolint:errcheck
		TaskID: old.ID, AccountID: old.AccountID, ErrorMessage: message,
	})
	slog.InfoContext(ctx, "task failed capability validation",
		"task_id", taskID, "validating", len(old.ValidatingDelegateIDs))
}

// assignTask is the optimistic hand-off. The conditional update claims the
// row for this delegate; losing it is silent. On a miss the started row is
// re-checked so a delegate that already won keeps its package (idempotent
// re-acquire after a dropped response).
func (s *Service) assignTask(ctx context.Context, t domaintask.Task, delegateID, instanceID string) (domaintask.Package, error) {
	newExpiry := time.Now().UTC().Add(t.Data.Timeout)

	assigned, err := s.repo.Assign(ctx, t.AccountID, t.ID, delegateID, instanceID, newExpiry)
	if err != nil {
		if !errors.Is(err, porttask.ErrNotFound) {
			return domaintask.Package{}, fmt.Errorf("assigning task %s: %w", t.ID, err)
		}

		held, gerr := s.repo.GetStarted(ctx, t.AccountID, t.ID, delegateID, instanceID)
		if gerr == nil {
			return s.buildPackage(ctx, held, delegateID, instanceID, portresolver.ModeApply)
		}

		s.metrics.Inc(portmetrics.TaskAcquireFailed)
		return domaintask.Package{}, nil
	}

	s.metrics.Inc(portmetrics.TaskAcquire)
	s.selection.Assigned(ctx, &assigned, delegateID)

	if err := s.bus.Publish(ctx, taskAssignedEvent(assigned, delegateID)); err != nil {
		slog.ErrorContext(ctx, "failed to publish task assigned event", "task_id", assigned.ID, "error", err)
	}

	slog.InfoContext(ctx, "task assigned",
		"task_id", assigned.ID, "delegate_id", delegateID, "instance_id", instanceID)

	return s.buildPackage(ctx, assigned, delegateID, instanceID, portresolver.ModeApply)
}

func (s *Service) buildPackage(ctx context.Context, t domaintask.Task, delegateID, instanceID string, mode portresolver.Mode) (domaintask.Package, error) {
	secrets, err := s.resolver.Resolve(ctx, &t, mode)
	if err != nil {
		return domaintask.Package{}, fmt.Errorf("resolving secrets for task %s: %w", t.ID, err)
	}
	return domaintask.Package{
		AccountID:             t.AccountID,
		TaskID:                t.ID,
		DelegateID:            delegateID,
		DelegateInstanceID:    instanceID,
		Data:                  t.Data,
		ExecutionCapabilities: domaintask.AgentCapabilities(t.ExecutionCapabilities),
		Secrets:               secrets,
	}, nil
}

func taskAssignedEvent(t domaintask.Task, delegateID string) event.Event {
	e := event.New(event.TypeTaskAssigned, t.AccountID, t.ID)
	e.DelegateID = delegateID
	return e
}

func heldBy(t domaintask.Task, delegateID, instanceID string) bool {
	return t.DelegateID != nil && *t.DelegateID == delegateID &&
		t.DelegateInstanceID != nil && *t.DelegateInstanceID == instanceID
}

// allValidated is vacuously true for an empty result set; the size check
// against the required capability count is the caller's job.
func allValidated(results []domaintask.ConnectionResult) bool {
	for _, r := range results {
		if !r.Validated {
			return false
		}
	}
	return true
}

func containsAll(haystack, needles []string) bool {
	set := make(map[string]struct{}, len(haystack))
	for _, id := range haystack {
		set[id] = struct{}{}
	}
	for _, id := range needles {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}
