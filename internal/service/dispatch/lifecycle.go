package dispatch

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"time"

	"github.com/fleetmesh/dispatch/internal/domain/event"
	domaintask "github.com/fleetmesh/dispatch/internal/domain/task"
	portmetrics "github.com/fleetmesh/dispatch/internal/port/metrics"
	porttask "github.com/fleetmesh/dispatch/internal/port/task"
)

const (
	taskAbortedMessage        = "Delegate task was aborted"
	delegateDisconnectMessage = "Delegate disconnected while executing the task"
)

// ExpireTask ends a still-running task whose deadline passed. The terminal
// transition returns the pre-transition row so the failure message can say
// what was being executed and by whom.
func (s *Service) ExpireTask(ctx context.Context, accountID, taskID string) error {
	old, err := s.repo.Terminate(ctx, accountID, taskID, domaintask.StatusError, domaintask.RunningStatuses()...)
	if err != nil {
		if errors.Is(err, porttask.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("expiring task %s: %w", taskID, err)
	}

	s.metrics.Inc(portmetrics.TaskExpired)

	message := "Task expired. " + s.expiryReason(ctx, old)
	s.selection.Info(ctx, &old, message)
	s.waiter.DoneWith(ctx, old.WaitID, domaintask.Result{ //nolint:errcheck
		TaskID: old.ID, AccountID: old.AccountID, Expired: true, ErrorMessage: message,
	})

	if err := s.bus.Publish(ctx, event.New(event.TypeTaskExpired, accountID, taskID)); err != nil {
		slog.ErrorContext(ctx, "failed to publish task expired event", "task_id", taskID, "error", err)
	}

	slog.InfoContext(ctx, "task expired",
		"task_id", taskID, "account_id", accountID, "was_status", old.Status)
	return nil
}

func (s *Service) expiryReason(ctx context.Context, old domaintask.Task) string {
	if old.Status == domaintask.StatusStarted && old.DelegateID != nil {
		return fmt.Sprintf("Delegate %s did not complete %s within its timeout", *old.DelegateID, old.Description())
	}
	reason, err := s.oracle.AssignmentErrorMessage(ctx, old)
	if err != nil || reason == "" {
		return fmt.Sprintf("No delegate picked up %s", old.Description())
	}
	return reason
}

// AbortTask cancels a task cooperatively. The sync-response placeholder is
// seeded before the transition so a caller polling for a result sees the
// abort even if everything after the transition fails. Delivery to the
// executing delegate is push+pull redundant: a real-time push for connected
// delegates plus the poll-based tombstone for everyone else.
func (s *Service) AbortTask(ctx context.Context, accountID, taskID string) (domaintask.Task, error) {
	s.waiter.DoneWith(ctx, taskID, domaintask.Result{ //nolint:errcheck
		TaskID: taskID, AccountID: accountID, Aborted: true, ErrorMessage: taskAbortedMessage,
	})

	old, err := s.repo.Terminate(ctx, accountID, taskID, domaintask.StatusAborted, domaintask.RunningStatuses()...)
	if err != nil {
		if errors.Is(err, porttask.ErrNotFound) {
			return domaintask.Task{}, fmt.Errorf("abort task %s: %w", taskID, porttask.ErrNotFound)
		}
		return domaintask.Task{}, fmt.Errorf("aborting task %s: %w", taskID, err)
	}

	if old.WaitID != "" && old.WaitID != taskID {
		s.waiter.DoneWith(ctx, old.WaitID, domaintask.Result{ //nolint:errcheck
			TaskID: taskID, AccountID: accountID, Aborted: true, ErrorMessage: taskAbortedMessage,
		})
	}

	if s.pusher != nil {
		s.pusher.PushTaskEvent(accountID, event.TaskEvent{
			AccountID: accountID,
			TaskID:    taskID,
			Aborted:   true,
		})
	}
	if err := s.bus.Publish(ctx, event.New(event.TypeTaskAborted, accountID, taskID)); err != nil {
		slog.ErrorContext(ctx, "failed to publish task aborted event", "task_id", taskID, "error", err)
	}

	s.selection.Info(ctx, &old, taskAbortedMessage)
	slog.InfoContext(ctx, "task aborted",
		"task_id", taskID, "account_id", accountID, "was_status", old.Status)
	return old, nil
}

// MarkTasksFailedForDelegate fails every task the delegate was executing
// when it went offline past its grace period. Queued broadcasts are left
// alone; the rebroadcast sweep redirects them to other delegates.
func (s *Service) MarkTasksFailedForDelegate(ctx context.Context, accountID, delegateID string) error {
	running, err := s.repo.ListRunningFor(ctx, accountID, delegateID)
	if err != nil {
		return fmt.Errorf("listing running tasks for delegate %s: %w", delegateID, err)
	}

	for _, t := range running {
		old, err := s.repo.Terminate(ctx, accountID, t.ID, domaintask.StatusError, domaintask.StatusStarted)
		if err != nil {
			if errors.Is(err, porttask.ErrNotFound) {
				continue
			}
			return fmt.Errorf("failing task %s: %w", t.ID, err)
		}
		s.selection.Info(ctx, &old, delegateDisconnectMessage)
		s.waiter.DoneWith(ctx, old.WaitID, domaintask.Result{ //nolint:errcheck
			TaskID: old.ID, AccountID: old.AccountID, ErrorMessage: delegateDisconnectMessage,
		})
		slog.InfoContext(ctx, "task failed after delegate disconnect",
			"task_id", old.ID, "delegate_id", delegateID)
	}
	return nil
}

// ExpirySweep ends every task past its deadline. Serialised across manager
// replicas by an advisory lock so one replica does the work.
func (s *Service) ExpirySweep(ctx context.Context) error {
	return s.locker.WithLock(ctx, sweepKey("expiry"), func(ctx context.Context) error {
		expired, err := s.repo.ListExpired(ctx, time.Now().UTC(), s.cfg.SweepBatchSize)
		if err != nil {
			return fmt.Errorf("listing expired tasks: %w", err)
		}
		for _, t := range expired {
			if err := s.ExpireTask(ctx, t.AccountID, t.ID); err != nil {
				slog.ErrorContext(ctx, "expiry sweep failed for task", "task_id", t.ID, "error", err)
			}
		}
		return nil
	})
}

// RebroadcastSweep re-targets queued tasks whose next-broadcast time passed.
// Each round widens: early rounds walk the retained shuffled eligible order
// one delegate at a time, later rounds notify every connected eligible
// delegate, and the gap between rounds backs off.
func (s *Service) RebroadcastSweep(ctx context.Context) error {
	return s.locker.WithLock(ctx, sweepKey("rebroadcast"), func(ctx context.Context) error {
		now := time.Now().UTC()
		due, err := s.repo.ListRebroadcastable(ctx, now, s.cfg.SweepBatchSize)
		if err != nil {
			return fmt.Errorf("listing rebroadcastable tasks: %w", err)
		}

		for _, t := range due {
			if err := s.rebroadcast(ctx, t, now); err != nil {
				slog.ErrorContext(ctx, "rebroadcast failed for task", "task_id", t.ID, "error", err)
			}
		}
		return nil
	})
}

func (s *Service) rebroadcast(ctx context.Context, t domaintask.Task, now time.Time) error {
	connected, err := s.oracle.GetConnectedDelegates(ctx, t.AccountID, t.EligibleDelegateIDs)
	if err != nil {
		return fmt.Errorf("checking connected delegates: %w", err)
	}

	round := t.BroadcastRound + 1
	next := now.Add(rebroadcastDelay(round))

	if len(connected) == 0 {
		// Nobody to notify; push the schedule forward and wait for the fleet.
		return s.repo.SetBroadcast(ctx, t.AccountID, t.ID, nil, round, next)
	}

	targets := rebroadcastTargets(t.EligibleDelegateIDs, connected, round)
	if err := s.repo.SetBroadcast(ctx, t.AccountID, t.ID, targets, round, next); err != nil {
		return fmt.Errorf("recording rebroadcast: %w", err)
	}

	s.selection.Broadcast(ctx, &t, targets)
	s.push(&t, targets)
	if err := s.bus.Publish(ctx, event.New(event.TypeTaskQueued, t.AccountID, t.ID)); err != nil {
		slog.ErrorContext(ctx, "failed to publish rebroadcast event", "task_id", t.ID, "error", err)
	}

	slog.InfoContext(ctx, "task rebroadcast",
		"task_id", t.ID, "round", round, "targets", len(targets))
	return nil
}

// rebroadcastTargets walks the retained shuffled order. Rounds below the
// widening threshold pick the next single connected delegate in rotation;
// from then on every connected eligible delegate is notified.
func rebroadcastTargets(eligible, connected []string, round int) []string {
	const widenAfter = 3
	if round >= widenAfter {
		return connected
	}

	connectedSet := make(map[string]struct{}, len(connected))
	for _, id := range connected {
		connectedSet[id] = struct{}{}
	}

	var rotation []string
	for _, id := range eligible {
		if _, ok := connectedSet[id]; ok {
			rotation = append(rotation, id)
		}
	}
	if len(rotation) == 0 {
		return connected
	}
	return []string{rotation[round%len(rotation)]}
}

// rebroadcastDelay backs off with the round: quick retries while the first
// broadcast may simply have been missed, then progressively slower.
func rebroadcastDelay(round int) time.Duration {
	switch {
	case round < 3:
		return 5 * time.Second
	case round < 6:
		return time.Minute
	default:
		return 10 * time.Minute
	}
}

// PurgeAccount is bulk tenant cleanup, the only path that deletes task rows.
func (s *Service) PurgeAccount(ctx context.Context, accountID string) (int64, error) {
	deleted, err := s.repo.DeleteByAccount(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("purging tasks for account %s: %w", accountID, err)
	}
	slog.InfoContext(ctx, "purged account tasks", "account_id", accountID, "deleted", deleted)
	return deleted, nil
}

// sweepKey hashes a sweep name to a stable advisory-lock key.
func sweepKey(name string) int64 {
	h := fnv.New64a()
	h.Write([]byte("dispatch_sweep:" + name)) //nolint:errcheck
	return int64(h.Sum64())
}
