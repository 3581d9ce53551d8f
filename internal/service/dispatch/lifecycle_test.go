package dispatch_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fleetmesh/dispatch/internal/domain/event"
	domaintask "github.com/fleetmesh/dispatch/internal/domain/task"
	portmetrics "github.com/fleetmesh/dispatch/internal/port/metrics"
	porttask "github.com/fleetmesh/dispatch/internal/port/task"
)

func TestAbortTask(t *testing.T) {
	ctx := context.Background()

	t.Run("aborting a queued task seeds the waiter and notifies", func(t *testing.T) {
		svc, d := newDispatchSvc(t)
		tk := queuedTask("del-1")

		// The sync-response placeholder is seeded before the transition. A
		// queued row has no delegate attribution, so no tombstone work runs.
		seeded := d.waiter.EXPECT().DoneWith(gomock.Any(), tk.ID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, r domaintask.Result) error {
				assert.True(t, r.Aborted)
				return nil
			})
		d.repo.EXPECT().Terminate(gomock.Any(), "acct-1", tk.ID, domaintask.StatusAborted,
			domaintask.StatusQueued, domaintask.StatusStarted).Return(tk, nil).After(seeded)

		d.pusher.EXPECT().PushTaskEvent("acct-1", gomock.Any()).Do(func(_ string, ev event.TaskEvent) {
			assert.True(t, ev.Aborted)
		})
		d.bus.EXPECT().Publish(gomock.Any(), matchEventType(event.TypeTaskAborted)).Return(nil)
		d.selection.EXPECT().Info(gomock.Any(), gomock.Any(), gomock.Any())

		old, err := svc.AbortTask(ctx, "acct-1", tk.ID)
		require.NoError(t, err)
		assert.Equal(t, domaintask.StatusQueued, old.Status)
	})

	t.Run("aborting a started task keeps the delegate attribution for the poll tombstone", func(t *testing.T) {
		svc, d := newDispatchSvc(t)
		tk := queuedTask("del-1")
		tk.Status = domaintask.StatusStarted
		tk.DelegateID = ptr("del-1")
		tk.WaitID = "wait-" + tk.ID

		d.waiter.EXPECT().DoneWith(gomock.Any(), tk.ID, gomock.Any()).Return(nil)
		d.repo.EXPECT().Terminate(gomock.Any(), "acct-1", tk.ID, domaintask.StatusAborted,
			domaintask.StatusQueued, domaintask.StatusStarted).Return(tk, nil)
		// A distinct wait id gets its own completion.
		d.waiter.EXPECT().DoneWith(gomock.Any(), tk.WaitID, gomock.Any()).Return(nil)
		d.pusher.EXPECT().PushTaskEvent("acct-1", gomock.Any())
		d.bus.EXPECT().Publish(gomock.Any(), matchEventType(event.TypeTaskAborted)).Return(nil)
		d.selection.EXPECT().Info(gomock.Any(), gomock.Any(), gomock.Any())

		old, err := svc.AbortTask(ctx, "acct-1", tk.ID)
		require.NoError(t, err)
		assert.Equal(t, "del-1", *old.DelegateID)
	})

	t.Run("aborting a finished task reports not found", func(t *testing.T) {
		svc, d := newDispatchSvc(t)

		d.waiter.EXPECT().DoneWith(gomock.Any(), "task-1", gomock.Any()).Return(nil)
		d.repo.EXPECT().Terminate(gomock.Any(), "acct-1", "task-1", domaintask.StatusAborted,
			domaintask.StatusQueued, domaintask.StatusStarted).Return(domaintask.Task{}, porttask.ErrNotFound)

		_, err := svc.AbortTask(ctx, "acct-1", "task-1")
		require.ErrorIs(t, err, porttask.ErrNotFound)
	})
}

func TestExpireTask(t *testing.T) {
	ctx := context.Background()

	t.Run("expires a started task and blames the delegate", func(t *testing.T) {
		svc, d := newDispatchSvc(t)
		tk := queuedTask("del-1")
		tk.Status = domaintask.StatusStarted
		tk.DelegateID = ptr("del-1")

		d.repo.EXPECT().Terminate(gomock.Any(), "acct-1", tk.ID, domaintask.StatusError,
			domaintask.StatusQueued, domaintask.StatusStarted).Return(tk, nil)
		d.metrics.EXPECT().Inc(portmetrics.TaskExpired)
		d.selection.EXPECT().Info(gomock.Any(), gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, _ *domaintask.Task, msg string) {
				assert.Contains(t, msg, "Task expired.")
				assert.Contains(t, msg, "del-1")
			})
		d.waiter.EXPECT().DoneWith(gomock.Any(), tk.WaitID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, r domaintask.Result) error {
				assert.True(t, r.Expired)
				return nil
			})
		d.bus.EXPECT().Publish(gomock.Any(), matchEventType(event.TypeTaskExpired)).Return(nil)

		require.NoError(t, svc.ExpireTask(ctx, "acct-1", tk.ID))
	})

	t.Run("expiry of a never-assigned task uses the assignment failure message", func(t *testing.T) {
		svc, d := newDispatchSvc(t)
		tk := queuedTask("del-1")

		d.repo.EXPECT().Terminate(gomock.Any(), "acct-1", tk.ID, domaintask.StatusError,
			domaintask.StatusQueued, domaintask.StatusStarted).Return(tk, nil)
		d.metrics.EXPECT().Inc(portmetrics.TaskExpired)
		d.oracle.EXPECT().AssignmentErrorMessage(gomock.Any(), gomock.Any()).Return("Delegates are not available", nil)
		d.selection.EXPECT().Info(gomock.Any(), gomock.Any(), "Task expired. Delegates are not available")
		d.waiter.EXPECT().DoneWith(gomock.Any(), tk.WaitID, gomock.Any()).Return(nil)
		d.bus.EXPECT().Publish(gomock.Any(), matchEventType(event.TypeTaskExpired)).Return(nil)

		require.NoError(t, svc.ExpireTask(ctx, "acct-1", tk.ID))
	})

	t.Run("already-terminal task is a no-op", func(t *testing.T) {
		svc, d := newDispatchSvc(t)

		d.repo.EXPECT().Terminate(gomock.Any(), "acct-1", "task-1", domaintask.StatusError,
			domaintask.StatusQueued, domaintask.StatusStarted).Return(domaintask.Task{}, porttask.ErrNotFound)

		require.NoError(t, svc.ExpireTask(ctx, "acct-1", "task-1"))
	})
}

func TestMarkTasksFailedForDelegate(t *testing.T) {
	ctx := context.Background()
	svc, d := newDispatchSvc(t)

	tk := queuedTask("del-1")
	tk.Status = domaintask.StatusStarted
	tk.DelegateID = ptr("del-1")

	d.repo.EXPECT().ListRunningFor(gomock.Any(), "acct-1", "del-1").Return([]domaintask.Task{tk}, nil)
	d.repo.EXPECT().Terminate(gomock.Any(), "acct-1", tk.ID, domaintask.StatusError, domaintask.StatusStarted).
		Return(tk, nil)
	d.selection.EXPECT().Info(gomock.Any(), gomock.Any(), gomock.Any())
	d.waiter.EXPECT().DoneWith(gomock.Any(), tk.WaitID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, r domaintask.Result) error {
			assert.Contains(t, r.ErrorMessage, "disconnected")
			return nil
		})

	require.NoError(t, svc.MarkTasksFailedForDelegate(ctx, "acct-1", "del-1"))
}

func TestRebroadcastSweep(t *testing.T) {
	ctx := context.Background()

	t.Run("early rounds rotate through single connected delegates", func(t *testing.T) {
		svc, d := newDispatchSvc(t)
		syncLocker(d)

		tk := queuedTask("del-1", "del-2", "del-3")
		tk.BroadcastRound = 0

		d.repo.EXPECT().ListRebroadcastable(gomock.Any(), gomock.Any(), 100).Return([]domaintask.Task{tk}, nil)
		d.oracle.EXPECT().GetConnectedDelegates(gomock.Any(), "acct-1", tk.EligibleDelegateIDs).
			Return([]string{"del-2", "del-3"}, nil)

		// Round 1 over the connected subset of the retained order picks index 1.
		d.repo.EXPECT().SetBroadcast(gomock.Any(), "acct-1", tk.ID, []string{"del-3"}, 1, gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _ string, _ []string, _ int, next time.Time) error {
				assert.WithinDuration(t, time.Now().UTC().Add(5*time.Second), next, 2*time.Second)
				return nil
			})
		d.selection.EXPECT().Broadcast(gomock.Any(), gomock.Any(), []string{"del-3"})
		d.pusher.EXPECT().PushTaskEvent("acct-1", gomock.Any())
		d.bus.EXPECT().Publish(gomock.Any(), matchEventType(event.TypeTaskQueued)).Return(nil)

		require.NoError(t, svc.RebroadcastSweep(ctx))
	})

	t.Run("later rounds widen to every connected eligible delegate", func(t *testing.T) {
		svc, d := newDispatchSvc(t)
		syncLocker(d)

		tk := queuedTask("del-1", "del-2", "del-3")
		tk.BroadcastRound = 2

		d.repo.EXPECT().ListRebroadcastable(gomock.Any(), gomock.Any(), 100).Return([]domaintask.Task{tk}, nil)
		d.oracle.EXPECT().GetConnectedDelegates(gomock.Any(), "acct-1", tk.EligibleDelegateIDs).
			Return([]string{"del-1", "del-3"}, nil)
		d.repo.EXPECT().SetBroadcast(gomock.Any(), "acct-1", tk.ID, []string{"del-1", "del-3"}, 3, gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _ string, _ []string, _ int, next time.Time) error {
				// Round 3 backs off to one minute.
				assert.WithinDuration(t, time.Now().UTC().Add(time.Minute), next, 2*time.Second)
				return nil
			})
		d.selection.EXPECT().Broadcast(gomock.Any(), gomock.Any(), []string{"del-1", "del-3"})
		d.pusher.EXPECT().PushTaskEvent("acct-1", gomock.Any())
		d.bus.EXPECT().Publish(gomock.Any(), matchEventType(event.TypeTaskQueued)).Return(nil)

		require.NoError(t, svc.RebroadcastSweep(ctx))
	})

	t.Run("no connected delegates pushes the schedule forward quietly", func(t *testing.T) {
		svc, d := newDispatchSvc(t)
		syncLocker(d)

		tk := queuedTask("del-1")
		d.repo.EXPECT().ListRebroadcastable(gomock.Any(), gomock.Any(), 100).Return([]domaintask.Task{tk}, nil)
		d.oracle.EXPECT().GetConnectedDelegates(gomock.Any(), "acct-1", tk.EligibleDelegateIDs).Return(nil, nil)
		d.repo.EXPECT().SetBroadcast(gomock.Any(), "acct-1", tk.ID, nil, 1, gomock.Any()).Return(nil)

		require.NoError(t, svc.RebroadcastSweep(ctx))
	})
}

func TestExpirySweep(t *testing.T) {
	ctx := context.Background()
	svc, d := newDispatchSvc(t)
	syncLocker(d)

	tk := queuedTask("del-1")
	d.repo.EXPECT().ListExpired(gomock.Any(), gomock.Any(), 100).Return([]domaintask.Task{tk}, nil)
	d.repo.EXPECT().Terminate(gomock.Any(), "acct-1", tk.ID, domaintask.StatusError,
		domaintask.StatusQueued, domaintask.StatusStarted).Return(tk, nil)
	d.metrics.EXPECT().Inc(portmetrics.TaskExpired)
	d.oracle.EXPECT().AssignmentErrorMessage(gomock.Any(), gomock.Any()).Return("", nil)
	d.selection.EXPECT().Info(gomock.Any(), gomock.Any(), gomock.Any())
	d.waiter.EXPECT().DoneWith(gomock.Any(), tk.WaitID, gomock.Any()).Return(nil)
	d.bus.EXPECT().Publish(gomock.Any(), matchEventType(event.TypeTaskExpired)).Return(nil)

	require.NoError(t, svc.ExpirySweep(ctx))
}

func TestPurgeAccount(t *testing.T) {
	ctx := context.Background()
	svc, d := newDispatchSvc(t)

	d.repo.EXPECT().DeleteByAccount(gomock.Any(), "acct-1").Return(int64(7), nil)

	deleted, err := svc.PurgeAccount(ctx, "acct-1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), deleted)
}
