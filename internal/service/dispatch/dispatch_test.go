package dispatch_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fleetmesh/dispatch/internal/domain/event"
	domaintask "github.com/fleetmesh/dispatch/internal/domain/task"
	"github.com/fleetmesh/dispatch/internal/mocks"
	portmetrics "github.com/fleetmesh/dispatch/internal/port/metrics"
	"github.com/fleetmesh/dispatch/internal/service/dispatch"
)

type svcDeps struct {
	repo      *mocks.MockTaskRepository
	delegates *mocks.MockDelegateReader
	oracle    *mocks.MockOracle
	proofs    *mocks.MockProofRecorder
	admission *mocks.MockAdmission
	assembler *mocks.MockAssembler
	resolver  *mocks.MockResolver
	selection *mocks.MockSelectionRecorder
	waiter    *mocks.MockWaitNotify
	bus       *mocks.MockEventBus
	pusher    *mocks.MockPusher
	metrics   *mocks.MockMetricsSink
	locker    *mocks.MockAdvisoryLocker
}

func newDispatchSvc(t *testing.T) (*dispatch.Service, svcDeps) {
	t.Helper()
	return newDispatchSvcWithConfig(t, dispatch.Config{})
}

func newDispatchSvcWithConfig(t *testing.T, cfg dispatch.Config) (*dispatch.Service, svcDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)
	d := svcDeps{
		repo:      mocks.NewMockTaskRepository(ctrl),
		delegates: mocks.NewMockDelegateReader(ctrl),
		oracle:    mocks.NewMockOracle(ctrl),
		proofs:    mocks.NewMockProofRecorder(ctrl),
		admission: mocks.NewMockAdmission(ctrl),
		assembler: mocks.NewMockAssembler(ctrl),
		resolver:  mocks.NewMockResolver(ctrl),
		selection: mocks.NewMockSelectionRecorder(ctrl),
		waiter:    mocks.NewMockWaitNotify(ctrl),
		bus:       mocks.NewMockEventBus(ctrl),
		pusher:    mocks.NewMockPusher(ctrl),
		metrics:   mocks.NewMockMetricsSink(ctrl),
		locker:    mocks.NewMockAdvisoryLocker(ctrl),
	}
	svc := dispatch.NewService(
		d.repo, d.delegates, d.oracle, d.proofs, d.admission, d.assembler,
		d.resolver, d.selection, d.waiter, d.bus, d.pusher, d.metrics, d.locker,
		cfg,
	)
	return svc, d
}

// syncLocker makes WithLock run its critical section inline so sweep tests
// stay synchronous.
func syncLocker(d svcDeps) {
	d.locker.EXPECT().WithLock(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ int64, fn func(context.Context) error) error {
			return fn(ctx)
		}).AnyTimes()
}

// echoCreate makes Create return whatever row it was given.
func echoCreate(d svcDeps) {
	d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, t domaintask.Task) (domaintask.Task, error) {
			return t, nil
		})
}

type eventTypeMatcher struct {
	eventType event.Type
}

func (m eventTypeMatcher) Matches(x any) bool {
	e, ok := x.(event.Event)
	return ok && e.Type == m.eventType
}

func (m eventTypeMatcher) String() string {
	return "event of type " + string(m.eventType)
}

func matchEventType(et event.Type) gomock.Matcher {
	return eventTypeMatcher{eventType: et}
}

func ptr(s string) *string { return &s }

func newTestTask(accountID string) *domaintask.Task {
	t := domaintask.New(accountID, domaintask.Data{
		Type:    "HTTP",
		Timeout: time.Minute,
		Async:   true,
	}, domaintask.RankOptional)
	return &t
}

func TestQueueTask(t *testing.T) {
	ctx := context.Background()

	t.Run("broadcasts to the first whitelisted connected delegate", func(t *testing.T) {
		svc, d := newDispatchSvc(t)
		tk := newTestTask("acct-1")

		d.admission.EXPECT().CheckRankLimit(gomock.Any(), "acct-1", domaintask.RankOptional).Return(nil)
		d.assembler.EXPECT().Assemble(gomock.Any(), gomock.Any()).Return(nil)
		d.oracle.EXPECT().GetEligibleDelegates(gomock.Any(), gomock.Any()).Return([]string{"del-1", "del-2"}, nil)
		d.oracle.EXPECT().GetConnectedDelegates(gomock.Any(), "acct-1", gomock.Any()).Return([]string{"del-1"}, nil)
		d.oracle.EXPECT().IsWhitelisted(gomock.Any(), gomock.Any(), "del-1").Return(true, nil)
		echoCreate(d)
		d.selection.EXPECT().EligibleDelegates(gomock.Any(), gomock.Any(), gomock.Any())
		d.selection.EXPECT().Broadcast(gomock.Any(), gomock.Any(), []string{"del-1"})
		d.pusher.EXPECT().PushTaskEvent("acct-1", gomock.Any())
		d.bus.EXPECT().Publish(gomock.Any(), matchEventType(event.TypeTaskQueued)).Return(nil)
		d.metrics.EXPECT().Inc(portmetrics.TaskCreation)

		before := time.Now().UTC()
		created, err := svc.QueueTask(ctx, tk)
		require.NoError(t, err)

		assert.Equal(t, domaintask.StatusQueued, created.Status)
		assert.Equal(t, []string{"del-1"}, created.BroadcastToDelegateIDs)
		assert.ElementsMatch(t, []string{"del-1", "del-2"}, created.EligibleDelegateIDs)
		assert.True(t, created.Expiry.After(before), "expiry should be in the future")
	})

	t.Run("async next broadcast honours the floor", func(t *testing.T) {
		svc, d := newDispatchSvc(t)
		tk := newTestTask("acct-1")

		d.admission.EXPECT().CheckRankLimit(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		d.assembler.EXPECT().Assemble(gomock.Any(), gomock.Any()).Return(nil)
		d.oracle.EXPECT().GetEligibleDelegates(gomock.Any(), gomock.Any()).Return([]string{"del-1"}, nil)
		d.oracle.EXPECT().GetConnectedDelegates(gomock.Any(), gomock.Any(), gomock.Any()).Return([]string{"del-1"}, nil)
		d.oracle.EXPECT().IsWhitelisted(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
		echoCreate(d)
		d.selection.EXPECT().EligibleDelegates(gomock.Any(), gomock.Any(), gomock.Any())
		d.selection.EXPECT().Broadcast(gomock.Any(), gomock.Any(), gomock.Any())
		d.pusher.EXPECT().PushTaskEvent(gomock.Any(), gomock.Any())
		d.bus.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
		d.metrics.EXPECT().Inc(portmetrics.TaskCreation)

		created, err := svc.QueueTask(ctx, tk)
		require.NoError(t, err)

		// Default floor is 5s: the first rebroadcast must not fire immediately.
		assert.Equal(t, 5*time.Second, created.NextBroadcast.Sub(created.LastBroadcastAt))
	})

	t.Run("falls back to a random connected delegate when none is whitelisted", func(t *testing.T) {
		svc, d := newDispatchSvc(t)
		tk := newTestTask("acct-1")

		d.admission.EXPECT().CheckRankLimit(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		d.assembler.EXPECT().Assemble(gomock.Any(), gomock.Any()).Return(nil)
		d.oracle.EXPECT().GetEligibleDelegates(gomock.Any(), gomock.Any()).Return([]string{"del-1", "del-2"}, nil)
		d.oracle.EXPECT().GetConnectedDelegates(gomock.Any(), gomock.Any(), gomock.Any()).Return([]string{"del-1", "del-2"}, nil)
		d.oracle.EXPECT().IsWhitelisted(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil).Times(2)
		d.metrics.EXPECT().Inc(portmetrics.NoFirstWhitelisted)
		d.selection.EXPECT().NoWhitelisted(gomock.Any(), gomock.Any())
		echoCreate(d)
		d.selection.EXPECT().EligibleDelegates(gomock.Any(), gomock.Any(), gomock.Any())
		d.selection.EXPECT().Broadcast(gomock.Any(), gomock.Any(), gomock.Any())
		d.pusher.EXPECT().PushTaskEvent(gomock.Any(), gomock.Any())
		d.bus.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
		d.metrics.EXPECT().Inc(portmetrics.TaskCreation)

		created, err := svc.QueueTask(ctx, tk)
		require.NoError(t, err)

		require.Len(t, created.BroadcastToDelegateIDs, 1)
		assert.Contains(t, []string{"del-1", "del-2"}, created.BroadcastToDelegateIDs[0])
	})

	t.Run("hosted execution runs under the global account", func(t *testing.T) {
		svc, d := newDispatchSvcWithConfig(t, dispatch.Config{GlobalAccountID: "global-acct"})
		tk := newTestTask("tenant-1")
		tk.HostedExecution = true

		d.admission.EXPECT().CheckRankLimit(gomock.Any(), "global-acct", gomock.Any()).Return(nil)
		d.assembler.EXPECT().Assemble(gomock.Any(), gomock.Any()).Return(nil)
		d.oracle.EXPECT().GetEligibleDelegates(gomock.Any(), gomock.Any()).Return([]string{"del-1"}, nil)
		d.oracle.EXPECT().GetConnectedDelegates(gomock.Any(), "global-acct", gomock.Any()).Return([]string{"del-1"}, nil)
		d.oracle.EXPECT().IsWhitelisted(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
		echoCreate(d)
		d.selection.EXPECT().EligibleDelegates(gomock.Any(), gomock.Any(), gomock.Any())
		d.selection.EXPECT().Broadcast(gomock.Any(), gomock.Any(), gomock.Any())
		d.pusher.EXPECT().PushTaskEvent("global-acct", gomock.Any())
		d.bus.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
		d.metrics.EXPECT().Inc(portmetrics.TaskCreation)

		created, err := svc.QueueTask(ctx, tk)
		require.NoError(t, err)

		assert.Equal(t, "global-acct", created.AccountID)
		assert.Equal(t, "tenant-1", created.SecondaryAccountID)
		assert.Equal(t, "tenant-1", created.EffectiveAccountID())
	})

	t.Run("hosted execution without a global account fails", func(t *testing.T) {
		svc, d := newDispatchSvc(t)
		tk := newTestTask("tenant-1")
		tk.HostedExecution = true

		d.waiter.EXPECT().DoneWith(gomock.Any(), tk.WaitID, gomock.Any()).Return(nil)

		_, err := svc.QueueTask(ctx, tk)
		require.ErrorIs(t, err, dispatch.ErrNoGlobalDelegateAccount)
	})

	t.Run("rejected by admission but still persisted", func(t *testing.T) {
		svc, d := newDispatchSvc(t)
		tk := newTestTask("acct-1")

		limitErr := errors.New("rate limit reached for tasks of rank optional")
		d.admission.EXPECT().CheckRankLimit(gomock.Any(), "acct-1", gomock.Any()).Return(limitErr)

		var persisted domaintask.Task
		d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, t domaintask.Task) (domaintask.Task, error) {
				persisted = t
				return t, nil
			})
		d.selection.EXPECT().Info(gomock.Any(), gomock.Any(), limitErr.Error())
		d.waiter.EXPECT().DoneWith(gomock.Any(), tk.WaitID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, r domaintask.Result) error {
				assert.Equal(t, limitErr.Error(), r.ErrorMessage)
				return nil
			})

		_, err := svc.QueueTask(ctx, tk)
		require.ErrorIs(t, err, limitErr)
		assert.Equal(t, domaintask.StatusError, persisted.Status)
		assert.Contains(t, persisted.ActivityLog, limitErr.Error())
	})

	t.Run("assembly failure persists the row and wakes the waiter", func(t *testing.T) {
		svc, d := newDispatchSvc(t)
		tk := newTestTask("acct-1")

		assembleErr := errors.New("selector map unavailable")
		d.admission.EXPECT().CheckRankLimit(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		d.assembler.EXPECT().Assemble(gomock.Any(), gomock.Any()).Return(assembleErr)

		var persisted domaintask.Task
		d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, t domaintask.Task) (domaintask.Task, error) {
				persisted = t
				return t, nil
			})
		d.waiter.EXPECT().DoneWith(gomock.Any(), tk.WaitID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, r domaintask.Result) error {
				assert.Contains(t, r.ErrorMessage, assembleErr.Error())
				return nil
			})

		_, err := svc.QueueTask(ctx, tk)
		require.ErrorIs(t, err, assembleErr)
		assert.Equal(t, domaintask.StatusError, persisted.Status)
	})

	t.Run("no eligible delegates rejects, persists and wakes the waiter", func(t *testing.T) {
		svc, d := newDispatchSvc(t)
		tk := newTestTask("acct-1")

		d.admission.EXPECT().CheckRankLimit(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		d.assembler.EXPECT().Assemble(gomock.Any(), gomock.Any()).Return(nil)
		d.oracle.EXPECT().GetEligibleDelegates(gomock.Any(), gomock.Any()).Return(nil, nil)
		d.metrics.EXPECT().Inc(portmetrics.NoEligibleTargets)

		var persisted domaintask.Task
		d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, t domaintask.Task) (domaintask.Task, error) {
				persisted = t
				return t, nil
			})
		d.selection.EXPECT().NoEligibleDelegates(gomock.Any(), gomock.Any())
		d.oracle.EXPECT().AssignmentErrorMessage(gomock.Any(), gomock.Any()).Return("Delegates are not available", nil)
		d.waiter.EXPECT().DoneWith(gomock.Any(), tk.WaitID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, r domaintask.Result) error {
				assert.Equal(t, "Delegates are not available", r.ErrorMessage)
				return nil
			})

		_, err := svc.QueueTask(ctx, tk)
		require.ErrorIs(t, err, dispatch.ErrNoEligibleDelegates)
		assert.Equal(t, domaintask.StatusError, persisted.Status)
	})

	t.Run("sync submission with no connected delegate is rejected", func(t *testing.T) {
		svc, d := newDispatchSvc(t)
		tk := newTestTask("acct-1")
		tk.Data.Async = false

		d.admission.EXPECT().CheckRankLimit(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		d.assembler.EXPECT().Assemble(gomock.Any(), gomock.Any()).Return(nil)
		d.oracle.EXPECT().GetEligibleDelegates(gomock.Any(), gomock.Any()).Return([]string{"del-1"}, nil)
		d.oracle.EXPECT().GetConnectedDelegates(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		echoCreate(d)
		d.selection.EXPECT().Info(gomock.Any(), gomock.Any(), gomock.Any())
		d.oracle.EXPECT().NoInstalledDelegates(gomock.Any(), "acct-1").Return(false, nil)
		d.waiter.EXPECT().DoneWith(gomock.Any(), tk.WaitID, gomock.Any()).Return(nil)

		err := svc.ProcessTask(ctx, tk)
		require.ErrorIs(t, err, dispatch.ErrNoAvailableDelegates)
	})

	t.Run("sync submission to an account without delegates is rejected as not installed", func(t *testing.T) {
		svc, d := newDispatchSvc(t)
		tk := newTestTask("acct-1")
		tk.Data.Async = false
		tk.Tags = []string{"linux"}

		// A delegate can match on tags yet the fleet be empty of live ones;
		// the empty-fleet answer is the more actionable error.
		d.admission.EXPECT().CheckRankLimit(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		d.assembler.EXPECT().Assemble(gomock.Any(), gomock.Any()).Return(nil)
		d.oracle.EXPECT().GetEligibleDelegates(gomock.Any(), gomock.Any()).Return([]string{"del-1"}, nil)
		d.oracle.EXPECT().GetConnectedDelegates(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		echoCreate(d)
		d.selection.EXPECT().Info(gomock.Any(), gomock.Any(), gomock.Any())
		d.oracle.EXPECT().NoInstalledDelegates(gomock.Any(), "acct-1").Return(true, nil)
		d.waiter.EXPECT().DoneWith(gomock.Any(), tk.WaitID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, r domaintask.Result) error {
				assert.Equal(t, dispatch.ErrNoInstalledDelegates.Error(), r.ErrorMessage)
				return nil
			})

		err := svc.ProcessTask(ctx, tk)
		require.ErrorIs(t, err, dispatch.ErrNoInstalledDelegates)
	})

	t.Run("async submission with no connected delegate is queued without a target", func(t *testing.T) {
		svc, d := newDispatchSvc(t)
		tk := newTestTask("acct-1")

		d.admission.EXPECT().CheckRankLimit(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		d.assembler.EXPECT().Assemble(gomock.Any(), gomock.Any()).Return(nil)
		d.oracle.EXPECT().GetEligibleDelegates(gomock.Any(), gomock.Any()).Return([]string{"del-1"}, nil)
		d.oracle.EXPECT().GetConnectedDelegates(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		echoCreate(d)
		d.selection.EXPECT().EligibleDelegates(gomock.Any(), gomock.Any(), gomock.Any())
		d.bus.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
		d.metrics.EXPECT().Inc(portmetrics.TaskCreation)

		created, err := svc.QueueTask(ctx, tk)
		require.NoError(t, err)
		assert.Empty(t, created.BroadcastToDelegateIDs)
	})
}

func TestGetTask(t *testing.T) {
	ctx := context.Background()
	svc, d := newDispatchSvc(t)

	want := domaintask.New("acct-1", domaintask.Data{Type: "SHELL"}, domaintask.RankOptional)
	d.repo.EXPECT().GetByID(gomock.Any(), "acct-1", want.ID).Return(want, nil)

	got, err := svc.GetTask(ctx, "acct-1", want.ID)
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
}
