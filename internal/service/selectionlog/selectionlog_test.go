package selectionlog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainlog "github.com/fleetmesh/dispatch/internal/domain/selectionlog"
	domaintask "github.com/fleetmesh/dispatch/internal/domain/task"
	"github.com/fleetmesh/dispatch/internal/mocks"
	"github.com/fleetmesh/dispatch/internal/service/selectionlog"
)

func newRecorder(t *testing.T) (*selectionlog.Recorder, *mocks.MockSelectionLogStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSelectionLogStore(ctrl)
	return selectionlog.NewRecorder(store), store
}

func auditTask() domaintask.Task {
	return domaintask.New("acct-1", domaintask.Data{Type: "HTTP"}, domaintask.RankOptional)
}

func TestRecorderEntries(t *testing.T) {
	ctx := context.Background()

	t.Run("assigned entry carries the winning delegate", func(t *testing.T) {
		rec, store := newRecorder(t)
		tk := auditTask()

		store.EXPECT().Append(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e domainlog.Entry) error {
				assert.Equal(t, domainlog.ConclusionAssigned, e.Conclusion)
				assert.Equal(t, []string{"del-1"}, e.DelegateIDs)
				assert.Equal(t, tk.ID, e.TaskID)
				return nil
			})

		rec.Assigned(ctx, &tk, "del-1")
	})

	t.Run("eligible entry names the matching selectors", func(t *testing.T) {
		rec, store := newRecorder(t)
		tk := auditTask()
		tk.ExecutionCapabilities = []domaintask.Capability{
			domaintask.SelectorCapability{Selectors: []string{"linux"}, Origin: domaintask.OriginTaskSelectors},
		}

		store.EXPECT().Append(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e domainlog.Entry) error {
				assert.Equal(t, domainlog.ConclusionInfo, e.Conclusion)
				assert.Contains(t, e.Message, "Task Selectors: [linux]")
				return nil
			})

		rec.EligibleDelegates(ctx, &tk, []string{"del-1", "del-2"})
	})

	t.Run("no eligible delegates uses the canonical rejection message", func(t *testing.T) {
		rec, store := newRecorder(t)
		tk := auditTask()

		store.EXPECT().Append(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e domainlog.Entry) error {
				assert.Equal(t, domainlog.ConclusionRejected, e.Conclusion)
				assert.Equal(t, domainlog.MsgNoEligibleDelegates, e.Message)
				return nil
			})

		rec.NoEligibleDelegates(ctx, &tk)
	})

	t.Run("hosted execution files under the submitting tenant", func(t *testing.T) {
		rec, store := newRecorder(t)
		tk := auditTask()
		tk.HostedExecution = true
		tk.SecondaryAccountID = "tenant-9"

		store.EXPECT().Append(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e domainlog.Entry) error {
				assert.Equal(t, "tenant-9", e.AccountID)
				return nil
			})

		rec.Info(ctx, &tk, "queued")
	})
}

func TestRecorderSwallowsStoreErrors(t *testing.T) {
	ctx := context.Background()
	rec, store := newRecorder(t)
	tk := auditTask()

	store.EXPECT().Append(gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

	// Must not panic or propagate; selection logs are advisory.
	rec.Broadcast(ctx, &tk, []string{"del-1"})
}

func TestFetch(t *testing.T) {
	ctx := context.Background()
	rec, store := newRecorder(t)

	want := []domainlog.Entry{domainlog.New("acct-1", "task-1", domainlog.ConclusionInfo, "queued")}
	store.EXPECT().ListByTask(gomock.Any(), "acct-1", "task-1").Return(want, nil)

	got, err := rec.Fetch(ctx, "acct-1", "task-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
