package admission_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fleetmesh/dispatch/internal/adapter/memory"
	domaintask "github.com/fleetmesh/dispatch/internal/domain/task"
	"github.com/fleetmesh/dispatch/internal/mocks"
	"github.com/fleetmesh/dispatch/internal/service/admission"
)

func newAdmissionSvc(t *testing.T, limits admission.Limits) (*admission.Service, *mocks.MockTaskRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockTaskRepository(ctrl)
	svc := admission.NewService(repo, memory.NewCache(), limits, time.Minute)
	return svc, repo
}

func TestCheckRankLimit(t *testing.T) {
	ctx := context.Background()

	t.Run("admits below the ceiling", func(t *testing.T) {
		svc, repo := newAdmissionSvc(t, admission.Limits{Optional: 10})
		repo.EXPECT().CountActive(gomock.Any(), "acct-1",
			domaintask.RankOptional, domaintask.RankImportant, domaintask.RankCritical).Return(3, nil)

		require.NoError(t, svc.CheckRankLimit(ctx, "acct-1", domaintask.RankOptional))
	})

	t.Run("rejects at the ceiling", func(t *testing.T) {
		svc, repo := newAdmissionSvc(t, admission.Limits{Optional: 10})
		repo.EXPECT().CountActive(gomock.Any(), "acct-1", gomock.Any(), gomock.Any(), gomock.Any()).Return(10, nil)

		err := svc.CheckRankLimit(ctx, "acct-1", domaintask.RankOptional)
		require.ErrorIs(t, err, admission.ErrRateLimitExceeded)
	})

	t.Run("critical rank only counts critical tasks", func(t *testing.T) {
		svc, repo := newAdmissionSvc(t, admission.Limits{Critical: 5})
		repo.EXPECT().CountActive(gomock.Any(), "acct-1", domaintask.RankCritical).Return(1, nil)

		require.NoError(t, svc.CheckRankLimit(ctx, "acct-1", domaintask.RankCritical))
	})

	t.Run("zero ceiling disables the check", func(t *testing.T) {
		svc, _ := newAdmissionSvc(t, admission.Limits{})
		require.NoError(t, svc.CheckRankLimit(ctx, "acct-1", domaintask.RankOptional))
	})

	t.Run("fails open when the count is unavailable", func(t *testing.T) {
		svc, repo := newAdmissionSvc(t, admission.Limits{Optional: 10})
		repo.EXPECT().CountActive(gomock.Any(), "acct-1", gomock.Any(), gomock.Any(), gomock.Any()).
			Return(0, errors.New("connection refused"))

		require.NoError(t, svc.CheckRankLimit(ctx, "acct-1", domaintask.RankOptional))
	})

	t.Run("memoises the count within the TTL", func(t *testing.T) {
		svc, repo := newAdmissionSvc(t, admission.Limits{Optional: 10})
		// One repository hit serves both checks.
		repo.EXPECT().CountActive(gomock.Any(), "acct-1", gomock.Any(), gomock.Any(), gomock.Any()).Return(3, nil).Times(1)

		require.NoError(t, svc.CheckRankLimit(ctx, "acct-1", domaintask.RankOptional))
		require.NoError(t, svc.CheckRankLimit(ctx, "acct-1", domaintask.RankOptional))
	})

	t.Run("burst past the ceiling inside one window is tolerated", func(t *testing.T) {
		svc, repo := newAdmissionSvc(t, admission.Limits{Optional: 10})
		repo.EXPECT().CountActive(gomock.Any(), "acct-1", gomock.Any(), gomock.Any(), gomock.Any()).Return(9, nil).Times(1)

		// Both admissions read the same memoised 9 < 10.
		require.NoError(t, svc.CheckRankLimit(ctx, "acct-1", domaintask.RankOptional))
		require.NoError(t, svc.CheckRankLimit(ctx, "acct-1", domaintask.RankOptional))
	})

	t.Run("rejection message names the account and limit", func(t *testing.T) {
		svc, repo := newAdmissionSvc(t, admission.Limits{Important: 2})
		repo.EXPECT().CountActive(gomock.Any(), "acct-1",
			domaintask.RankImportant, domaintask.RankCritical).Return(2, nil)

		err := svc.CheckRankLimit(ctx, "acct-1", domaintask.RankImportant)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "acct-1")
		assert.Contains(t, err.Error(), "limit 2")
	})
}
