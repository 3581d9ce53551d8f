package admission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	domaintask "github.com/fleetmesh/dispatch/internal/domain/task"
	porttask "github.com/fleetmesh/dispatch/internal/port/task"
)

// ErrRateLimitExceeded rejects a submission whose tenant already carries too
// many active tasks at or above the submitted rank.
var ErrRateLimitExceeded = errors.New("task rate limit exceeded")

// Counter is the cache the memoised count lives in.
type Counter interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Limits are per-rank ceilings on concurrently active tasks per tenant.
// A zero ceiling disables the check for that rank.
type Limits struct {
	Critical  int
	Important int
	Optional  int
}

// Service enforces admission control with a deliberately approximate
// counter: the active-task count is memoised for a fixed TTL, so a burst can
// overshoot a ceiling by the number of submissions that land inside one
// refresh window. Cheap and good enough; exactness would put a count query
// on every submission.
type Service struct {
	repo   porttask.Repository
	memo   Counter
	limits Limits
	ttl    time.Duration
}

func NewService(repo porttask.Repository, memo Counter, limits Limits, ttl time.Duration) *Service {
	return &Service{repo: repo, memo: memo, limits: limits, ttl: ttl}
}

// CheckRankLimit admits or rejects a submission at the given rank. A task
// counts against every ceiling at or below its rank: critical tasks consume
// optional headroom, never the other way around.
func (s *Service) CheckRankLimit(ctx context.Context, accountID string, rank domaintask.Rank) error {
	limit := s.limitFor(rank)
	if limit <= 0 {
		return nil
	}

	count, err := s.activeCount(ctx, accountID, rank)
	if err != nil {
		// Fail open: admission control protects capacity, it is not a
		// correctness gate.
		slog.WarnContext(ctx, "admission count unavailable, admitting task",
			"account_id", accountID, "rank", rank, "error", err)
		return nil
	}

	if count >= limit {
		return fmt.Errorf("%w: account %s has %d active tasks at rank %s or above (limit %d)",
			ErrRateLimitExceeded, accountID, count, rank, limit)
	}
	return nil
}

func (s *Service) activeCount(ctx context.Context, accountID string, rank domaintask.Rank) (int, error) {
	key := "active_tasks:" + accountID + ":" + string(rank)

	if raw, err := s.memo.Get(ctx, key); err == nil {
		if count, err := strconv.Atoi(string(raw)); err == nil {
			return count, nil
		}
	}

	count, err := s.repo.CountActive(ctx, accountID, ranksAtOrAbove(rank)...)
	if err != nil {
		return 0, err
	}
	if err := s.memo.Set(ctx, key, []byte(strconv.Itoa(count)), s.ttl); err != nil {
		slog.WarnContext(ctx, "failed to memoise admission count", "account_id", accountID, "error", err)
	}
	return count, nil
}

func (s *Service) limitFor(rank domaintask.Rank) int {
	switch rank {
	case domaintask.RankCritical:
		return s.limits.Critical
	case domaintask.RankImportant:
		return s.limits.Important
	default:
		return s.limits.Optional
	}
}

func ranksAtOrAbove(rank domaintask.Rank) []domaintask.Rank {
	switch rank {
	case domaintask.RankCritical:
		return []domaintask.Rank{domaintask.RankCritical}
	case domaintask.RankImportant:
		return []domaintask.Rank{domaintask.RankImportant, domaintask.RankCritical}
	default:
		return []domaintask.Rank{domaintask.RankOptional, domaintask.RankImportant, domaintask.RankCritical}
	}
}
