package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/fleetmesh/dispatch/internal/domain/event"
	domaintask "github.com/fleetmesh/dispatch/internal/domain/task"
	portdelegate "github.com/fleetmesh/dispatch/internal/port/delegate"
	porteligibility "github.com/fleetmesh/dispatch/internal/port/eligibility"
	portbus "github.com/fleetmesh/dispatch/internal/port/eventbus"
	portlocker "github.com/fleetmesh/dispatch/internal/port/locker"
	portmetrics "github.com/fleetmesh/dispatch/internal/port/metrics"
	portresolver "github.com/fleetmesh/dispatch/internal/port/resolver"
	porttask "github.com/fleetmesh/dispatch/internal/port/task"
	portwaiter "github.com/fleetmesh/dispatch/internal/port/waiter"
)

var (
	// ErrNoEligibleDelegates rejects a submission when the eligibility oracle
	// returns an empty set. The task row is still persisted for audit.
	ErrNoEligibleDelegates = errors.New("no eligible delegates in account to execute task")
	// ErrNoAvailableDelegates rejects a synchronous submission when eligible
	// delegates exist but none is connected right now.
	ErrNoAvailableDelegates = errors.New("no connected delegates available to execute task")
	// ErrNoInstalledDelegates rejects a synchronous submission when the
	// account has no delegates installed at all, as opposed to delegates that
	// exist but are disconnected.
	ErrNoInstalledDelegates = errors.New("no delegates installed in account")
	// ErrNoGlobalDelegateAccount rejects a hosted-execution submission when no
	// global delegate account is configured to run it under.
	ErrNoGlobalDelegateAccount = errors.New("no global delegate account configured for hosted execution")
)

// SelectionRecorder is the selection-audit surface the dispatcher writes to.
// All methods are fire-and-forget; the recorder swallows storage errors.
type SelectionRecorder interface {
	NoEligibleDelegates(ctx context.Context, t *domaintask.Task)
	EligibleDelegates(ctx context.Context, t *domaintask.Task, delegateIDs []string)
	Broadcast(ctx context.Context, t *domaintask.Task, delegateIDs []string)
	NoWhitelisted(ctx context.Context, t *domaintask.Task)
	Assigned(ctx context.Context, t *domaintask.Task, delegateID string)
	Rejected(ctx context.Context, t *domaintask.Task, delegateID, reason string)
	NotSelected(ctx context.Context, t *domaintask.Task, delegateID, reason string)
	ValidationFailed(ctx context.Context, t *domaintask.Task, delegateIDs []string)
	Info(ctx context.Context, t *domaintask.Task, message string)
}

// Admission gates submissions by tenant and rank.
type Admission interface {
	CheckRankLimit(ctx context.Context, accountID string, rank domaintask.Rank) error
}

// Assembler attaches execution capabilities before queueing.
type Assembler interface {
	Assemble(ctx context.Context, t *domaintask.Task) error
}

// ProofRecorder whitelists capabilities proven by a validation report.
type ProofRecorder interface {
	RecordProof(ctx context.Context, accountID, delegateID, criteria string) error
}

// Pusher delivers real-time task events to connected delegates, alongside
// (not instead of) the poll channel.
type Pusher interface {
	PushTaskEvent(accountID string, ev event.TaskEvent)
}

// Config carries the dispatcher's timing knobs.
type Config struct {
	// DefaultTimeout applies when a submission carries no timeout.
	DefaultTimeout time.Duration
	// AsyncBroadcastFloor is the minimum delay before an async task may be
	// rebroadcast, giving the first broadcast time to land.
	AsyncBroadcastFloor time.Duration
	// SweepBatchSize caps how many tasks one expiry or rebroadcast sweep
	// processes.
	SweepBatchSize int
	// GlobalAccountID is the platform account whose fleet runs
	// hosted-execution tasks. Empty means hosted execution is unavailable.
	GlobalAccountID string
}

func (c Config) withDefaults() Config {
	if c.DefaultTimeout <= 0 {
		c.DefaultTimeout = 10 * time.Minute
	}
	if c.AsyncBroadcastFloor <= 0 {
		c.AsyncBroadcastFloor = 5 * time.Second
	}
	if c.SweepBatchSize <= 0 {
		c.SweepBatchSize = 100
	}
	return c
}

// Service is the dispatch core: it queues tasks, runs the broadcast/poll
// protocol and the validation handshake, and performs the optimistic
// assignment hand-off. The task row is the only coordination point; every
// racing mutation is a conditional update and losing a race is a normal,
// silent outcome.
type Service struct {
	repo      porttask.Repository
	delegates portdelegate.Reader
	oracle    porteligibility.Oracle
	proofs    ProofRecorder
	admission Admission
	assembler Assembler
	resolver  portresolver.Resolver
	selection SelectionRecorder
	waiter    portwaiter.WaitNotify
	bus       portbus.EventBus
	pusher    Pusher
	metrics   portmetrics.Sink
	locker    portlocker.AdvisoryLocker
	cfg       Config
}

func NewService(
	repo porttask.Repository,
	delegates portdelegate.Reader,
	oracle porteligibility.Oracle,
	proofs ProofRecorder,
	admission Admission,
	assembler Assembler,
	resolver portresolver.Resolver,
	selection SelectionRecorder,
	waiter portwaiter.WaitNotify,
	bus portbus.EventBus,
	pusher Pusher,
	metrics portmetrics.Sink,
	locker portlocker.AdvisoryLocker,
	cfg Config,
) *Service {
	return &Service{
		repo:      repo,
		delegates: delegates,
		oracle:    oracle,
		proofs:    proofs,
		admission: admission,
		assembler: assembler,
		resolver:  resolver,
		selection: selection,
		waiter:    waiter,
		bus:       bus,
		pusher:    pusher,
		metrics:   metrics,
		locker:    locker,
		cfg:       cfg.withDefaults(),
	}
}

// QueueTask submits an asynchronous task: process, persist, broadcast,
// return. The caller collects the result later through the wait id.
func (s *Service) QueueTask(ctx context.Context, t *domaintask.Task) (domaintask.Task, error) {
	t.Data.Async = true
	if err := s.ProcessTask(ctx, t); err != nil {
		return domaintask.Task{}, err
	}
	return *t, nil
}

// ExecuteTask submits a synchronous task and blocks until a delegate
// delivers the result or the task's deadline passes.
func (s *Service) ExecuteTask(ctx context.Context, t *domaintask.Task) (domaintask.Result, error) {
	t.Data.Async = false
	if err := s.ProcessTask(ctx, t); err != nil {
		return domaintask.Result{}, err
	}

	// The expiry sweep delivers the expired result; the extra grace keeps
	// this waiter alive long enough to receive it.
	waitCtx, cancel := context.WithDeadline(ctx, t.Expiry.Add(30*time.Second))
	defer cancel()

	result, err := s.waiter.WaitForTask(waitCtx, t.WaitID)
	if err != nil {
		return domaintask.Result{}, fmt.Errorf("waiting for task %s: %w", t.ID, err)
	}
	return result, nil
}

// ProcessTask runs the shared submission pipeline: identity, admission,
// capability assembly, eligibility, first-broadcast target selection,
// persistence. Rejected submissions are still persisted with a terminal
// selection-log entry so the audit trail explains what happened.
func (s *Service) ProcessTask(ctx context.Context, t *domaintask.Task) error {
	t.EnsureIdentity()
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	t.Status = domaintask.StatusQueued

	// Hosted execution runs on the platform's global fleet: the submitting
	// tenant survives in SecondaryAccountID so the audit trail stays theirs.
	if t.HostedExecution && t.SecondaryAccountID == "" {
		if s.cfg.GlobalAccountID == "" {
			return s.failSubmission(ctx, t, ErrNoGlobalDelegateAccount, ErrNoGlobalDelegateAccount.Error())
		}
		t.SecondaryAccountID = t.AccountID
		t.AccountID = s.cfg.GlobalAccountID
	}

	if t.Rank == "" {
		t.Rank = domaintask.RankOptional
	}
	if t.Data.Timeout <= 0 {
		t.Data.Timeout = s.cfg.DefaultTimeout
	}

	if err := s.admission.CheckRankLimit(ctx, t.AccountID, t.Rank); err != nil {
		s.persistRejected(ctx, t, err.Error())
		return s.failSubmission(ctx, t, err, err.Error())
	}

	if err := s.assembler.Assemble(ctx, t); err != nil {
		wrapped := fmt.Errorf("assembling capabilities for task %s: %w", t.ID, err)
		s.persistRejected(ctx, t, "")
		return s.failSubmission(ctx, t, wrapped, wrapped.Error())
	}

	eligible, err := s.oracle.GetEligibleDelegates(ctx, *t)
	if err != nil {
		wrapped := fmt.Errorf("computing eligibility for task %s: %w", t.ID, err)
		s.persistRejected(ctx, t, "")
		return s.failSubmission(ctx, t, wrapped, wrapped.Error())
	}
	if len(eligible) == 0 {
		s.metrics.Inc(portmetrics.NoEligibleTargets)
		s.persistRejected(ctx, t, "")
		s.selection.NoEligibleDelegates(ctx, t)
		reason, rerr := s.oracle.AssignmentErrorMessage(ctx, *t)
		if rerr != nil {
			reason = ErrNoEligibleDelegates.Error()
		}
		return s.failSubmission(ctx, t, fmt.Errorf("%w: %s", ErrNoEligibleDelegates, reason), reason)
	}

	// Shuffle once and persist: rebroadcast reuses this order, so load
	// spreads without any preferred ordering.
	shuffled := append([]string(nil), eligible...)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	t.EligibleDelegateIDs = shuffled

	connected, err := s.oracle.GetConnectedDelegates(ctx, t.AccountID, shuffled)
	if err != nil {
		wrapped := fmt.Errorf("checking connected delegates for task %s: %w", t.ID, err)
		s.persistRejected(ctx, t, "")
		return s.failSubmission(ctx, t, wrapped, wrapped.Error())
	}
	if len(connected) == 0 && !t.Data.Async {
		s.persistRejected(ctx, t, "")
		s.selection.Info(ctx, t, "No connected delegate to execute synchronous task")
		// Distinguish an empty fleet from a fleet that is merely offline; the
		// caller's remediation differs.
		if none, nerr := s.oracle.NoInstalledDelegates(ctx, t.AccountID); nerr == nil && none {
			return s.failSubmission(ctx, t, ErrNoInstalledDelegates, ErrNoInstalledDelegates.Error())
		}
		return s.failSubmission(ctx, t, ErrNoAvailableDelegates, ErrNoAvailableDelegates.Error())
	}

	t.Expiry = now.Add(t.Data.Timeout)
	t.LastBroadcastAt = now
	t.NextBroadcast = now
	if t.Data.Async {
		t.NextBroadcast = now.Add(s.cfg.AsyncBroadcastFloor)
	}

	if len(connected) > 0 {
		target := s.firstBroadcastTarget(ctx, t, connected)
		t.BroadcastToDelegateIDs = []string{target}
	}

	created, err := s.repo.Create(ctx, *t)
	if err != nil {
		wrapped := fmt.Errorf("persisting task %s: %w", t.ID, err)
		return s.failSubmission(ctx, t, wrapped, wrapped.Error())
	}
	*t = created

	s.selection.EligibleDelegates(ctx, t, shuffled)
	if len(t.BroadcastToDelegateIDs) > 0 {
		s.selection.Broadcast(ctx, t, t.BroadcastToDelegateIDs)
		s.push(t, t.BroadcastToDelegateIDs)
	}

	if err := s.bus.Publish(ctx, event.New(event.TypeTaskQueued, t.AccountID, t.ID)); err != nil {
		slog.ErrorContext(ctx, "failed to publish task queued event", "task_id", t.ID, "error", err)
	}
	s.metrics.Inc(portmetrics.TaskCreation)

	slog.InfoContext(ctx, "task queued",
		"task_id", t.ID, "account_id", t.AccountID, "type", t.Data.Type,
		"rank", t.Rank, "async", t.Data.Async, "eligible", len(shuffled), "connected", len(connected))
	return nil
}

// firstBroadcastTarget walks the shuffled eligible order and returns the
// first connected delegate already whitelisted for this task. When none
// qualifies, fall back to a uniformly random connected delegate so coverage
// is guaranteed even without prior affinity.
func (s *Service) firstBroadcastTarget(ctx context.Context, t *domaintask.Task, connected []string) string {
	connectedSet := make(map[string]struct{}, len(connected))
	for _, id := range connected {
		connectedSet[id] = struct{}{}
	}

	for _, id := range t.EligibleDelegateIDs {
		if _, ok := connectedSet[id]; !ok {
			continue
		}
		whitelisted, err := s.oracle.IsWhitelisted(ctx, *t, id)
		if err != nil {
			slog.WarnContext(ctx, "whitelist lookup failed", "task_id", t.ID, "delegate_id", id, "error", err)
			continue
		}
		if whitelisted {
			return id
		}
	}

	s.metrics.Inc(portmetrics.NoFirstWhitelisted)
	s.selection.NoWhitelisted(ctx, t)
	return connected[rand.Intn(len(connected))]
}

// failSubmission is the single exit for every submission failure: the error
// is logged together with the task's activity trail, a terminal result is
// handed to anyone waiting on the task, and the error goes back to the
// caller. Async submitters see it at submit time, sync submitters through
// the released wait.
func (s *Service) failSubmission(ctx context.Context, t *domaintask.Task, err error, message string) error {
	slog.ErrorContext(ctx, "task submission failed",
		"task_id", t.ID, "account_id", t.AccountID, "type", t.Data.Type,
		"error", err, "activity_log", t.ActivityLog)
	s.waiter.DoneWith(ctx, t.WaitID, domaintask.Result{ //nolint:errcheck
		TaskID: t.ID, AccountID: t.AccountID, ErrorMessage: message,
	})
	return err
}

// persistRejected stores the row for a submission that never reaches the
// broadcast stage, so the audit trail survives the rejection.
func (s *Service) persistRejected(ctx context.Context, t *domaintask.Task, reason string) {
	t.Status = domaintask.StatusError
	if reason != "" {
		t.AddActivity(reason)
	}
	if _, err := s.repo.Create(ctx, *t); err != nil {
		slog.ErrorContext(ctx, "failed to persist rejected task", "task_id", t.ID, "error", err)
	}
	if reason != "" {
		s.selection.Info(ctx, t, reason)
	}
}

// GetTask returns one task row.
func (s *Service) GetTask(ctx context.Context, accountID, taskID string) (domaintask.Task, error) {
	t, err := s.repo.GetByID(ctx, accountID, taskID)
	if err != nil {
		return domaintask.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// ListTasks narrows the task table by the given filters.
func (s *Service) ListTasks(ctx context.Context, filters domaintask.ListFilters) ([]domaintask.Task, error) {
	tasks, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *Service) push(t *domaintask.Task, delegateIDs []string) {
	if s.pusher == nil {
		return
	}
	s.pusher.PushTaskEvent(t.AccountID, event.TaskEvent{
		AccountID: t.AccountID,
		TaskID:    t.ID,
		Sync:      !t.Data.Async,
		TaskType:  t.Data.Type,
	})
	_ = delegateIDs // the hub fans out per account; delegates filter by eligibility on acquire
}
