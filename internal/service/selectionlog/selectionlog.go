package selectionlog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	domainlog "github.com/fleetmesh/dispatch/internal/domain/selectionlog"
	domaintask "github.com/fleetmesh/dispatch/internal/domain/task"
	portselectionlog "github.com/fleetmesh/dispatch/internal/port/selectionlog"
)

// Recorder writes the selection audit trail. Every write is best-effort: a
// selection log must never fail the scheduling operation that produced it,
// so storage errors are logged and swallowed here, at the only place that
// knows they are ignorable.
type Recorder struct {
	store portselectionlog.Store
}

func NewRecorder(store portselectionlog.Store) *Recorder {
	return &Recorder{store: store}
}

func (r *Recorder) NoEligibleDelegates(ctx context.Context, t *domaintask.Task) {
	r.save(ctx, domainlog.New(t.EffectiveAccountID(), t.ID,
		domainlog.ConclusionRejected, domainlog.MsgNoEligibleDelegates))
}

func (r *Recorder) EligibleDelegates(ctx context.Context, t *domaintask.Task, delegateIDs []string) {
	message := domainlog.MsgEligibleDelegates
	if selectors := selectorSummary(t); selectors != "" {
		message += " matching " + selectors
	}
	r.save(ctx, domainlog.New(t.EffectiveAccountID(), t.ID,
		domainlog.ConclusionInfo, message, delegateIDs...))
}

func (r *Recorder) Broadcast(ctx context.Context, t *domaintask.Task, delegateIDs []string) {
	r.save(ctx, domainlog.New(t.EffectiveAccountID(), t.ID,
		domainlog.ConclusionBroadcast, domainlog.MsgBroadcasting, delegateIDs...))
}

func (r *Recorder) NoWhitelisted(ctx context.Context, t *domaintask.Task) {
	r.save(ctx, domainlog.New(t.EffectiveAccountID(), t.ID,
		domainlog.ConclusionInfo, domainlog.MsgNoWhitelisted))
}

func (r *Recorder) Assigned(ctx context.Context, t *domaintask.Task, delegateID string) {
	r.save(ctx, domainlog.New(t.EffectiveAccountID(), t.ID,
		domainlog.ConclusionAssigned, domainlog.MsgTaskAssigned, delegateID))
}

func (r *Recorder) Rejected(ctx context.Context, t *domaintask.Task, delegateID, reason string) {
	r.save(ctx, domainlog.New(t.EffectiveAccountID(), t.ID,
		domainlog.ConclusionRejected, reason, delegateID))
}

func (r *Recorder) NotSelected(ctx context.Context, t *domaintask.Task, delegateID, reason string) {
	r.save(ctx, domainlog.New(t.EffectiveAccountID(), t.ID,
		domainlog.ConclusionNotSelected, reason, delegateID))
}

func (r *Recorder) ValidationFailed(ctx context.Context, t *domaintask.Task, delegateIDs []string) {
	message := domainlog.MsgValidationFailed + t.Description()
	r.save(ctx, domainlog.New(t.EffectiveAccountID(), t.ID,
		domainlog.ConclusionRejected, message, delegateIDs...))
}

func (r *Recorder) Info(ctx context.Context, t *domaintask.Task, message string) {
	r.save(ctx, domainlog.New(t.EffectiveAccountID(), t.ID,
		domainlog.ConclusionInfo, message))
}

// Fetch returns the full trail for a task ordered by event timestamp.
func (r *Recorder) Fetch(ctx context.Context, accountID, taskID string) ([]domainlog.Entry, error) {
	entries, err := r.store.ListByTask(ctx, accountID, taskID)
	if err != nil {
		return nil, fmt.Errorf("fetch selection logs: %w", err)
	}
	return entries, nil
}

func (r *Recorder) save(ctx context.Context, e domainlog.Entry) {
	if err := r.store.Append(ctx, e); err != nil {
		slog.WarnContext(ctx, "failed to record selection log entry",
			"task_id", e.TaskID, "conclusion", e.Conclusion, "error", err)
	}
}

func selectorSummary(t *domaintask.Task) string {
	selectorCaps := domaintask.SelectorCapabilities(t.ExecutionCapabilities)
	if len(selectorCaps) == 0 {
		return ""
	}
	descriptions := make([]string, 0, len(selectorCaps))
	for _, c := range selectorCaps {
		descriptions = append(descriptions, c.Description())
	}
	return strings.Join(descriptions, "; ")
}
