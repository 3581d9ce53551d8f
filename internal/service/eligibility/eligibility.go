package eligibility

import (
	"context"
	"fmt"
	"strings"
	"time"

	domaindelegate "github.com/fleetmesh/dispatch/internal/domain/delegate"
	domaintask "github.com/fleetmesh/dispatch/internal/domain/task"
	portdelegate "github.com/fleetmesh/dispatch/internal/port/delegate"
)

// Presence answers whether a delegate holds a live poll or push connection
// right now. Implemented by the websocket hub.
type Presence interface {
	IsConnected(accountID, delegateID string) bool
}

// ProofCache holds recent capability proofs. A delegate with a fresh proof
// for every agent-evaluated capability of a task is whitelisted and skips
// the validation handshake.
type ProofCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Service implements port/eligibility.Oracle against the delegate registry,
// live connection state and the capability-proof cache.
type Service struct {
	delegates portdelegate.Reader
	presence  Presence
	proofs    ProofCache
	proofTTL  time.Duration
}

func NewService(delegates portdelegate.Reader, presence Presence, proofs ProofCache, proofTTL time.Duration) *Service {
	return &Service{delegates: delegates, presence: presence, proofs: proofs, proofTTL: proofTTL}
}

// GetEligibleDelegates returns every enabled delegate whose tags satisfy all
// of the task's selector capabilities. Order follows the registry listing;
// the caller shuffles.
func (s *Service) GetEligibleDelegates(ctx context.Context, t domaintask.Task) ([]string, error) {
	delegates, err := s.delegates.List(ctx, t.AccountID)
	if err != nil {
		return nil, fmt.Errorf("listing delegates: %w", err)
	}

	selectors := allSelectors(t)

	var eligible []string
	for _, d := range delegates {
		if !d.CanAcquire() {
			continue
		}
		if !d.HasAllTags(selectors) {
			continue
		}
		eligible = append(eligible, d.ID)
	}
	return eligible, nil
}

func (s *Service) GetConnectedDelegates(ctx context.Context, accountID string, delegateIDs []string) ([]string, error) {
	var connected []string
	for _, id := range delegateIDs {
		if s.presence.IsConnected(accountID, id) {
			connected = append(connected, id)
		}
	}
	return connected, nil
}

// IsWhitelisted reports whether the delegate holds a fresh proof for every
// agent-evaluated capability of the task. A task with no agent capabilities
// whitelists everyone.
func (s *Service) IsWhitelisted(ctx context.Context, t domaintask.Task, delegateID string) (bool, error) {
	for _, c := range domaintask.AgentCapabilities(t.ExecutionCapabilities) {
		if _, err := s.proofs.Get(ctx, proofKey(t.AccountID, delegateID, c.Description())); err != nil {
			return false, nil
		}
	}
	return true, nil
}

func (s *Service) ShouldValidate(ctx context.Context, t domaintask.Task, delegateID string) (bool, error) {
	if len(domaintask.AgentCapabilities(t.ExecutionCapabilities)) == 0 {
		return false, nil
	}
	whitelisted, err := s.IsWhitelisted(ctx, t, delegateID)
	if err != nil {
		return false, err
	}
	return !whitelisted, nil
}

// RecordProof whitelists one capability for a delegate after a successful
// validation report.
func (s *Service) RecordProof(ctx context.Context, accountID, delegateID, criteria string) error {
	return s.proofs.Set(ctx, proofKey(accountID, delegateID, criteria), []byte("ok"), s.proofTTL)
}

func (s *Service) NoInstalledDelegates(ctx context.Context, accountID string) (bool, error) {
	delegates, err := s.delegates.List(ctx, accountID)
	if err != nil {
		return false, fmt.Errorf("listing delegates: %w", err)
	}
	for _, d := range delegates {
		if d.Status != domaindelegate.StatusDeleted {
			return false, nil
		}
	}
	return true, nil
}

// AssignmentErrorMessage explains to the submitter why nothing could run the
// task, distinguishing an empty fleet from a selector mismatch.
func (s *Service) AssignmentErrorMessage(ctx context.Context, t domaintask.Task) (string, error) {
	none, err := s.NoInstalledDelegates(ctx, t.AccountID)
	if err != nil {
		return "", err
	}
	if none {
		return "Delegates are not available", nil
	}
	if selectors := allSelectors(t); len(selectors) > 0 {
		return fmt.Sprintf("No eligible delegates could perform the required capabilities for this task: [ %s ]",
			strings.Join(selectors, ", ")), nil
	}
	return "No eligible delegates to execute the task", nil
}

func allSelectors(t domaintask.Task) []string {
	var selectors []string
	for _, c := range domaintask.SelectorCapabilities(t.ExecutionCapabilities) {
		selectors = append(selectors, c.Selectors...)
	}
	return selectors
}

func proofKey(accountID, delegateID, criteria string) string {
	return "capability_proof:" + accountID + ":" + delegateID + ":" + criteria
}
