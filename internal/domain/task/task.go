package task

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusQueued  Status = "queued"
	StatusStarted Status = "started"
	StatusAborted Status = "aborted"
	StatusError   Status = "error"
)

// RunningStatuses are the statuses a task can hold while it still occupies
// the dispatch pipeline; expiry and abort only apply to these.
func RunningStatuses() []Status {
	return []Status{StatusQueued, StatusStarted}
}

type Rank string

const (
	RankCritical  Rank = "critical"
	RankImportant Rank = "important"
	RankOptional  Rank = "optional"
)

type SerializationFormat string

const (
	FormatKryo SerializationFormat = "kryo"
	FormatJSON SerializationFormat = "json"
)

// Data is the canonical task payload. Legacy and versioned submissions are
// both converted into this shape at the transport boundary, so the core has
// exactly one payload code path.
type Data struct {
	Type                string              `json:"type"`
	Parameters          map[string]string   `json:"parameters,omitempty"`
	Payload             []byte              `json:"payload,omitempty"`
	Timeout             time.Duration       `json:"timeout"`
	Async               bool                `json:"async"`
	SerializationFormat SerializationFormat `json:"serialization_format,omitempty"`
}

// Task is one unit of dispatchable work. Its row is the only shared mutable
// state between manager replicas and polling delegates; every mutation path
// that can race goes through a conditional update on it.
type Task struct {
	ID                 string `json:"id"`
	AccountID          string `json:"account_id"`
	SecondaryAccountID string `json:"secondary_account_id,omitempty"` // original tenant after a global-account remap
	WaitID             string `json:"wait_id,omitempty"`

	Data                  Data              `json:"data"`
	Tags                  []string          `json:"tags,omitempty"`
	SetupAbstractions     map[string]string `json:"setup_abstractions,omitempty"`
	ExecutionCapabilities []Capability      `json:"execution_capabilities,omitempty"`
	HostedExecution       bool              `json:"hosted_execution,omitempty"`
	SecretVaultURLs       []string          `json:"secret_vault_urls,omitempty"`

	Status          Status    `json:"status"`
	Rank            Rank      `json:"rank"`
	Expiry          time.Time `json:"expiry"`
	NextBroadcast   time.Time `json:"next_broadcast"`
	LastBroadcastAt time.Time `json:"last_broadcast_at"`
	BroadcastRound  int       `json:"broadcast_round"`

	EligibleDelegateIDs           []string   `json:"eligible_delegate_ids,omitempty"`
	BroadcastToDelegateIDs        []string   `json:"broadcast_to_delegate_ids,omitempty"`
	ValidatingDelegateIDs         []string   `json:"validating_delegate_ids,omitempty"`
	ValidationCompleteDelegateIDs []string   `json:"validation_complete_delegate_ids,omitempty"`
	ValidationStartedAt           *time.Time `json:"validation_started_at,omitempty"`
	DelegateID                    *string    `json:"delegate_id,omitempty"`
	DelegateInstanceID            *string    `json:"delegate_instance_id,omitempty"`

	// NonAssignableDelegates maps a rejection reason to the delegates it
	// excluded. Diagnostic only; never drives scheduling.
	NonAssignableDelegates map[string][]string `json:"non_assignable_delegates,omitempty"`
	ActivityLog            []string            `json:"activity_log,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func New(accountID string, data Data, rank Rank) Task {
	now := time.Now().UTC()
	id := uuid.NewString()
	return Task{
		ID:        id,
		AccountID: accountID,
		WaitID:    id,
		Data:      data,
		Status:    StatusQueued,
		Rank:      rank,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// EnsureIdentity fills the generated-once fields for tasks built by callers
// that did not go through New. The wait id defaults to the task id so the
// original caller can always be woken by id alone.
func (t *Task) EnsureIdentity() {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.WaitID == "" {
		t.WaitID = t.ID
	}
}

// EffectiveAccountID is the tenant a selection-log entry is filed under: the
// submitting tenant survives in SecondaryAccountID after a global-account
// remap.
func (t *Task) EffectiveAccountID() string {
	if t.HostedExecution && t.SecondaryAccountID != "" {
		return t.SecondaryAccountID
	}
	return t.AccountID
}

// AddActivity appends a trace line to the task's in-memory activity log.
func (t *Task) AddActivity(message string) {
	t.ActivityLog = append(t.ActivityLog, message)
}

// IsEligible reports whether the delegate was in the computed eligible set.
func (t *Task) IsEligible(delegateID string) bool {
	for _, id := range t.EligibleDelegateIDs {
		if id == delegateID {
			return true
		}
	}
	return false
}

func (t *Task) Description() string {
	return fmt.Sprintf("%s task %s", t.Data.Type, t.ID)
}

// ListFilters narrows repository list queries.
type ListFilters struct {
	AccountID  *string
	Status     *Status
	DelegateID *string
	Unassigned bool // WHERE delegate_id IS NULL
	Async      *bool
}
