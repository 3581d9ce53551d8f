package selectionlog

import "time"

// Conclusion classifies one selection decision.
type Conclusion string

const (
	ConclusionSelected    Conclusion = "Selected"
	ConclusionNotSelected Conclusion = "Not Selected"
	ConclusionAssigned    Conclusion = "Assigned"
	ConclusionRejected    Conclusion = "Rejected"
	ConclusionBroadcast   Conclusion = "Broadcast"
	ConclusionInfo        Conclusion = "Info"
)

// Canonical messages rendered into entries. Kept as constants so the trail
// stays greppable across tenants.
const (
	MsgNoEligibleDelegates = "No eligible delegate(s) in account to execute task. "
	MsgEligibleDelegates   = "Delegate(s) eligible to execute task"
	MsgBroadcasting        = "Broadcasting to delegate(s)"
	MsgTaskAssigned        = "Delegate assigned for task execution"
	MsgNoWhitelisted       = "No whitelisted delegate for task, falling back to random broadcast target"
	MsgValidationFailed    = "No eligible delegate was able to confirm that it has the capability to execute "
)

// Entry is one append-only selection-decision record. Entries are advisory:
// a failed write must never fail the scheduling operation that produced it.
type Entry struct {
	AccountID      string     `json:"account_id"`
	TaskID         string     `json:"task_id"`
	DelegateIDs    []string   `json:"delegate_ids,omitempty"`
	Conclusion     Conclusion `json:"conclusion"`
	Message        string     `json:"message"`
	EventTimestamp time.Time  `json:"event_timestamp"`
}

func New(accountID, taskID string, conclusion Conclusion, message string, delegateIDs ...string) Entry {
	return Entry{
		AccountID:      accountID,
		TaskID:         taskID,
		DelegateIDs:    delegateIDs,
		Conclusion:     conclusion,
		Message:        message,
		EventTimestamp: time.Now().UTC(),
	}
}
