package event

import "time"

type Type string

const (
	TypeTaskQueued      Type = "task_queued"
	TypeTaskAssigned    Type = "task_assigned"
	TypeTaskAborted     Type = "task_aborted"
	TypeTaskExpired     Type = "task_expired"
	TypeDelegateOnline  Type = "delegate_online"
	TypeDelegateOffline Type = "delegate_offline"
)

// Channel is a domain-scoped Postgres NOTIFY channel.
// All event types within a domain share one LISTEN connection.
type Channel string

const (
	ChannelTask     Channel = "task"
	ChannelDelegate Channel = "delegate"
)

var typeToChannel = map[Type]Channel{
	TypeTaskQueued:      ChannelTask,
	TypeTaskAssigned:    ChannelTask,
	TypeTaskAborted:     ChannelTask,
	TypeTaskExpired:     ChannelTask,
	TypeDelegateOnline:  ChannelDelegate,
	TypeDelegateOffline: ChannelDelegate,
}

// ChannelFor returns the domain channel for a given event type.
func ChannelFor(t Type) Channel { return typeToChannel[t] }

// Event carries identifiers only, not full state. Subscribers fetch fresh
// state from the task repository.
type Event struct {
	Type       Type      `json:"type"`
	AccountID  string    `json:"account_id"`
	EntityID   string    `json:"entity_id"`
	DelegateID string    `json:"delegate_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

func New(eventType Type, accountID, entityID string) Event {
	return Event{
		Type:      eventType,
		AccountID: accountID,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
	}
}

// TaskEvent is one entry in the stream a polling delegate receives: either a
// queued task it is eligible for, or an abort notice for a task it holds.
type TaskEvent struct {
	AccountID string `json:"account_id"`
	TaskID    string `json:"task_id"`
	Sync      bool   `json:"sync"`
	TaskType  string `json:"task_type,omitempty"`
	Aborted   bool   `json:"aborted,omitempty"`
}
