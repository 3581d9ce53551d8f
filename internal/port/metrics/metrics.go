package metrics

// Counter names emitted by the dispatch core.
const (
	TaskCreation       = "task_creation"
	TaskAcquire        = "task_acquire"
	TaskAcquireFailed  = "task_acquire_failed"
	TaskExpired        = "task_expired"
	NoEligibleTargets  = "no_eligible_delegates"
	NoFirstWhitelisted = "no_first_whitelisted"
	ValidationStarted  = "validation_started"
)

// Sink receives counter increments. Implementations must be safe for
// concurrent use and must never block the caller.
type Sink interface {
	Inc(name string)
}
