package task

// Package is what a delegate receives when it acquires a task or is asked to
// validate capabilities. During validation the secrets map carries masked
// placeholders (dry-run resolution); on assignment it carries live values.
type Package struct {
	AccountID          string       `json:"account_id"`
	TaskID             string       `json:"task_id"`
	DelegateID         string       `json:"delegate_id,omitempty"`
	DelegateInstanceID string       `json:"delegate_instance_id,omitempty"`
	Data               Data         `json:"data"`
	// Capabilities the delegate must evaluate locally (agent mode only).
	ExecutionCapabilities []Capability      `json:"execution_capabilities,omitempty"`
	Secrets               map[string]string `json:"secrets,omitempty"`
}

// Empty reports whether the package carries no task, the normal outcome for
// a delegate that lost the assignment race.
func (p Package) Empty() bool {
	return p.TaskID == ""
}

// ConnectionResult is a delegate's verdict on one agent-evaluated
// capability.
type ConnectionResult struct {
	Criteria  string `json:"criteria"`
	Validated bool   `json:"validated"`
}
