package task

// Result is the terminal outcome delivered to the original caller through
// the wait/notify engine or the sync-response placeholder.
type Result struct {
	TaskID       string `json:"task_id"`
	AccountID    string `json:"account_id"`
	ErrorMessage string `json:"error_message,omitempty"`
	Expired      bool   `json:"expired,omitempty"`
	Aborted      bool   `json:"aborted,omitempty"`
	Data         []byte `json:"data,omitempty"`
}

func (r Result) Failed() bool {
	return r.ErrorMessage != ""
}
