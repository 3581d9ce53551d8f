package delegate

type Status string

const (
	StatusEnabled  Status = "enabled"
	StatusDisabled Status = "disabled"
	StatusDeleted  Status = "deleted"
)

// Delegate is the manager's read-only view of a remote worker. Lifecycle
// (registration, heartbeats, enable/disable) is owned elsewhere; the
// dispatch core only checks identity and status.
type Delegate struct {
	ID        string   `json:"id"`
	AccountID string   `json:"account_id"`
	HostName  string   `json:"host_name"`
	Status    Status   `json:"status"`
	Tags      []string `json:"tags,omitempty"`
}

// HasAllTags reports whether every selector is among the delegate's tags.
// Matching is exact; tags are normalised at registration time.
func (d Delegate) HasAllTags(selectors []string) bool {
	for _, s := range selectors {
		found := false
		for _, t := range d.Tags {
			if t == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// CanAcquire reports whether the delegate may take on work at all.
func (d Delegate) CanAcquire() bool {
	return d.Status == StatusEnabled
}
