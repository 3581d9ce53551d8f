package selectormap

import "context"

// Table maps task types to operator-managed selector sets. A task whose type
// appears in the table picks up those selectors as an extra capability.
type Table interface {
	SelectorsForTaskType(ctx context.Context, accountID, taskType string) ([]string, error)
}
