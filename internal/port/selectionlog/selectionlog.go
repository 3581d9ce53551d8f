package selectionlog

import (
	"context"

	domainlog "github.com/fleetmesh/dispatch/internal/domain/selectionlog"
)

// Store persists the append-only selection trail. Writers treat failures as
// advisory; readers order by event timestamp.
type Store interface {
	Append(ctx context.Context, e domainlog.Entry) error
	ListByTask(ctx context.Context, accountID, taskID string) ([]domainlog.Entry, error)
}
