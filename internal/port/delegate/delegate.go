package delegate

import (
	"context"

	domaindelegate "github.com/fleetmesh/dispatch/internal/domain/delegate"
)

// Reader is the dispatch core's view of the delegate registry.
type Reader interface {
	GetByID(ctx context.Context, accountID, id string) (domaindelegate.Delegate, error)
	List(ctx context.Context, accountID string) ([]domaindelegate.Delegate, error)
}
