package delegate

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domaindelegate "github.com/fleetmesh/dispatch/internal/domain/delegate"
)

var ErrNotFound = errors.New("delegate not found")

// Reader implements port/delegate.Reader over the delegate registry table.
// The dispatch core never writes this table.
type Reader struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Reader {
	return &Reader{pool: pool}
}

func (r *Reader) GetByID(ctx context.Context, accountID, id string) (domaindelegate.Delegate, error) {
	query := `
		SELECT id, account_id, host_name, status, tags
		FROM delegates WHERE account_id = $1 AND id = $2`

	var d domaindelegate.Delegate
	err := r.pool.QueryRow(ctx, query, accountID, id).Scan(
		&d.ID, &d.AccountID, &d.HostName, &d.Status, &d.Tags)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domaindelegate.Delegate{}, ErrNotFound
		}
		return domaindelegate.Delegate{}, fmt.Errorf("querying delegate: %w", err)
	}
	return d, nil
}

func (r *Reader) List(ctx context.Context, accountID string) ([]domaindelegate.Delegate, error) {
	query := `
		SELECT id, account_id, host_name, status, tags
		FROM delegates WHERE account_id = $1
		ORDER BY host_name`

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("listing delegates: %w", err)
	}
	defer rows.Close()

	var delegates []domaindelegate.Delegate
	for rows.Next() {
		var d domaindelegate.Delegate
		if err := rows.Scan(&d.ID, &d.AccountID, &d.HostName, &d.Status, &d.Tags); err != nil {
			return nil, fmt.Errorf("scanning delegate row: %w", err)
		}
		delegates = append(delegates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating delegate rows: %w", err)
	}
	return delegates, nil
}
