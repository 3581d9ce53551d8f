package selectionlog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainlog "github.com/fleetmesh/dispatch/internal/domain/selectionlog"
)

// Store implements port/selectionlog.Store. Append-only; entries are never
// updated or deleted while the task is live.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Append(ctx context.Context, e domainlog.Entry) error {
	query := `
		INSERT INTO selection_logs (account_id, task_id, delegate_ids, conclusion, message, event_timestamp)
		VALUES ($1,$2,$3,$4,$5,$6)`

	_, err := s.pool.Exec(ctx, query,
		e.AccountID, e.TaskID, e.DelegateIDs, string(e.Conclusion), e.Message, e.EventTimestamp)
	if err != nil {
		return fmt.Errorf("appending selection log entry: %w", err)
	}
	return nil
}

func (s *Store) ListByTask(ctx context.Context, accountID, taskID string) ([]domainlog.Entry, error) {
	query := `
		SELECT account_id, task_id, delegate_ids, conclusion, message, event_timestamp
		FROM selection_logs
		WHERE account_id = $1 AND task_id = $2
		ORDER BY event_timestamp`

	rows, err := s.pool.Query(ctx, query, accountID, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing selection logs: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows pgx.Rows) ([]domainlog.Entry, error) {
	var entries []domainlog.Entry
	for rows.Next() {
		var e domainlog.Entry
		if err := rows.Scan(
			&e.AccountID, &e.TaskID, &e.DelegateIDs, &e.Conclusion, &e.Message, &e.EventTimestamp,
		); err != nil {
			return nil, fmt.Errorf("scanning selection log row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating selection log rows: %w", err)
	}
	return entries, nil
}
