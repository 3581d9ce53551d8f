package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domaintask "github.com/fleetmesh/dispatch/internal/domain/task"
	porttask "github.com/fleetmesh/dispatch/internal/port/task"
)

// Repository implements port/task.Repository on Postgres. Every racing
// mutation (Assign, EndTask, ClearDelegateID) is a single conditional
// statement; the row's own predicate is the only lock.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const taskColumns = `id, account_id, secondary_account_id, wait_id, data, tags,
	setup_abstractions, execution_capabilities, hosted_execution, secret_vault_urls,
	status, rank, expiry, next_broadcast, last_broadcast_at, broadcast_round,
	eligible_delegate_ids, broadcast_to_delegate_ids, validating_delegate_ids,
	validation_complete_delegate_ids, validation_started_at, delegate_id,
	delegate_instance_id, non_assignable_delegates, activity_log, created_at, updated_at`

func (r *Repository) Create(ctx context.Context, t domaintask.Task) (domaintask.Task, error) {
	caps, err := domaintask.MarshalCapabilities(t.ExecutionCapabilities)
	if err != nil {
		return domaintask.Task{}, fmt.Errorf("encoding capabilities: %w", err)
	}

	query := `
		INSERT INTO tasks (id, account_id, secondary_account_id, wait_id, data, tags,
			setup_abstractions, execution_capabilities, hosted_execution, secret_vault_urls,
			status, rank, expiry, next_broadcast, last_broadcast_at, broadcast_round,
			eligible_delegate_ids, broadcast_to_delegate_ids, validating_delegate_ids,
			validation_complete_delegate_ids, validation_started_at, delegate_id,
			delegate_instance_id, non_assignable_delegates, activity_log, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27)
		RETURNING ` + taskColumns

	row := r.pool.QueryRow(ctx, query,
		t.ID, t.AccountID, nilIfEmpty(t.SecondaryAccountID), t.WaitID, t.Data, t.Tags,
		t.SetupAbstractions, caps, t.HostedExecution, t.SecretVaultURLs,
		t.Status, t.Rank, t.Expiry, t.NextBroadcast, t.LastBroadcastAt, t.BroadcastRound,
		t.EligibleDelegateIDs, t.BroadcastToDelegateIDs, t.ValidatingDelegateIDs,
		t.ValidationCompleteDelegateIDs, t.ValidationStartedAt, t.DelegateID,
		t.DelegateInstanceID, t.NonAssignableDelegates, t.ActivityLog, t.CreatedAt, t.UpdatedAt,
	)
	created, err := scanTask(row)
	if err != nil {
		return domaintask.Task{}, fmt.Errorf("inserting task: %w", err)
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, accountID, id string) (domaintask.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE account_id = $1 AND id = $2`

	t, err := scanTask(r.pool.QueryRow(ctx, query, accountID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domaintask.Task{}, porttask.ErrNotFound
		}
		return domaintask.Task{}, fmt.Errorf("querying task: %w", err)
	}
	return t, nil
}

func (r *Repository) List(ctx context.Context, filters domaintask.ListFilters) ([]domaintask.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE 1=1`

	args := []interface{}{}
	argIdx := 1

	if filters.AccountID != nil {
		query += fmt.Sprintf(" AND account_id = $%d", argIdx)
		args = append(args, *filters.AccountID)
		argIdx++
	}
	if filters.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, string(*filters.Status))
		argIdx++
	}
	if filters.DelegateID != nil {
		query += fmt.Sprintf(" AND delegate_id = $%d", argIdx)
		args = append(args, *filters.DelegateID)
		argIdx++
	}
	if filters.Unassigned {
		query += " AND delegate_id IS NULL"
	}
	if filters.Async != nil {
		query += fmt.Sprintf(" AND (data->>'async')::boolean = $%d", argIdx)
		args = append(args, *filters.Async)
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

func (r *Repository) Update(ctx context.Context, t domaintask.Task) error {
	caps, err := domaintask.MarshalCapabilities(t.ExecutionCapabilities)
	if err != nil {
		return fmt.Errorf("encoding capabilities: %w", err)
	}

	query := `
		UPDATE tasks SET
			data = $3, tags = $4, setup_abstractions = $5, execution_capabilities = $6,
			hosted_execution = $7, secret_vault_urls = $8, status = $9, rank = $10,
			expiry = $11, next_broadcast = $12, last_broadcast_at = $13, broadcast_round = $14,
			eligible_delegate_ids = $15, broadcast_to_delegate_ids = $16,
			validating_delegate_ids = $17, validation_complete_delegate_ids = $18,
			validation_started_at = $19, delegate_id = $20, delegate_instance_id = $21,
			non_assignable_delegates = $22, activity_log = $23, updated_at = $24
		WHERE account_id = $1 AND id = $2`

	tag, err := r.pool.Exec(ctx, query,
		t.AccountID, t.ID,
		t.Data, t.Tags, t.SetupAbstractions, caps,
		t.HostedExecution, t.SecretVaultURLs, t.Status, t.Rank,
		t.Expiry, t.NextBroadcast, t.LastBroadcastAt, t.BroadcastRound,
		t.EligibleDelegateIDs, t.BroadcastToDelegateIDs,
		t.ValidatingDelegateIDs, t.ValidationCompleteDelegateIDs,
		t.ValidationStartedAt, t.DelegateID, t.DelegateInstanceID,
		t.NonAssignableDelegates, t.ActivityLog, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return porttask.ErrNotFound
	}
	return nil
}

// Assign is the assignment CAS. The WHERE clause is the entire correctness
// argument for at-most-one assignment: a second delegate's update matches
// zero rows because delegate_id is no longer NULL. The winning update also
// retires the validation bookkeeping, which only has meaning while queued.
func (r *Repository) Assign(ctx context.Context, accountID, taskID, delegateID, instanceID string, newExpiry time.Time) (domaintask.Task, error) {
	query := `
		UPDATE tasks SET
			status = $5, delegate_id = $3, delegate_instance_id = $4,
			expiry = $6, validating_delegate_ids = '{}',
			validation_complete_delegate_ids = '{}',
			validation_started_at = NULL, updated_at = NOW()
		WHERE account_id = $1 AND id = $2
		  AND status = $7 AND delegate_id IS NULL AND expiry > NOW()
		RETURNING ` + taskColumns

	t, err := scanTask(r.pool.QueryRow(ctx, query,
		accountID, taskID, delegateID, instanceID,
		string(domaintask.StatusStarted), newExpiry, string(domaintask.StatusQueued),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domaintask.Task{}, porttask.ErrNotFound
		}
		return domaintask.Task{}, fmt.Errorf("assigning task: %w", err)
	}
	return t, nil
}

func (r *Repository) GetStarted(ctx context.Context, accountID, taskID, delegateID, instanceID string) (domaintask.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE account_id = $1 AND id = $2 AND status = $3
		  AND delegate_id = $4 AND delegate_instance_id = $5`

	t, err := scanTask(r.pool.QueryRow(ctx, query,
		accountID, taskID, string(domaintask.StatusStarted), delegateID, instanceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domaintask.Task{}, porttask.ErrNotFound
		}
		return domaintask.Task{}, fmt.Errorf("querying started task: %w", err)
	}
	return t, nil
}

// Terminate is a find-and-modify: the task moves to a terminal status and the
// caller gets the row as it was before the transition. The row stays behind
// as an inert record until bulk tenant cleanup removes it.
func (r *Repository) Terminate(ctx context.Context, accountID, taskID string, to domaintask.Status, from ...domaintask.Status) (domaintask.Task, error) {
	query := `
		UPDATE tasks SET status = $4, updated_at = NOW()
		FROM (
			SELECT ` + taskColumns + ` FROM tasks
			WHERE account_id = $1 AND id = $2 AND status = ANY($3)
			FOR UPDATE
		) old
		WHERE tasks.id = old.id
		RETURNING old.id, old.account_id, old.secondary_account_id, old.wait_id, old.data, old.tags,
			old.setup_abstractions, old.execution_capabilities, old.hosted_execution, old.secret_vault_urls,
			old.status, old.rank, old.expiry, old.next_broadcast, old.last_broadcast_at, old.broadcast_round,
			old.eligible_delegate_ids, old.broadcast_to_delegate_ids, old.validating_delegate_ids,
			old.validation_complete_delegate_ids, old.validation_started_at, old.delegate_id,
			old.delegate_instance_id, old.non_assignable_delegates, old.activity_log, old.created_at, old.updated_at`

	t, err := scanTask(r.pool.QueryRow(ctx, query, accountID, taskID, statusStrings(from), string(to)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domaintask.Task{}, porttask.ErrNotFound
		}
		return domaintask.Task{}, fmt.Errorf("terminating task: %w", err)
	}
	return t, nil
}

func (r *Repository) DeleteByAccount(ctx context.Context, accountID string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE account_id = $1`, accountID)
	if err != nil {
		return 0, fmt.Errorf("deleting tasks for account: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) AddValidating(ctx context.Context, accountID, taskID, delegateID string) error {
	// The status/delegate guard keeps a racing validation start from ever
	// mutating a row that was assigned in the meantime.
	query := `
		UPDATE tasks SET
			validating_delegate_ids = array_append(validating_delegate_ids, $3),
			validation_started_at = COALESCE(validation_started_at, NOW()),
			updated_at = NOW()
		WHERE account_id = $1 AND id = $2
		  AND status = $4 AND delegate_id IS NULL
		  AND NOT (validating_delegate_ids @> ARRAY[$3])`

	// Zero rows affected means the delegate was already recorded, or the race
	// is over; either way there is nothing to do.
	if _, err := r.pool.Exec(ctx, query, accountID, taskID, delegateID, string(domaintask.StatusQueued)); err != nil {
		return fmt.Errorf("recording validating delegate: %w", err)
	}
	return nil
}

func (r *Repository) AddValidationComplete(ctx context.Context, accountID, taskID, delegateID string) error {
	query := `
		UPDATE tasks SET
			validation_complete_delegate_ids = array_append(validation_complete_delegate_ids, $3),
			updated_at = NOW()
		WHERE account_id = $1 AND id = $2
		  AND NOT (validation_complete_delegate_ids @> ARRAY[$3])`

	if _, err := r.pool.Exec(ctx, query, accountID, taskID, delegateID); err != nil {
		return fmt.Errorf("recording validation completion: %w", err)
	}
	return nil
}

func (r *Repository) SetBroadcast(ctx context.Context, accountID, taskID string, delegateIDs []string, round int, nextBroadcast time.Time) error {
	query := `
		UPDATE tasks SET
			broadcast_to_delegate_ids = $3, broadcast_round = $4,
			next_broadcast = $5, last_broadcast_at = NOW(), updated_at = NOW()
		WHERE account_id = $1 AND id = $2`

	tag, err := r.pool.Exec(ctx, query, accountID, taskID, delegateIDs, round, nextBroadcast)
	if err != nil {
		return fmt.Errorf("recording broadcast: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return porttask.ErrNotFound
	}
	return nil
}

// ListQueuedFor matches on the eligible set, not the broadcast targets: the
// broadcast list only decides who gets nudged first, while any eligible
// delegate that polls may see the task and race for it.
func (r *Repository) ListQueuedFor(ctx context.Context, accountID, delegateID string) ([]domaintask.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE account_id = $1 AND status = $2 AND expiry > NOW()
		  AND delegate_id IS NULL
		  AND eligible_delegate_ids @> ARRAY[$3]
		ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, accountID, string(domaintask.StatusQueued), delegateID)
	if err != nil {
		return nil, fmt.Errorf("listing queued tasks for delegate: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *Repository) ListAbortedFor(ctx context.Context, accountID, delegateID string) ([]domaintask.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE account_id = $1 AND status = $2 AND delegate_id = $3
		ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, accountID, string(domaintask.StatusAborted), delegateID)
	if err != nil {
		return nil, fmt.Errorf("listing aborted tasks for delegate: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *Repository) ClearDelegateID(ctx context.Context, accountID, taskID string) error {
	query := `UPDATE tasks SET delegate_id = NULL, updated_at = NOW()
		WHERE account_id = $1 AND id = $2`

	if _, err := r.pool.Exec(ctx, query, accountID, taskID); err != nil {
		return fmt.Errorf("clearing delegate id: %w", err)
	}
	return nil
}

func (r *Repository) ListRebroadcastable(ctx context.Context, now time.Time, limit int) ([]domaintask.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE status = $1 AND expiry > $2 AND next_broadcast <= $2
		ORDER BY next_broadcast
		LIMIT $3`

	rows, err := r.pool.Query(ctx, query, string(domaintask.StatusQueued), now, limit)
	if err != nil {
		return nil, fmt.Errorf("listing rebroadcastable tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *Repository) ListExpired(ctx context.Context, now time.Time, limit int) ([]domaintask.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE status = ANY($1) AND expiry <= $2
		ORDER BY expiry
		LIMIT $3`

	rows, err := r.pool.Query(ctx, query, statusStrings(domaintask.RunningStatuses()), now, limit)
	if err != nil {
		return nil, fmt.Errorf("listing expired tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *Repository) CountActive(ctx context.Context, accountID string, ranks ...domaintask.Rank) (int, error) {
	query := `SELECT COUNT(*) FROM tasks
		WHERE account_id = $1 AND status = ANY($2) AND rank = ANY($3)`

	rankStrings := make([]string, 0, len(ranks))
	for _, rk := range ranks {
		rankStrings = append(rankStrings, string(rk))
	}

	var count int
	err := r.pool.QueryRow(ctx, query, accountID, statusStrings(domaintask.RunningStatuses()), rankStrings).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting active tasks: %w", err)
	}
	return count, nil
}

func (r *Repository) ListRunningFor(ctx context.Context, accountID, delegateID string) ([]domaintask.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE account_id = $1 AND status = $2 AND delegate_id = $3
		ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, accountID, string(domaintask.StatusStarted), delegateID)
	if err != nil {
		return nil, fmt.Errorf("listing running tasks for delegate: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (domaintask.Task, error) {
	var (
		t                  domaintask.Task
		secondaryAccountID *string
		caps               []byte
	)
	err := row.Scan(
		&t.ID, &t.AccountID, &secondaryAccountID, &t.WaitID, &t.Data, &t.Tags,
		&t.SetupAbstractions, &caps, &t.HostedExecution, &t.SecretVaultURLs,
		&t.Status, &t.Rank, &t.Expiry, &t.NextBroadcast, &t.LastBroadcastAt, &t.BroadcastRound,
		&t.EligibleDelegateIDs, &t.BroadcastToDelegateIDs, &t.ValidatingDelegateIDs,
		&t.ValidationCompleteDelegateIDs, &t.ValidationStartedAt, &t.DelegateID,
		&t.DelegateInstanceID, &t.NonAssignableDelegates, &t.ActivityLog, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return domaintask.Task{}, err
	}
	if secondaryAccountID != nil {
		t.SecondaryAccountID = *secondaryAccountID
	}
	t.ExecutionCapabilities, err = domaintask.UnmarshalCapabilities(caps)
	if err != nil {
		return domaintask.Task{}, fmt.Errorf("decoding capabilities: %w", err)
	}
	return t, nil
}

func scanTasks(rows pgx.Rows) ([]domaintask.Task, error) {
	var tasks []domaintask.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task rows: %w", err)
	}
	return tasks, nil
}

func statusStrings(statuses []domaintask.Status) []string {
	out := make([]string, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, string(st))
	}
	return out
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
