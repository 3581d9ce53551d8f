package selectormap

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Table implements port/selectormap.Table over the operator-managed mapping
// of task types to selector sets.
type Table struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Table {
	return &Table{pool: pool}
}

func (t *Table) SelectorsForTaskType(ctx context.Context, accountID, taskType string) ([]string, error) {
	query := `
		SELECT selectors FROM task_selector_maps
		WHERE account_id = $1 AND task_type = $2`

	var selectors []string
	err := t.pool.QueryRow(ctx, query, accountID, taskType).Scan(&selectors)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying selector map: %w", err)
	}
	return selectors, nil
}
