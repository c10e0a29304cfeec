package storage

import (
	"context"
	"database/sql"
)

// DBTX is the subset of *sql.DB / *sql.Tx the query layer needs.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries bundles the SQL statements over a single connection or
// transaction.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns queries bound to the transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const createActivity = `
INSERT INTO activities (occurred_on, category, mode, quantity_milli, emission_grams)
VALUES (?, ?, ?, ?, ?)
RETURNING id, occurred_on, category, mode, quantity_milli, emission_grams, sync_status, created_at
`

type CreateActivityParams struct {
	OccurredOn    string
	Category      string
	Mode          string
	QuantityMilli int64
	EmissionGrams int64
}

func (q *Queries) CreateActivity(ctx context.Context, arg CreateActivityParams) (Activity, error) {
	row := q.db.QueryRowContext(ctx, createActivity,
		arg.OccurredOn,
		arg.Category,
		arg.Mode,
		arg.QuantityMilli,
		arg.EmissionGrams,
	)
	var a Activity
	err := row.Scan(
		&a.ID,
		&a.OccurredOn,
		&a.Category,
		&a.Mode,
		&a.QuantityMilli,
		&a.EmissionGrams,
		&a.SyncStatus,
		&a.CreatedAt,
	)
	return a, err
}

const getActivity = `
SELECT id, occurred_on, category, mode, quantity_milli, emission_grams, sync_status, created_at
FROM activities
WHERE id = ?
`

func (q *Queries) GetActivity(ctx context.Context, id int64) (Activity, error) {
	row := q.db.QueryRowContext(ctx, getActivity, id)
	var a Activity
	err := row.Scan(
		&a.ID,
		&a.OccurredOn,
		&a.Category,
		&a.Mode,
		&a.QuantityMilli,
		&a.EmissionGrams,
		&a.SyncStatus,
		&a.CreatedAt,
	)
	return a, err
}

const getActivitiesByMonth = `
SELECT id, occurred_on, category, mode, quantity_milli, emission_grams, sync_status, created_at
FROM activities
WHERE occurred_on >= ? AND occurred_on < ?
  AND (? = '' OR category = ?)
ORDER BY occurred_on DESC, id DESC
LIMIT ?
`

type GetActivitiesByMonthParams struct {
	From     string // inclusive YYYY-MM-DD
	To       string // exclusive YYYY-MM-DD
	Category string // '' matches every category
	Limit    int64
}

func (q *Queries) GetActivitiesByMonth(ctx context.Context, arg GetActivitiesByMonthParams) ([]Activity, error) {
	rows, err := q.db.QueryContext(ctx, getActivitiesByMonth,
		arg.From, arg.To, arg.Category, arg.Category, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(
			&a.ID,
			&a.OccurredOn,
			&a.Category,
			&a.Mode,
			&a.QuantityMilli,
			&a.EmissionGrams,
			&a.SyncStatus,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

const getMonthTotal = `
SELECT COALESCE(SUM(emission_grams), 0)
FROM activities
WHERE occurred_on >= ? AND occurred_on < ?
`

func (q *Queries) GetMonthTotal(ctx context.Context, from, to string) (int64, error) {
	var total int64
	err := q.db.QueryRowContext(ctx, getMonthTotal, from, to).Scan(&total)
	return total, err
}

const getCategorySums = `
SELECT category, COALESCE(SUM(emission_grams), 0) AS total_grams
FROM activities
WHERE occurred_on >= ? AND occurred_on < ?
GROUP BY category
ORDER BY total_grams DESC
`

func (q *Queries) GetCategorySums(ctx context.Context, from, to string) ([]CategorySum, error) {
	rows, err := q.db.QueryContext(ctx, getCategorySums, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CategorySum
	for rows.Next() {
		var cs CategorySum
		if err := rows.Scan(&cs.Category, &cs.TotalGrams); err != nil {
			return nil, err
		}
		items = append(items, cs)
	}
	return items, rows.Err()
}

const getPendingSyncActivities = `
SELECT id, created_at
FROM activities
WHERE sync_status = 'pending'
ORDER BY id
LIMIT ?
`

func (q *Queries) GetPendingSyncActivities(ctx context.Context, limit int64) ([]PendingSyncActivity, error) {
	rows, err := q.db.QueryContext(ctx, getPendingSyncActivities, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PendingSyncActivity
	for rows.Next() {
		var p PendingSyncActivity
		if err := rows.Scan(&p.ID, &p.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

const markActivitySynced = `
UPDATE activities SET sync_status = 'synced' WHERE id = ?
`

func (q *Queries) MarkActivitySynced(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, markActivitySynced, id)
	return err
}

const markActivitySyncError = `
UPDATE activities SET sync_status = 'error' WHERE id = ?
`

func (q *Queries) MarkActivitySyncError(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, markActivitySyncError, id)
	return err
}
