package storage

import "database/sql"

// Activity is the database row shape for the activities table.
type Activity struct {
	ID            int64
	OccurredOn    string // YYYY-MM-DD
	Category      string
	Mode          string
	QuantityMilli int64
	EmissionGrams int64
	SyncStatus    string
	CreatedAt     sql.NullTime
}

// CategorySum is one row of the per-category aggregation.
type CategorySum struct {
	Category    string
	TotalGrams  int64
}

// PendingSyncActivity is the minimal shape the sync worker needs to
// re-enqueue records that were never exported.
type PendingSyncActivity struct {
	ID        int64
	CreatedAt sql.NullTime
}

const (
	SyncPending = "pending"
	SyncSynced  = "synced"
	SyncError   = "error"
)
