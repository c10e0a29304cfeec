package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Samarth-170904/EcotrackCarbonFootprintTracker/internal/core"
	"github.com/Samarth-170904/EcotrackCarbonFootprintTracker/internal/ledger"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{
		db:      db,
		queries: New(db),
	}

	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append implements ledger.ActivityWriter. The single INSERT is the whole
// write transaction: a failed create leaves no row behind.
func (r *SQLiteRepository) Append(ctx context.Context, a core.Activity) (int64, error) {
	row, err := r.queries.CreateActivity(ctx, CreateActivityParams{
		OccurredOn:    a.Date.ISO(),
		Category:      string(a.Category),
		Mode:          a.Mode,
		QuantityMilli: a.Quantity.Milli,
		EmissionGrams: a.Emission.Grams,
	})
	if err != nil {
		return 0, fmt.Errorf("create activity: %w", err)
	}

	slog.InfoContext(ctx, "Activity saved to SQLite",
		"id", row.ID,
		"date", row.OccurredOn,
		"category", row.Category,
		"mode", row.Mode,
		"quantity_milli", row.QuantityMilli,
		"emission_grams", row.EmissionGrams)

	return row.ID, nil
}

// ListActivities implements ledger.ActivityLister.
func (r *SQLiteRepository) ListActivities(ctx context.Context, f ledger.ActivityFilter) ([]core.Activity, error) {
	from, to := monthWindow(f.Year, f.Month)
	limit := int64(-1) // SQLite: LIMIT -1 means unbounded
	if f.Limit > 0 {
		limit = int64(f.Limit)
	}
	rows, err := r.queries.GetActivitiesByMonth(ctx, GetActivitiesByMonthParams{
		From:     from,
		To:       to,
		Category: string(f.Category),
		Limit:    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("get activities by month: %w", err)
	}

	activities := make([]core.Activity, len(rows))
	for i, row := range rows {
		a, err := toCore(row)
		if err != nil {
			return nil, fmt.Errorf("decode activity %d: %w", row.ID, err)
		}
		activities[i] = a
	}

	return activities, nil
}

// ReadMonthSummary implements ledger.SummaryReader.
func (r *SQLiteRepository) ReadMonthSummary(ctx context.Context, year int, month int) (core.MonthSummary, error) {
	summary := core.MonthSummary{
		Year:  year,
		Month: month,
	}
	from, to := monthWindow(year, month)

	total, err := r.queries.GetMonthTotal(ctx, from, to)
	if err != nil {
		return summary, fmt.Errorf("get month total: %w", err)
	}
	summary.Total = core.Emission{Grams: total}

	categorySums, err := r.queries.GetCategorySums(ctx, from, to)
	if err != nil {
		return summary, fmt.Errorf("get category sums: %w", err)
	}
	for _, cs := range categorySums {
		summary.ByCategory = append(summary.ByCategory, core.CategoryEmission{
			Category: core.Category(cs.Category),
			Emission: core.Emission{Grams: cs.TotalGrams},
		})
	}

	return summary, nil
}

// GetActivity retrieves a single record by id for the sync worker.
func (r *SQLiteRepository) GetActivity(ctx context.Context, id int64) (core.Activity, error) {
	row, err := r.queries.GetActivity(ctx, id)
	if err != nil {
		return core.Activity{}, fmt.Errorf("get activity by id: %w", err)
	}
	return toCore(row)
}

// GetPendingSyncActivities returns records not yet exported to the sheet.
func (r *SQLiteRepository) GetPendingSyncActivities(ctx context.Context, limit int) ([]PendingSyncActivity, error) {
	items, err := r.queries.GetPendingSyncActivities(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending sync activities: %w", err)
	}
	return items, nil
}

// MarkSynced marks a record as successfully exported.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if err := r.queries.MarkActivitySynced(ctx, id); err != nil {
		return fmt.Errorf("mark activity synced: %w", err)
	}
	slog.InfoContext(ctx, "Activity marked as synced", "id", id)
	return nil
}

// MarkSyncError marks a record whose export failed.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if err := r.queries.MarkActivitySyncError(ctx, id); err != nil {
		return fmt.Errorf("mark activity sync error: %w", err)
	}
	slog.WarnContext(ctx, "Activity marked with sync error", "id", id)
	return nil
}

// monthWindow returns the [from, to) occurred_on bounds for a calendar month.
func monthWindow(year, month int) (from, to string) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start.Format("2006-01-02"), start.AddDate(0, 1, 0).Format("2006-01-02")
}

func toCore(row Activity) (core.Activity, error) {
	date, err := core.ParseDate(row.OccurredOn)
	if err != nil {
		return core.Activity{}, fmt.Errorf("bad occurred_on %q: %w", row.OccurredOn, err)
	}
	return core.Activity{
		ID:       row.ID,
		Date:     date,
		Category: core.Category(row.Category),
		Mode:     row.Mode,
		Quantity: core.Quantity{Milli: row.QuantityMilli},
		Emission: core.Emission{Grams: row.EmissionGrams},
	}, nil
}
