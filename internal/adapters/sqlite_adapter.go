package adapters

import (
	"context"

	"github.com/Samarth-170904/EcotrackCarbonFootprintTracker/internal/core"
	"github.com/Samarth-170904/EcotrackCarbonFootprintTracker/internal/ledger"
	"github.com/Samarth-170904/EcotrackCarbonFootprintTracker/internal/services"
	"github.com/Samarth-170904/EcotrackCarbonFootprintTracker/internal/storage"
)

// SQLiteAdapter binds the repository and the activity service to the ledger
// ports so the HTTP handlers stay backend-agnostic. Writes go through the
// service (which publishes sync messages); reads go straight to storage.
type SQLiteAdapter struct {
	storage *storage.SQLiteRepository
	service *services.ActivityService
}

func NewSQLiteAdapter(storage *storage.SQLiteRepository, service *services.ActivityService) *SQLiteAdapter {
	return &SQLiteAdapter{
		storage: storage,
		service: service,
	}
}

// Append implements ledger.ActivityWriter.
func (a *SQLiteAdapter) Append(ctx context.Context, act core.Activity) (int64, error) {
	created, err := a.service.CreateActivity(ctx, act.Date, act.Category, act.Mode, act.Quantity)
	if err != nil {
		return 0, err
	}
	return created.ID, nil
}

// ListActivities implements ledger.ActivityLister.
func (a *SQLiteAdapter) ListActivities(ctx context.Context, f ledger.ActivityFilter) ([]core.Activity, error) {
	return a.storage.ListActivities(ctx, f)
}

// ReadMonthSummary implements ledger.SummaryReader.
func (a *SQLiteAdapter) ReadMonthSummary(ctx context.Context, year int, month int) (core.MonthSummary, error) {
	return a.storage.ReadMonthSummary(ctx, year, month)
}
