package ledger

import (
	"context"

	"github.com/Samarth-170904/EcotrackCarbonFootprintTracker/internal/core"
)

// ActivityFilter narrows a listing to a month window, optionally to one
// category, optionally capped. Each List call re-runs the scan from the
// start; no cursor is held between calls.
type ActivityFilter struct {
	Year     int
	Month    int           // 1-12
	Category core.Category // "" matches every category
	Limit    int           // 0 means no cap
}

// Ports for outbound adapters.
type (
	ActivityWriter interface {
		// Append persists the record and returns its assigned id.
		Append(ctx context.Context, a core.Activity) (int64, error)
	}

	// ActivityLister returns stored records matching a filter, ordered by
	// date descending then id descending.
	ActivityLister interface {
		ListActivities(ctx context.Context, f ActivityFilter) ([]core.Activity, error)
	}

	// SummaryReader provides aggregated monthly emission data.
	SummaryReader interface {
		// ReadMonthSummary returns totals for a specific year and month.
		ReadMonthSummary(ctx context.Context, year int, month int) (core.MonthSummary, error)
	}

	// ActivityExporter mirrors a record to an external destination, such
	// as a spreadsheet row. Used by the sync worker, never on the request
	// path.
	ActivityExporter interface {
		Export(ctx context.Context, a core.Activity) (rowRef string, err error)
	}
)
