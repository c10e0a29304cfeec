package memory

import (
	"context"
	"testing"

	"github.com/Samarth-170904/EcotrackCarbonFootprintTracker/internal/core"
	"github.com/Samarth-170904/EcotrackCarbonFootprintTracker/internal/ledger"
)

func mustActivity(t *testing.T, date core.Date, cat core.Category, mode string, milli int64) core.Activity {
	t.Helper()
	q := core.Quantity{Milli: milli}
	em, err := core.Compute(cat, mode, q)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	return core.Activity{Date: date, Category: cat, Mode: mode, Quantity: q, Emission: em}
}

func TestAppendAssignsIDs(t *testing.T) {
	s := New()
	ctx := context.Background()
	a := mustActivity(t, core.NewDate(2024, 1, 1), core.Electricity, "", 100_000)

	id1, err := s.Append(ctx, a)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	id2, err := s.Append(ctx, a)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if id1 == id2 {
		t.Fatalf("ids must be unique, got %d twice", id1)
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	s := New()
	bad := core.Activity{
		Date:     core.NewDate(2024, 1, 1),
		Category: "unknown",
		Quantity: core.Quantity{Milli: 5000},
	}
	if _, err := s.Append(context.Background(), bad); !core.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	items, err := s.ListActivities(context.Background(), ledger.ActivityFilter{Year: 2024, Month: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("failed append must persist nothing, got %d items", len(items))
	}
}

func TestListOrderAndFilter(t *testing.T) {
	s := New()
	ctx := context.Background()
	first := mustActivity(t, core.NewDate(2024, 1, 5), core.Transport, "car", 10_000)
	second := mustActivity(t, core.NewDate(2024, 1, 20), core.Water, "", 500_000)
	other := mustActivity(t, core.NewDate(2024, 2, 1), core.Diet, "", 1_000)
	for _, a := range []core.Activity{first, second, other} {
		if _, err := s.Append(ctx, a); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	items, err := s.ListActivities(ctx, ledger.ActivityFilter{Year: 2024, Month: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 records for January, got %d", len(items))
	}
	if items[0].Date.Day() != 20 || items[1].Date.Day() != 5 {
		t.Fatalf("expected newest first, got days %d,%d", items[0].Date.Day(), items[1].Date.Day())
	}

	cars, err := s.ListActivities(ctx, ledger.ActivityFilter{Year: 2024, Month: 1, Category: core.Transport})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cars) != 1 || cars[0].Category != core.Transport {
		t.Fatalf("category filter failed: %+v", cars)
	}

	capped, err := s.ListActivities(ctx, ledger.ActivityFilter{Year: 2024, Month: 1, Limit: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(capped) != 1 {
		t.Fatalf("limit not applied, got %d", len(capped))
	}
}

func TestRoundTripFidelity(t *testing.T) {
	s := New()
	ctx := context.Background()
	a := mustActivity(t, core.NewDate(2024, 3, 14), core.Transport, "train", 42_500)
	id, err := s.Append(ctx, a)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	items, err := s.ListActivities(ctx, ledger.ActivityFilter{Year: 2024, Month: 3})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 record, got %d", len(items))
	}
	got := items[0]
	if got.ID != id || got.Category != a.Category || got.Mode != a.Mode ||
		got.Quantity != a.Quantity || got.Emission != a.Emission {
		t.Fatalf("round trip mismatch: stored %+v, got %+v", a, got)
	}
}

func TestMonthSummaryEqualsSumOfRecords(t *testing.T) {
	s := New()
	ctx := context.Background()
	records := []core.Activity{
		mustActivity(t, core.NewDate(2024, 1, 1), core.Electricity, "", 100_000),
		mustActivity(t, core.NewDate(2024, 1, 2), core.Transport, "car", 50_000),
		mustActivity(t, core.NewDate(2024, 1, 3), core.Transport, "bus", 20_000),
		mustActivity(t, core.NewDate(2024, 1, 4), core.Water, "", 2_000_000),
	}
	var want int64
	for _, a := range records {
		want += a.Emission.Grams
		if _, err := s.Append(ctx, a); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	summary, err := s.ReadMonthSummary(ctx, 2024, 1)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Total.Grams != want {
		t.Fatalf("total %d, want %d", summary.Total.Grams, want)
	}
	var byCat int64
	for _, ce := range summary.ByCategory {
		byCat += ce.Emission.Grams
	}
	if byCat != want {
		t.Fatalf("per-category sum %d, want %d", byCat, want)
	}

	empty, err := s.ReadMonthSummary(ctx, 2023, 6)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if empty.Total.Grams != 0 || len(empty.ByCategory) != 0 {
		t.Fatalf("empty month should be zero: %+v", empty)
	}
}
