// Package memory implements the ledger ports with an in-process store. It
// backs tests and the "memory" data backend for running without SQLite.
package memory

import (
	"context"
	"sync"

	"github.com/Samarth-170904/EcotrackCarbonFootprintTracker/internal/core"
	"github.com/Samarth-170904/EcotrackCarbonFootprintTracker/internal/ledger"
)

type Store struct {
	mu     sync.Mutex
	nextID int64
	items  []core.Activity
}

func New() *Store {
	return &Store{nextID: 1}
}

// Append stores the activity and returns its assigned id.
func (s *Store) Append(_ context.Context, a core.Activity) (int64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.nextID
	s.nextID++
	s.items = append(s.items, a)
	return a.ID, nil
}

// ListActivities returns records in the month window, newest first.
func (s *Store) ListActivities(_ context.Context, f ledger.ActivityFilter) ([]core.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Activity
	// Stored in insertion order; walk backwards for date-desc-ish ordering,
	// then sort properly below.
	for i := len(s.items) - 1; i >= 0; i-- {
		a := s.items[i]
		if a.Date.Year() != f.Year || a.Date.Month() != f.Month {
			continue
		}
		if f.Category != "" && a.Category != f.Category {
			continue
		}
		out = append(out, a)
	}
	sortByDateDesc(out)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// ReadMonthSummary aggregates stored emissions for the month.
func (s *Store) ReadMonthSummary(_ context.Context, year, month int) (core.MonthSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	summary := core.MonthSummary{Year: year, Month: month}
	perCat := map[core.Category]int64{}
	for _, a := range s.items {
		if a.Date.Year() != year || a.Date.Month() != month {
			continue
		}
		summary.Total.Grams += a.Emission.Grams
		perCat[a.Category] += a.Emission.Grams
	}
	for _, c := range core.Categories() {
		if grams, ok := perCat[c]; ok {
			summary.ByCategory = append(summary.ByCategory, core.CategoryEmission{
				Category: c,
				Emission: core.Emission{Grams: grams},
			})
		}
	}
	return summary, nil
}

func sortByDateDesc(items []core.Activity) {
	// Insertion sort; listings are small.
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && after(items[j], items[j-1]); j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
}

func after(a, b core.Activity) bool {
	if !a.Date.Equal(b.Date.Time) {
		return a.Date.After(b.Date.Time)
	}
	return a.ID > b.ID
}
