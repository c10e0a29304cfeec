// Package core holds the EcoTrack domain: activity records, quantity
// parsing, the emission calculator and summary types. It performs no I/O.
//
// Emission factors are static multipliers converting a quantity into grams
// of CO2-equivalent. The electricity, transport and water values come from
// commonly cited grid/vehicle averages; the diet value is a documented flat
// placeholder. Factors are not configurable at runtime.
package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// factorSpec describes how quantities of one category convert to emissions.
// KgPerUnit applies when Mode is empty; categories with Modes use the
// per-mode factor instead, falling back to DefaultMode.
type factorSpec struct {
	Unit        string
	KgPerUnit   decimal.Decimal
	MaxMilli    int64 // inclusive quantity ceiling in milli-units
	DefaultMode string
	Modes       map[string]decimal.Decimal
}

var factors = map[Category]factorSpec{
	Electricity: {
		Unit:      "kWh",
		KgPerUnit: decimal.RequireFromString("0.37"), // US grid average
		MaxMilli:  99_999_000,
	},
	Transport: {
		Unit:        "km",
		KgPerUnit:   decimal.RequireFromString("0.21"),
		MaxMilli:    10_000_000,
		DefaultMode: "car",
		Modes: map[string]decimal.Decimal{
			"car":          decimal.RequireFromString("0.21"),
			"bus":          decimal.RequireFromString("0.089"),
			"train":        decimal.RequireFromString("0.041"),
			"electric_car": decimal.RequireFromString("0.05"),
			"bike":         decimal.RequireFromString("0"),
		},
	},
	Water: {
		Unit:      "L",
		KgPerUnit: decimal.RequireFromString("0.0015"),
		MaxMilli:  100_000_000,
	},
	Diet: {
		Unit:      "meal",
		KgPerUnit: decimal.RequireFromString("2.5"), // flat placeholder
		MaxMilli:  100_000,
	},
}

// displayOrder fixes the order categories appear in forms and summaries.
var displayOrder = []Category{Electricity, Transport, Water, Diet}

// Compute converts a quantity of the given category and mode into grams of
// CO2-equivalent. It is pure and deterministic: same input, same output, no
// side effects. Unknown categories or modes and out-of-range quantities
// return validation errors.
func Compute(c Category, mode string, q Quantity) (Emission, error) {
	spec, ok := factors[c]
	if !ok {
		return Emission{}, ErrUnknownCategory
	}
	factor := spec.KgPerUnit
	if mode != "" {
		mf, ok := spec.Modes[mode]
		if !ok {
			return Emission{}, ErrUnknownMode
		}
		factor = mf
	}
	if q.Milli < 0 {
		return Emission{}, ErrNegativeQuantity
	}
	if q.Milli > spec.MaxMilli {
		return Emission{}, ErrQuantityTooLarge
	}
	// Milli-units times kg-per-unit is already grams: q/1000 * kg * 1000.
	grams := decimal.NewFromInt(q.Milli).Mul(factor).Round(0)
	return Emission{Grams: grams.IntPart()}, nil
}

// Categories returns every known category in display order.
func Categories() []Category {
	out := make([]Category, len(displayOrder))
	copy(out, displayOrder)
	return out
}

// Unit returns the measurement unit for the category, or "" when unknown.
func (c Category) Unit() string {
	return factors[c].Unit
}

// DefaultMode returns the mode Compute assumes when none is given, or ""
// for categories without modes.
func DefaultMode(c Category) string {
	return factors[c].DefaultMode
}

// ModesFor returns the valid modes of a category, sorted, or nil when the
// category has none.
func ModesFor(c Category) []string {
	spec, ok := factors[c]
	if !ok || len(spec.Modes) == 0 {
		return nil
	}
	out := make([]string, 0, len(spec.Modes))
	for m := range spec.Modes {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// MaxQuantity returns the inclusive quantity ceiling for the category.
func MaxQuantity(c Category) Quantity {
	return Quantity{Milli: factors[c].MaxMilli}
}
