package core

import (
	"errors"
	"testing"
)

func TestComputeExactProducts(t *testing.T) {
	cases := []struct {
		cat   Category
		mode  string
		milli int64
		grams int64
	}{
		{Electricity, "", 100_000, 37_000},   // 100 kWh * 0.37 kg
		{Electricity, "", 1_000, 370},        // 1 kWh
		{Electricity, "", 500, 185},          // 0.5 kWh
		{Transport, "", 100_000, 21_000},     // default mode is car
		{Transport, "car", 100_000, 21_000},  // 100 km * 0.21 kg
		{Transport, "bus", 100_000, 8_900},   // 100 km * 0.089 kg
		{Transport, "train", 100_000, 4_100}, // 100 km * 0.041 kg
		{Transport, "electric_car", 100_000, 5_000},
		{Transport, "bike", 250_000, 0},
		{Water, "", 1_000_000, 1_500}, // 1000 L * 0.0015 kg
		{Water, "", 1_000, 2},         // 1.5 g rounds half-up
		{Diet, "", 2_000, 5_000},      // 2 meals * 2.5 kg
		{Electricity, "", 0, 0},       // zero quantity is valid
	}
	for i, tc := range cases {
		got, err := Compute(tc.cat, tc.mode, Quantity{Milli: tc.milli})
		if err != nil {
			t.Fatalf("case %d: unexpected error %v", i, err)
		}
		if got.Grams != tc.grams {
			t.Fatalf("case %d: %s/%s %d milli: expected %d g, got %d g",
				i, tc.cat, tc.mode, tc.milli, tc.grams, got.Grams)
		}
	}
}

func TestComputeDeterministic(t *testing.T) {
	q := Quantity{Milli: 123_456}
	first, err := Compute(Transport, "bus", q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Compute(Transport, "bus", q)
		if err != nil || again.Grams != first.Grams {
			t.Fatalf("iteration %d: got %d (err=%v), want %d", i, again.Grams, err, first.Grams)
		}
	}
}

func TestComputeRejectsBadInput(t *testing.T) {
	cases := []struct {
		name  string
		cat   Category
		mode  string
		milli int64
		want  error
	}{
		{"unknown category", Category("unknown"), "", 5_000, ErrUnknownCategory},
		{"empty category", Category(""), "", 1_000, ErrUnknownCategory},
		{"unknown mode", Transport, "rocket", 1_000, ErrUnknownMode},
		{"mode on modeless category", Electricity, "car", 1_000, ErrUnknownMode},
		{"negative quantity", Electricity, "", -1, ErrNegativeQuantity},
		{"above electricity ceiling", Electricity, "", 99_999_001, ErrQuantityTooLarge},
		{"above transport ceiling", Transport, "car", 10_000_001, ErrQuantityTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compute(tc.cat, tc.mode, Quantity{Milli: tc.milli})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !IsValidationError(err) {
				t.Fatalf("%v should classify as a validation error", err)
			}
		})
	}
}

func TestComputeCeilingInclusive(t *testing.T) {
	max := MaxQuantity(Diet)
	if _, err := Compute(Diet, "", max); err != nil {
		t.Fatalf("quantity at ceiling should be valid, got %v", err)
	}
	if _, err := Compute(Diet, "", Quantity{Milli: max.Milli + 1}); !errors.Is(err, ErrQuantityTooLarge) {
		t.Fatalf("expected ErrQuantityTooLarge, got %v", err)
	}
}

func TestCategoriesAndModes(t *testing.T) {
	cats := Categories()
	if len(cats) != 4 {
		t.Fatalf("expected 4 categories, got %d", len(cats))
	}
	for _, c := range cats {
		if err := c.Validate(); err != nil {
			t.Fatalf("category %s should validate: %v", c, err)
		}
		if c.Unit() == "" {
			t.Fatalf("category %s missing unit", c)
		}
	}
	modes := ModesFor(Transport)
	if len(modes) != 5 {
		t.Fatalf("expected 5 transport modes, got %v", modes)
	}
	if DefaultMode(Transport) != "car" {
		t.Fatalf("transport default mode should be car, got %q", DefaultMode(Transport))
	}
	if ModesFor(Water) != nil {
		t.Fatalf("water should have no modes")
	}
}
