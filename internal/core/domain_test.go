package core

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2024, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-01")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Year() != 2024 || d.Month() != 1 || d.Day() != 1 {
		t.Fatalf("unexpected parts: %d-%d-%d", d.Year(), d.Month(), d.Day())
	}
	if d.ISO() != "2024-01-01" {
		t.Fatalf("ISO round trip: %q", d.ISO())
	}
	for _, bad := range []string{"", "01/01/2024", "2024-13-01", "yesterday"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestActivityValidate(t *testing.T) {
	good := Activity{
		Date:     NewDate(2024, 1, 1),
		Category: Transport,
		Mode:     "car",
		Quantity: Quantity{Milli: 100_000},
		Emission: Emission{Grams: 21_000},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Activity{
		{Date: Date{}, Category: Transport, Quantity: Quantity{Milli: 1000}, Emission: Emission{Grams: 210}},
		{Date: NewDate(2024, 1, 1), Category: "plastic", Quantity: Quantity{Milli: 1000}},
		{Date: NewDate(2024, 1, 1), Category: Transport, Mode: "boat", Quantity: Quantity{Milli: 1000}},
		{Date: NewDate(2024, 1, 1), Category: Electricity, Quantity: Quantity{Milli: -1}},
		// user-supplied emission that disagrees with the calculator
		{Date: NewDate(2024, 1, 1), Category: Electricity, Quantity: Quantity{Milli: 1000}, Emission: Emission{Grams: 1}},
	}
	for i, a := range bads {
		err := a.Validate()
		if err == nil {
			t.Fatalf("case %d expected error", i)
		}
		if !IsValidationError(err) {
			t.Fatalf("case %d: %v should classify as validation error", i, err)
		}
	}
}

func TestIsValidationError(t *testing.T) {
	if IsValidationError(nil) {
		t.Fatal("nil is not a validation error")
	}
	if IsValidationError(errors.New("disk full")) {
		t.Fatal("arbitrary errors are not validation errors")
	}
	wrapped := fmt.Errorf("create activity: %w", ErrUnknownCategory)
	if !IsValidationError(wrapped) {
		t.Fatal("wrapped sentinel should classify as validation error")
	}
}

func TestEmissionKg(t *testing.T) {
	if kg := (Emission{Grams: 21_000}).Kg(); kg != 21.0 {
		t.Fatalf("expected 21.0, got %v", kg)
	}
	if u := (Quantity{Milli: 12_500}).Units(); u != 12.5 {
		t.Fatalf("expected 12.5, got %v", u)
	}
}
