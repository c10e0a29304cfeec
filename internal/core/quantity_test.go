package core

import (
	"errors"
	"testing"
)

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 1000, true},
		{"1.0", 1000, true},
		{"12.5", 12500, true},
		{"12,5", 12500, true},
		{"0", 0, true},
		{"0.001", 1, true},
		{"0.0015", 2, true},  // half-up on fourth decimal
		{"0.0004", 0, true},  // rounds down
		{"1.2345", 1235, true},
		{" 2.50 ", 2500, true},
		{"100", 100000, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"1e3", 0, false},
		{"+1", 0, false},
		{"", 0, false},
		{".", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseQuantity(tc.in)
		if tc.ok {
			if err != nil || got.Milli != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Milli, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
			if !IsValidationError(err) {
				t.Fatalf("%q: %v should classify as validation error", tc.in, err)
			}
		}
	}
}

func TestParseQuantityNegative(t *testing.T) {
	for _, in := range []string{"-1", "-0.5", "-100"} {
		_, err := ParseQuantity(in)
		if !errors.Is(err, ErrNegativeQuantity) {
			t.Fatalf("%q expected ErrNegativeQuantity, got %v", in, err)
		}
	}
}

func TestFormatQuantity(t *testing.T) {
	cases := []struct {
		milli int64
		out   string
	}{
		{1000, "1"},
		{12500, "12.5"},
		{1, "0.001"},
		{100000, "100"},
		{1235, "1.235"},
		{0, "0"},
	}
	for _, tc := range cases {
		if got := FormatQuantity(Quantity{Milli: tc.milli}); got != tc.out {
			t.Fatalf("%d milli: expected %q, got %q", tc.milli, tc.out, got)
		}
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, in := range []string{"1", "12.5", "0.001", "3.25"} {
		q, err := ParseQuantity(in)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if got := FormatQuantity(q); got != in {
			t.Fatalf("%q round-tripped to %q", in, got)
		}
	}
}
