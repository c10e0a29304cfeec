package core

import (
	"errors"
	"time"
)

const (
	Electricity Category = "electricity"
	Transport   Category = "transport"
	Water       Category = "water"
	Diet        Category = "diet"
)

type (
	// Category identifies one of the fixed activity kinds with a known
	// emission factor.
	Category string

	Date struct {
		time.Time
	}

	// Quantity is a fixed-point amount in thousandths of the category
	// unit (kWh, km, liters, meals).
	Quantity struct {
		Milli int64
	}

	// Emission is a CO2-equivalent amount in integer grams.
	Emission struct {
		Grams int64
	}

	// Activity is a single logged record. Emission is derived from
	// (Category, Mode, Quantity) at creation time and never user-supplied.
	Activity struct {
		ID       int64
		Date     Date
		Category Category
		Mode     string // sub-mode within the category, "" for the default
		Quantity Quantity
		Emission Emission
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrUnknownMode      = errors.New("unknown mode for category")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrNegativeQuantity = errors.New("quantity cannot be negative")
	ErrQuantityTooLarge = errors.New("quantity exceeds category maximum")
)

// validationErrs enumerates every error Compute, ParseQuantity, ParseDate or
// Validate can produce for bad user input. Storage failures are never in
// this set.
var validationErrs = []error{
	ErrInvalidDate,
	ErrUnknownCategory,
	ErrUnknownMode,
	ErrInvalidQuantity,
	ErrNegativeQuantity,
	ErrQuantityTooLarge,
}

// IsValidationError reports whether err stems from rejected user input, as
// opposed to a storage or infrastructure failure.
func IsValidationError(err error) bool {
	for _, ve := range validationErrs {
		if errors.Is(err, ve) {
			return true
		}
	}
	return false
}

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD form value.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

// ISO returns the date formatted as YYYY-MM-DD, the storage representation.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

func (c Category) Validate() error {
	if _, ok := factors[c]; !ok {
		return ErrUnknownCategory
	}
	return nil
}

func (q Quantity) Validate() error {
	if q.Milli < 0 {
		return ErrNegativeQuantity
	}
	return nil
}

// Units returns the quantity in whole category units for display only.
func (q Quantity) Units() float64 {
	return float64(q.Milli) / 1000.0
}

// Kg returns the emission in kilograms for display only. Aggregation always
// sums integer grams.
func (e Emission) Kg() float64 {
	return float64(e.Grams) / 1000.0
}

// Validate checks every invariant a stored record must satisfy. The emission
// itself is checked against the calculator so a tampered value is rejected.
func (a Activity) Validate() error {
	if err := a.Date.Validate(); err != nil {
		return err
	}
	computed, err := Compute(a.Category, a.Mode, a.Quantity)
	if err != nil {
		return err
	}
	if computed.Grams != a.Emission.Grams {
		return ErrInvalidQuantity
	}
	return nil
}
