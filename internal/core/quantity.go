package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseQuantity converts a decimal form value to fixed-point milli-units.
//
// It accepts both dot (12.5) and comma (12,5) decimal separators and performs
// half-up rounding on the fourth decimal place. Signs, exponents and grouping
// separators are rejected: a leading '-' yields ErrNegativeQuantity, any
// other malformed input ErrInvalidQuantity. Zero is a valid quantity.
//
// Examples:
//
//	ParseQuantity("12.5")    -> 12500, nil
//	ParseQuantity("12,5")    -> 12500, nil
//	ParseQuantity("0.0015")  -> 2, nil (rounds up)
//	ParseQuantity("-3")      -> ErrNegativeQuantity
func ParseQuantity(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Quantity{}, ErrInvalidQuantity
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "-") {
		return Quantity{}, ErrNegativeQuantity
	}
	if strings.HasPrefix(s, "+") {
		return Quantity{}, ErrInvalidQuantity
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Quantity{}, ErrInvalidQuantity
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	if intPart == "0" && fracPart == "" && len(parts) == 2 {
		// "0." is fine, "." alone is not
		if s == "." {
			return Quantity{}, ErrInvalidQuantity
		}
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return Quantity{}, ErrInvalidQuantity
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return Quantity{}, ErrInvalidQuantity
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Quantity{}, ErrInvalidQuantity
	}
	const maxSafeInt64 = (1<<63 - 1) / 1000
	if iv > maxSafeInt64 {
		return Quantity{}, ErrInvalidQuantity
	}
	// First three fractional digits, then half-up rounding on the fourth.
	var fracMilli int64
	scale := int64(100)
	for i := 0; i < len(fracPart) && i < 3; i++ {
		fracMilli += int64(fracPart[i]-'0') * scale
		scale /= 10
	}
	if len(fracPart) > 3 && fracPart[3] >= '5' {
		fracMilli++
	}
	return Quantity{Milli: iv*1000 + fracMilli}, nil
}

// FormatQuantity renders milli-units back as a decimal string, trimming
// trailing zeros ("12.5" rather than "12.500").
func FormatQuantity(q Quantity) string {
	units := q.Milli / 1000
	rem := q.Milli % 1000
	if rem == 0 {
		return strconv.FormatInt(units, 10)
	}
	s := strconv.FormatInt(units, 10) + "." + leftPad(rem)
	return strings.TrimRight(s, "0")
}

func leftPad(rem int64) string {
	s := strconv.FormatInt(rem, 10)
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}
