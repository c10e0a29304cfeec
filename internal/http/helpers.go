package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// formatKg formats an emission in grams as a kilogram string (e.g. "12.34 kg").
// Trailing zeros in the fraction are trimmed.
func formatKg(grams int64) string {
	neg := grams < 0
	if neg {
		grams = -grams
	}
	kg := grams / 1000
	rem := grams % 1000
	s := strconv.FormatInt(kg, 10)
	if rem > 0 {
		frac := strings.TrimRight(fmt.Sprintf("%03d", rem), "0")
		s += "." + frac
	}
	if neg {
		s = "-" + s
	}
	return s + " kg"
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
