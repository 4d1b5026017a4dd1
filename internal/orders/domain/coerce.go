package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseOrderID accepts a positive base-10 integer.
func ParseOrderID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidOrderID
	}
	return id, nil
}

// ParseOrderDate accepts "YYYY-MM-DD HH:MM:SS" and RFC 3339. Dates without an
// offset are taken as UTC.
func ParseOrderDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrInvalidOrderDate
	}
	if t, err := time.ParseInLocation(OrderDateLayout, raw, time.UTC); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, ErrInvalidOrderDate
}

func ParseQuantity(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	q, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || q < 0 {
		return 0, ErrInvalidQuantity
	}
	return q, nil
}

// ParseAmount parses a non-negative price. An empty field means 0, like the
// form's default.
func ParseAmount(raw string, invalid error) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, invalid
	}
	return v, nil
}

// ParseLimit applies the default and range of the rows selector.
func ParseLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > MaxLimit {
		return 0, ErrInvalidLimit
	}
	return n, nil
}
