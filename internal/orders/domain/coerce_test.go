package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderID(t *testing.T) {
	id, err := ParseOrderID(" 10 ")
	require.NoError(t, err)
	assert.Equal(t, int64(10), id)

	for _, raw := range []string{"", "abc", "1.5", "0", "-3"} {
		_, err := ParseOrderID(raw)
		assert.ErrorIs(t, err, ErrInvalidOrderID, raw)
	}
	assert.Equal(t, "Order ID must be an integer.", Message(ErrInvalidOrderID))
}

func TestParseOrderDate(t *testing.T) {
	got, err := ParseOrderDate("2026-01-01 00:00:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseOrderDate("2026-02-03T10:00:00+07:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 3, 3, 0, 0, 0, time.UTC), got)

	_, err = ParseOrderDate("01/02/2026")
	assert.ErrorIs(t, err, ErrInvalidOrderDate)
}

func TestParseNumbers(t *testing.T) {
	q, err := ParseQuantity("")
	require.NoError(t, err)
	assert.Equal(t, int64(0), q)

	_, err = ParseQuantity("-1")
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	price, err := ParseAmount("12.50", ErrInvalidUnitPrice)
	require.NoError(t, err)
	assert.Equal(t, 12.5, price)

	_, err = ParseAmount("NaN", ErrInvalidUnitPrice)
	assert.ErrorIs(t, err, ErrInvalidUnitPrice)

	_, err = ParseAmount("-0.01", ErrInvalidTotalPrice)
	assert.ErrorIs(t, err, ErrInvalidTotalPrice)
}

func TestParseLimit(t *testing.T) {
	n, err := ParseLimit("")
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, n)

	n, err = ParseLimit("100")
	require.NoError(t, err)
	assert.Equal(t, 100, n)

	for _, raw := range []string{"0", "101", "ten"} {
		_, err := ParseLimit(raw)
		assert.ErrorIs(t, err, ErrInvalidLimit, raw)
	}
}
