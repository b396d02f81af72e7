package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeExpiration(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		value    int
		unit     DurationUnit
		expected time.Time
	}{
		{
			name:     "one month mid-month",
			start:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			value:    1,
			unit:     UnitMonth,
			expected: time.Date(2024, 2, 16, 23, 59, 59, 999_000_000, time.UTC),
		},
		{
			name:     "one day",
			start:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			value:    1,
			unit:     UnitDay,
			expected: time.Date(2024, 1, 17, 23, 59, 59, 999_000_000, time.UTC),
		},
		{
			name:     "two weeks",
			start:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			value:    2,
			unit:     UnitWeek,
			expected: time.Date(2024, 1, 16, 23, 59, 59, 999_000_000, time.UTC),
		},
		{
			name:     "one year over leap day",
			start:    time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			value:    1,
			unit:     UnitYear,
			expected: time.Date(2025, 3, 1, 23, 59, 59, 999_000_000, time.UTC),
		},
		{
			name:     "month addition clamps jan 31 into february",
			start:    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			value:    1,
			unit:     UnitMonth,
			expected: time.Date(2024, 3, 1, 23, 59, 59, 999_000_000, time.UTC),
		},
		{
			name:     "month addition clamps in non-leap year",
			start:    time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC),
			value:    1,
			unit:     UnitMonth,
			expected: time.Date(2023, 3, 1, 23, 59, 59, 999_000_000, time.UTC),
		},
		{
			name:     "time of day is discarded before arithmetic",
			start:    time.Date(2024, 1, 15, 18, 42, 7, 123, time.UTC),
			value:    1,
			unit:     UnitMonth,
			expected: time.Date(2024, 2, 16, 23, 59, 59, 999_000_000, time.UTC),
		},
		{
			name:     "non-UTC start is normalized to the UTC calendar day",
			start:    time.Date(2024, 1, 15, 20, 0, 0, 0, time.FixedZone("UTC-8", -8*3600)),
			value:    1,
			unit:     UnitDay,
			expected: time.Date(2024, 1, 18, 23, 59, 59, 999_000_000, time.UTC),
		},
		{
			name:     "twelve months equals one year",
			start:    time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			value:    12,
			unit:     UnitMonth,
			expected: time.Date(2025, 3, 11, 23, 59, 59, 999_000_000, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeExpiration(tt.start, tt.value, tt.unit)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.expected), "got %s, want %s", got, tt.expected)
		})
	}
}

func TestComputeExpirationRejectsInvalidInput(t *testing.T) {
	_, err := ComputeExpiration(time.Now(), 0, UnitMonth)
	require.ErrorIs(t, err, ErrInvalidDurationValue)

	_, err = ComputeExpiration(time.Now(), -3, UnitDay)
	require.ErrorIs(t, err, ErrInvalidDurationValue)

	_, err = ComputeExpiration(time.Now(), 1, DurationUnit("Fortnight"))
	require.Error(t, err)
}

func TestComputeExpirationIsDeterministic(t *testing.T) {
	start := time.Date(2024, 5, 20, 9, 30, 0, 0, time.UTC)

	first, err := ComputeExpiration(start, 3, UnitMonth)
	require.NoError(t, err)
	second, err := ComputeExpiration(start, 3, UnitMonth)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
}
