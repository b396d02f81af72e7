package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDurationValue is returned for non-positive plan durations.
// Reaching this from a persisted plan is a programmer error.
var ErrInvalidDurationValue = errors.New("duration value must be positive")

// graceDays is the buffer added beyond the calendar-arithmetic expiration.
const graceDays = 1

// ComputeExpiration derives the exact instant a membership lapses.
//
// The start date is normalized to the beginning of its calendar day in UTC,
// the plan duration is added with calendar arithmetic, one grace day is
// appended, and the time of day is fixed to 23:59:59.999 UTC. Month and year
// additions clamp to the last valid day of the target month (Jan 31 + 1 month
// lands on the last day of February, not overflowing into March).
//
// Pure and deterministic: the result depends only on the arguments.
func ComputeExpiration(start time.Time, durationValue int, durationUnit DurationUnit) (time.Time, error) {
	if durationValue <= 0 {
		return time.Time{}, fmt.Errorf("%w: %d", ErrInvalidDurationValue, durationValue)
	}

	y, m, d := start.UTC().Date()
	base := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	var end time.Time
	switch durationUnit {
	case UnitDay:
		end = base.AddDate(0, 0, durationValue)
	case UnitWeek:
		end = base.AddDate(0, 0, 7*durationValue)
	case UnitMonth:
		end = addMonthsClamped(base, durationValue)
	case UnitYear:
		end = addMonthsClamped(base, 12*durationValue)
	default:
		return time.Time{}, fmt.Errorf("%w %q", ErrInvalidDurationUnit, durationUnit)
	}

	end = end.AddDate(0, 0, graceDays)

	return time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 999_000_000, time.UTC), nil
}

// addMonthsClamped adds months with clamping rather than time.AddDate's
// day-overflow behavior.
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()

	total := int(m) - 1 + months
	y += total / 12
	total %= 12
	if total < 0 {
		total += 12
		y--
	}
	target := time.Month(total + 1)

	if last := daysInMonth(y, target); d > last {
		d = last
	}

	return time.Date(y, target, d, 0, 0, 0, 0, time.UTC)
}

// daysInMonth returns the number of days in the given month.
func daysInMonth(year int, month time.Month) int {
	// day zero of the following month
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
