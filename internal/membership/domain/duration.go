package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidDurationUnit is returned for unit strings outside the closed set.
var ErrInvalidDurationUnit = errors.New("unknown duration unit")

// DurationUnit is the unit a plan's validity span is expressed in.
// The set is closed; anything else is rejected at parse time.
type DurationUnit string

const (
	UnitDay   DurationUnit = "Day"
	UnitWeek  DurationUnit = "Week"
	UnitMonth DurationUnit = "Month"
	UnitYear  DurationUnit = "Year"
)

// ParseDurationUnit validates a raw unit string.
func ParseDurationUnit(raw string) (DurationUnit, error) {
	switch DurationUnit(raw) {
	case UnitDay, UnitWeek, UnitMonth, UnitYear:
		return DurationUnit(raw), nil
	default:
		return "", fmt.Errorf("%w %q", ErrInvalidDurationUnit, raw)
	}
}

func (u DurationUnit) String() string {
	return string(u)
}

// IsValid returns true for members of the closed unit set.
func (u DurationUnit) IsValid() bool {
	switch u {
	case UnitDay, UnitWeek, UnitMonth, UnitYear:
		return true
	default:
		return false
	}
}
