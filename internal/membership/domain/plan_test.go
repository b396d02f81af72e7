package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlan(t *testing.T) {
	plan, err := NewPlan("  Quarterly  ", 12900, 3, UnitMonth)
	require.NoError(t, err)

	assert.Equal(t, "Quarterly", plan.Name())
	assert.Equal(t, int64(12900), plan.Price())
	assert.Equal(t, 3, plan.DurationValue())
	assert.Equal(t, UnitMonth, plan.DurationUnit())
}

func TestNewPlanValidation(t *testing.T) {
	_, err := NewPlan("", 100, 1, UnitMonth)
	assert.ErrorIs(t, err, ErrEmptyPlanName)

	_, err = NewPlan("Monthly", -1, 1, UnitMonth)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = NewPlan("Monthly", 100, 0, UnitMonth)
	assert.ErrorIs(t, err, ErrInvalidDurationValue)

	_, err = NewPlan("Monthly", 100, 1, DurationUnit("Quarter"))
	assert.Error(t, err)
}

func TestPlanUpdate(t *testing.T) {
	plan, err := NewPlan("Monthly", 4999, 1, UnitMonth)
	require.NoError(t, err)
	plan.ClearDomainEvents()

	require.NoError(t, plan.Update("Monthly Plus", 5999, 1, UnitMonth))

	assert.Equal(t, "Monthly Plus", plan.Name())
	assert.Equal(t, int64(5999), plan.Price())

	events := plan.DomainEvents()
	require.Len(t, events, 1)
	updated, ok := events[0].(*PlanUpdated)
	require.True(t, ok)
	assert.Equal(t, plan.ID(), updated.PlanID)
	assert.Equal(t, PlanUpdatedKey, updated.RoutingKey())
}

func TestParseDurationUnit(t *testing.T) {
	for _, raw := range []string{"Day", "Week", "Month", "Year"} {
		unit, err := ParseDurationUnit(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, unit.String())
	}

	_, err := ParseDurationUnit("day")
	assert.Error(t, err)
}
