package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gymgate/gymgate/internal/shared/domain"
)

var (
	ErrEmptyPlanName = errors.New("plan name cannot be empty")
	ErrInvalidPrice  = errors.New("plan price cannot be negative")
)

// Plan represents a membership plan: a priced validity span.
type Plan struct {
	domain.BaseAggregateRoot
	name          string
	price         int64
	durationValue int
	durationUnit  DurationUnit
}

// NewPlan creates a plan. Price is in cents.
func NewPlan(name string, price int64, durationValue int, durationUnit DurationUnit) (*Plan, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyPlanName
	}
	if price < 0 {
		return nil, ErrInvalidPrice
	}
	if durationValue <= 0 {
		return nil, ErrInvalidDurationValue
	}
	if !durationUnit.IsValid() {
		return nil, errors.New("unknown duration unit")
	}

	return &Plan{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(),
		name:              name,
		price:             price,
		durationValue:     durationValue,
		durationUnit:      durationUnit,
	}, nil
}

// RehydratePlan recreates a plan from persisted state.
func RehydratePlan(id uuid.UUID, name string, price int64, durationValue int, durationUnit DurationUnit, createdAt, updatedAt time.Time) *Plan {
	return &Plan{
		BaseAggregateRoot: domain.RehydrateBaseAggregateRoot(domain.RehydrateBaseEntity(id, createdAt, updatedAt)),
		name:              name,
		price:             price,
		durationValue:     durationValue,
		durationUnit:      durationUnit,
	}
}

func (p *Plan) Name() string               { return p.name }
func (p *Plan) Price() int64               { return p.price }
func (p *Plan) DurationValue() int         { return p.durationValue }
func (p *Plan) DurationUnit() DurationUnit { return p.durationUnit }

// Update replaces the plan terms. Members referencing the plan must have
// their expirations re-derived by the caller in the same unit of work.
func (p *Plan) Update(name string, price int64, durationValue int, durationUnit DurationUnit) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyPlanName
	}
	if price < 0 {
		return ErrInvalidPrice
	}
	if durationValue <= 0 {
		return ErrInvalidDurationValue
	}
	if !durationUnit.IsValid() {
		return errors.New("unknown duration unit")
	}

	p.name = name
	p.price = price
	p.durationValue = durationValue
	p.durationUnit = durationUnit
	p.Touch()

	p.AddDomainEvent(NewPlanUpdated(p.ID(), p.name, p.price, p.durationValue, p.durationUnit))

	return nil
}
