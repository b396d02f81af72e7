package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gymgate/gymgate/internal/shared/domain"
)

var (
	ErrEmptyMemberName  = errors.New("member name cannot be empty")
	ErrEmptyMemberEmail = errors.New("member email cannot be empty")
	ErrNilPlan          = errors.New("member requires a plan")
)

// Member represents a gym member. The membership status is never part of
// this aggregate; it is always derived from the expiration instant via
// ResolveStatus. The expiration instant is always a UTC end-of-day point
// produced by ComputeExpiration.
type Member struct {
	domain.BaseAggregateRoot
	name           string
	email          string
	phone          string
	dateOfBirth    *time.Time
	address        string
	joinDate       time.Time
	expirationDate time.Time
	planID         uuid.UUID
}

// NewMember registers a member on a plan, deriving the expiration from the
// join date and the plan terms.
func NewMember(name, email, phone string, dateOfBirth *time.Time, address string, joinDate time.Time, plan *Plan) (*Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyMemberName
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmptyMemberEmail
	}
	if plan == nil {
		return nil, ErrNilPlan
	}

	expiration, err := ComputeExpiration(joinDate, plan.DurationValue(), plan.DurationUnit())
	if err != nil {
		return nil, err
	}

	m := &Member{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(),
		name:              name,
		email:             email,
		phone:             strings.TrimSpace(phone),
		dateOfBirth:       dateOfBirth,
		address:           strings.TrimSpace(address),
		joinDate:          joinDate.UTC(),
		expirationDate:    expiration,
		planID:            plan.ID(),
	}

	m.AddDomainEvent(NewMemberRegistered(m.ID(), m.name, m.email, plan.ID(), m.expirationDate))

	return m, nil
}

// RehydrateMember recreates a member from persisted state.
func RehydrateMember(id uuid.UUID, name, email, phone string, dateOfBirth *time.Time, address string, joinDate, expirationDate time.Time, planID uuid.UUID, createdAt, updatedAt time.Time) *Member {
	return &Member{
		BaseAggregateRoot: domain.RehydrateBaseAggregateRoot(domain.RehydrateBaseEntity(id, createdAt, updatedAt)),
		name:              name,
		email:             email,
		phone:             phone,
		dateOfBirth:       dateOfBirth,
		address:           address,
		joinDate:          joinDate,
		expirationDate:    expirationDate,
		planID:            planID,
	}
}

func (m *Member) Name() string            { return m.name }
func (m *Member) Email() string           { return m.email }
func (m *Member) Phone() string           { return m.phone }
func (m *Member) DateOfBirth() *time.Time { return m.dateOfBirth }
func (m *Member) Address() string         { return m.address }
func (m *Member) JoinDate() time.Time     { return m.joinDate }
func (m *Member) ExpirationDate() time.Time {
	return m.expirationDate
}
func (m *Member) PlanID() uuid.UUID { return m.planID }

// Status derives the membership status at the supplied instant.
func (m *Member) Status(now time.Time) Status {
	return ResolveStatus(m.expirationDate, now)
}

// Renew moves the member onto the plan effective at start, re-deriving the
// expiration from the plan terms.
func (m *Member) Renew(plan *Plan, start time.Time) error {
	if plan == nil {
		return ErrNilPlan
	}

	expiration, err := ComputeExpiration(start, plan.DurationValue(), plan.DurationUnit())
	if err != nil {
		return err
	}

	m.planID = plan.ID()
	m.joinDate = start.UTC()
	m.expirationDate = expiration
	m.Touch()

	m.AddDomainEvent(NewMembershipRenewed(m.ID(), m.name, plan.ID(), plan.Name(), m.expirationDate, plan.Price()))

	return nil
}

// UpdateProfile replaces the member's contact fields.
func (m *Member) UpdateProfile(name, email, phone string, dateOfBirth *time.Time, address string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyMemberName
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmptyMemberEmail
	}

	m.name = name
	m.email = email
	m.phone = strings.TrimSpace(phone)
	m.dateOfBirth = dateOfBirth
	m.address = strings.TrimSpace(address)
	m.Touch()

	return nil
}

// ChangePlan moves the member to a different plan keeping the supplied join
// date as the effective start, re-deriving the expiration.
func (m *Member) ChangePlan(plan *Plan, joinDate time.Time) error {
	if plan == nil {
		return ErrNilPlan
	}

	expiration, err := ComputeExpiration(joinDate, plan.DurationValue(), plan.DurationUnit())
	if err != nil {
		return err
	}

	m.planID = plan.ID()
	m.joinDate = joinDate.UTC()
	m.expirationDate = expiration
	m.Touch()

	return nil
}

// SetJoinDate moves the effective start without changing the plan.
// The caller is responsible for re-deriving the expiration when needed.
func (m *Member) SetJoinDate(joinDate time.Time) {
	m.joinDate = joinDate.UTC()
	m.Touch()
}

// RederiveExpiration recomputes the expiration from the current join date
// and the supplied plan terms. Used when a plan edit cascades to members.
func (m *Member) RederiveExpiration(plan *Plan) error {
	if plan == nil {
		return ErrNilPlan
	}

	expiration, err := ComputeExpiration(m.joinDate, plan.DurationValue(), plan.DurationUnit())
	if err != nil {
		return err
	}

	m.expirationDate = expiration
	m.Touch()

	return nil
}
