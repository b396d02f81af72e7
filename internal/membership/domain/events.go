package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/gymgate/gymgate/internal/shared/domain"
)

// Routing keys for membership events.
const (
	MemberRegisteredKey  = "membership.member.registered"
	MembershipRenewedKey = "membership.member.renewed"
	PlanUpdatedKey       = "membership.plan.updated"
)

// MemberRegistered is emitted when a new member joins.
type MemberRegistered struct {
	domain.BaseEvent
	MemberID       uuid.UUID `json:"member_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PlanID         uuid.UUID `json:"plan_id"`
	ExpirationDate time.Time `json:"expiration_date"`
}

// NewMemberRegistered creates a MemberRegistered event.
func NewMemberRegistered(memberID uuid.UUID, name, email string, planID uuid.UUID, expirationDate time.Time) *MemberRegistered {
	return &MemberRegistered{
		BaseEvent:      domain.NewBaseEvent(memberID, "member", MemberRegisteredKey),
		MemberID:       memberID,
		Name:           name,
		Email:          email,
		PlanID:         planID,
		ExpirationDate: expirationDate,
	}
}

// MembershipRenewed is emitted when a member renews onto a plan.
type MembershipRenewed struct {
	domain.BaseEvent
	MemberID       uuid.UUID `json:"member_id"`
	Name           string    `json:"name"`
	PlanID         uuid.UUID `json:"plan_id"`
	PlanName       string    `json:"plan_name"`
	ExpirationDate time.Time `json:"expiration_date"`
	Amount         int64     `json:"amount"`
}

// NewMembershipRenewed creates a MembershipRenewed event.
func NewMembershipRenewed(memberID uuid.UUID, name string, planID uuid.UUID, planName string, expirationDate time.Time, amount int64) *MembershipRenewed {
	return &MembershipRenewed{
		BaseEvent:      domain.NewBaseEvent(memberID, "member", MembershipRenewedKey),
		MemberID:       memberID,
		Name:           name,
		PlanID:         planID,
		PlanName:       planName,
		ExpirationDate: expirationDate,
		Amount:         amount,
	}
}

// PlanUpdated is emitted when a plan's terms change. Consumers should expect
// member expirations referencing the plan to have shifted in the same commit.
type PlanUpdated struct {
	domain.BaseEvent
	PlanID        uuid.UUID    `json:"plan_id"`
	Name          string       `json:"name"`
	Price         int64        `json:"price"`
	DurationValue int          `json:"duration_value"`
	DurationUnit  DurationUnit `json:"duration_unit"`
}

// NewPlanUpdated creates a PlanUpdated event.
func NewPlanUpdated(planID uuid.UUID, name string, price int64, durationValue int, durationUnit DurationUnit) *PlanUpdated {
	return &PlanUpdated{
		BaseEvent:     domain.NewBaseEvent(planID, "plan", PlanUpdatedKey),
		PlanID:        planID,
		Name:          name,
		Price:         price,
		DurationValue: durationValue,
		DurationUnit:  durationUnit,
	}
}
