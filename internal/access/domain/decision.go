package domain

import (
	"time"

	"github.com/google/uuid"
)

// Outcome is the verdict of an access check.
type Outcome string

const (
	OutcomeGranted Outcome = "granted"
	OutcomeDenied  Outcome = "denied"
)

// DenialReason says why access was refused.
type DenialReason string

const (
	ReasonMemberNotFound    DenialReason = "MEMBER_NOT_FOUND"
	ReasonMembershipExpired DenialReason = "MEMBERSHIP_EXPIRED"
)

// MemberAccess is the minimal member snapshot the gate needs: who they are
// and until when they may enter.
type MemberAccess struct {
	ID             uuid.UUID
	Name           string
	ExpirationDate time.Time
	PlanName       string
}

// IsExpired reports whether the membership has lapsed at the given instant.
func (m MemberAccess) IsExpired(now time.Time) bool {
	return now.After(m.ExpirationDate)
}

// Decision is the outcome of a single scan. A suppressed scan produces no
// Decision at all.
type Decision struct {
	Outcome     Outcome
	Reason      DenialReason
	Member      *MemberAccess
	CheckInTime time.Time
}

// Granted builds an admit decision with the recorded check-in time.
func Granted(member MemberAccess, checkInTime time.Time) *Decision {
	return &Decision{
		Outcome:     OutcomeGranted,
		Member:      &member,
		CheckInTime: checkInTime,
	}
}

// DeniedUnknown builds a refusal for an unrecognized credential.
func DeniedUnknown() *Decision {
	return &Decision{
		Outcome: OutcomeDenied,
		Reason:  ReasonMemberNotFound,
	}
}

// DeniedExpired builds a refusal for a lapsed membership. The member snapshot
// is kept so the gate can greet the person by name.
func DeniedExpired(member MemberAccess) *Decision {
	return &Decision{
		Outcome: OutcomeDenied,
		Reason:  ReasonMembershipExpired,
		Member:  &member,
	}
}
