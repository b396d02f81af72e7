package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gymgate/gymgate/internal/membership/domain"
)

// MemberView is the read model for a member, with the status computed at
// query time.
type MemberView struct {
	ID             uuid.UUID     `json:"id"`
	Name           string        `json:"name"`
	Email          string        `json:"email"`
	Phone          string        `json:"phone,omitempty"`
	DateOfBirth    *time.Time    `json:"dateOfBirth,omitempty"`
	Address        string        `json:"address,omitempty"`
	JoinDate       time.Time     `json:"joinDate"`
	ExpirationDate time.Time     `json:"expirationDate"`
	PlanID         uuid.UUID     `json:"planId"`
	Status         domain.Status `json:"status"`
}

// NewMemberView builds a view with the status derived at the given instant.
func NewMemberView(member *domain.Member, now time.Time) MemberView {
	return MemberView{
		ID:             member.ID(),
		Name:           member.Name(),
		Email:          member.Email(),
		Phone:          member.Phone(),
		DateOfBirth:    member.DateOfBirth(),
		Address:        member.Address(),
		JoinDate:       member.JoinDate(),
		ExpirationDate: member.ExpirationDate(),
		PlanID:         member.PlanID(),
		Status:         member.Status(now),
	}
}

// GetMemberHandler retrieves a single member.
type GetMemberHandler struct {
	memberRepo domain.MemberRepository
}

// NewGetMemberHandler creates a new GetMemberHandler.
func NewGetMemberHandler(memberRepo domain.MemberRepository) *GetMemberHandler {
	return &GetMemberHandler{memberRepo: memberRepo}
}

// Handle retrieves the member with the given ID.
func (h *GetMemberHandler) Handle(ctx context.Context, memberID uuid.UUID) (*MemberView, error) {
	member, err := h.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	view := NewMemberView(member, time.Now().UTC())
	return &view, nil
}
