package commands

import (
	"context"

	"github.com/google/uuid"

	"github.com/gymgate/gymgate/internal/membership/domain"
)

// DeleteMemberHandler removes a member.
type DeleteMemberHandler struct {
	memberRepo domain.MemberRepository
}

// NewDeleteMemberHandler creates a new DeleteMemberHandler.
func NewDeleteMemberHandler(memberRepo domain.MemberRepository) *DeleteMemberHandler {
	return &DeleteMemberHandler{memberRepo: memberRepo}
}

// Handle removes the member with the given ID.
func (h *DeleteMemberHandler) Handle(ctx context.Context, memberID uuid.UUID) error {
	return h.memberRepo.Delete(ctx, memberID)
}
