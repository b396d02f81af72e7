package queries

import (
	"context"
	"time"

	"github.com/gymgate/gymgate/internal/membership/domain"
)

// ListMembersQuery narrows the member listing.
type ListMembersQuery struct {
	// Status filters by derived status when set.
	Status *domain.Status
}

// ListMembersHandler lists members with derived statuses.
type ListMembersHandler struct {
	memberRepo domain.MemberRepository
}

// NewListMembersHandler creates a new ListMembersHandler.
func NewListMembersHandler(memberRepo domain.MemberRepository) *ListMembersHandler {
	return &ListMembersHandler{memberRepo: memberRepo}
}

// Handle lists members. Status filtering happens after the read since the
// status is never stored.
func (h *ListMembersHandler) Handle(ctx context.Context, query ListMembersQuery) ([]MemberView, error) {
	members, err := h.memberRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	views := make([]MemberView, 0, len(members))
	for _, member := range members {
		view := NewMemberView(member, now)
		if query.Status != nil && view.Status != *query.Status {
			continue
		}
		views = append(views, view)
	}

	return views, nil
}
