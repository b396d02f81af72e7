package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gymgate/gymgate/internal/membership/domain"
	sharedApplication "github.com/gymgate/gymgate/internal/shared/application"
)

// UpdateMemberCommand contains the data needed to update a member's profile.
type UpdateMemberCommand struct {
	MemberID    uuid.UUID
	Name        string
	Email       string
	Phone       string
	DateOfBirth *time.Time
	Address     string
	// PlanID moves the member to a different plan when set.
	PlanID *uuid.UUID
	// JoinDate moves the effective start when set.
	JoinDate *time.Time
}

// UpdateMemberHandler handles the UpdateMemberCommand.
type UpdateMemberHandler struct {
	memberRepo domain.MemberRepository
	planRepo   domain.PlanRepository
	uow        sharedApplication.UnitOfWork
}

// NewUpdateMemberHandler creates a new UpdateMemberHandler.
func NewUpdateMemberHandler(memberRepo domain.MemberRepository, planRepo domain.PlanRepository, uow sharedApplication.UnitOfWork) *UpdateMemberHandler {
	return &UpdateMemberHandler{
		memberRepo: memberRepo,
		planRepo:   planRepo,
		uow:        uow,
	}
}

// Handle executes the UpdateMemberCommand. A plan or join date change
// re-derives the expiration; profile edits leave it untouched.
func (h *UpdateMemberHandler) Handle(ctx context.Context, cmd UpdateMemberCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		member, err := h.memberRepo.FindByID(txCtx, cmd.MemberID)
		if err != nil {
			return err
		}

		if err := member.UpdateProfile(cmd.Name, cmd.Email, cmd.Phone, cmd.DateOfBirth, cmd.Address); err != nil {
			return err
		}

		planID := member.PlanID()
		if cmd.PlanID != nil {
			planID = *cmd.PlanID
		}

		if cmd.PlanID != nil || cmd.JoinDate != nil {
			plan, err := h.planRepo.FindByID(txCtx, planID)
			if err != nil {
				return err
			}

			joinDate := member.JoinDate()
			if cmd.JoinDate != nil {
				joinDate = *cmd.JoinDate
			}

			if err := member.ChangePlan(plan, joinDate); err != nil {
				return err
			}
		}

		return h.memberRepo.Update(txCtx, member)
	})
}
