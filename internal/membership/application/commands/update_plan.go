package commands

import (
	"context"

	"github.com/google/uuid"

	"github.com/gymgate/gymgate/internal/membership/domain"
	sharedApplication "github.com/gymgate/gymgate/internal/shared/application"
	"github.com/gymgate/gymgate/internal/shared/infrastructure/outbox"
)

// UpdatePlanCommand contains the data needed to update a plan.
type UpdatePlanCommand struct {
	PlanID        uuid.UUID
	Name          string
	Price         int64
	DurationValue int
	DurationUnit  string
}

// UpdatePlanResult contains the result of updating a plan.
type UpdatePlanResult struct {
	PlanID         uuid.UUID
	MembersUpdated int
}

// UpdatePlanHandler handles the UpdatePlanCommand.
//
// Changing a plan's duration cascades: every member on the plan gets a fresh
// expiration derived from their own join date and the new terms, in the same
// transaction as the plan edit.
type UpdatePlanHandler struct {
	planRepo   domain.PlanRepository
	memberRepo domain.MemberRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewUpdatePlanHandler creates a new UpdatePlanHandler.
func NewUpdatePlanHandler(planRepo domain.PlanRepository, memberRepo domain.MemberRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *UpdatePlanHandler {
	return &UpdatePlanHandler{
		planRepo:   planRepo,
		memberRepo: memberRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the UpdatePlanCommand.
func (h *UpdatePlanHandler) Handle(ctx context.Context, cmd UpdatePlanCommand) (*UpdatePlanResult, error) {
	unit, err := domain.ParseDurationUnit(cmd.DurationUnit)
	if err != nil {
		return nil, err
	}

	var result *UpdatePlanResult

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		plan, err := h.planRepo.FindByID(txCtx, cmd.PlanID)
		if err != nil {
			return err
		}

		if err := plan.Update(cmd.Name, cmd.Price, cmd.DurationValue, unit); err != nil {
			return err
		}
		if err := h.planRepo.Update(txCtx, plan); err != nil {
			return err
		}

		members, err := h.memberRepo.FindByPlanID(txCtx, plan.ID())
		if err != nil {
			return err
		}
		for _, member := range members {
			if err := member.RederiveExpiration(plan); err != nil {
				return err
			}
			if err := h.memberRepo.Update(txCtx, member); err != nil {
				return err
			}
		}

		if err := saveEvents(txCtx, h.outboxRepo, plan.DomainEvents()); err != nil {
			return err
		}
		plan.ClearDomainEvents()

		result = &UpdatePlanResult{
			PlanID:         plan.ID(),
			MembersUpdated: len(members),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
