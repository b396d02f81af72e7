package commands

import (
	"context"

	"github.com/google/uuid"

	"github.com/gymgate/gymgate/internal/membership/domain"
	sharedApplication "github.com/gymgate/gymgate/internal/shared/application"
)

// DeletePlanHandler removes a plan that no member references.
type DeletePlanHandler struct {
	planRepo   domain.PlanRepository
	memberRepo domain.MemberRepository
	uow        sharedApplication.UnitOfWork
}

// NewDeletePlanHandler creates a new DeletePlanHandler.
func NewDeletePlanHandler(planRepo domain.PlanRepository, memberRepo domain.MemberRepository, uow sharedApplication.UnitOfWork) *DeletePlanHandler {
	return &DeletePlanHandler{
		planRepo:   planRepo,
		memberRepo: memberRepo,
		uow:        uow,
	}
}

// Handle removes the plan. Returns ErrPlanInUse when members still
// reference it.
func (h *DeletePlanHandler) Handle(ctx context.Context, planID uuid.UUID) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		count, err := h.memberRepo.CountByPlanID(txCtx, planID)
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrPlanInUse
		}

		return h.planRepo.Delete(txCtx, planID)
	})
}
