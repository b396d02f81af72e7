package commands

import (
	"context"

	"github.com/google/uuid"

	"github.com/gymgate/gymgate/internal/membership/domain"
)

// CreatePlanCommand contains the data needed to create a plan.
type CreatePlanCommand struct {
	Name          string
	Price         int64
	DurationValue int
	DurationUnit  string
}

// CreatePlanResult contains the result of creating a plan.
type CreatePlanResult struct {
	PlanID uuid.UUID
}

// CreatePlanHandler handles the CreatePlanCommand.
type CreatePlanHandler struct {
	planRepo domain.PlanRepository
}

// NewCreatePlanHandler creates a new CreatePlanHandler.
func NewCreatePlanHandler(planRepo domain.PlanRepository) *CreatePlanHandler {
	return &CreatePlanHandler{planRepo: planRepo}
}

// Handle executes the CreatePlanCommand.
func (h *CreatePlanHandler) Handle(ctx context.Context, cmd CreatePlanCommand) (*CreatePlanResult, error) {
	unit, err := domain.ParseDurationUnit(cmd.DurationUnit)
	if err != nil {
		return nil, err
	}

	plan, err := domain.NewPlan(cmd.Name, cmd.Price, cmd.DurationValue, unit)
	if err != nil {
		return nil, err
	}

	if err := h.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}

	return &CreatePlanResult{PlanID: plan.ID()}, nil
}
