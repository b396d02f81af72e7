package queries

import (
	"context"

	"github.com/google/uuid"

	"github.com/gymgate/gymgate/internal/membership/domain"
)

// PlanView is the read model for a plan.
type PlanView struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Price         int64     `json:"price"`
	DurationValue int       `json:"durationValue"`
	DurationUnit  string    `json:"durationUnit"`
}

// NewPlanView builds a view from a plan.
func NewPlanView(plan *domain.Plan) PlanView {
	return PlanView{
		ID:            plan.ID(),
		Name:          plan.Name(),
		Price:         plan.Price(),
		DurationValue: plan.DurationValue(),
		DurationUnit:  plan.DurationUnit().String(),
	}
}

// ListPlansHandler lists all plans.
type ListPlansHandler struct {
	planRepo domain.PlanRepository
}

// NewListPlansHandler creates a new ListPlansHandler.
func NewListPlansHandler(planRepo domain.PlanRepository) *ListPlansHandler {
	return &ListPlansHandler{planRepo: planRepo}
}

// Handle lists all plans.
func (h *ListPlansHandler) Handle(ctx context.Context) ([]PlanView, error) {
	plans, err := h.planRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]PlanView, 0, len(plans))
	for _, plan := range plans {
		views = append(views, NewPlanView(plan))
	}

	return views, nil
}

// GetPlanHandler retrieves a single plan.
type GetPlanHandler struct {
	planRepo domain.PlanRepository
}

// NewGetPlanHandler creates a new GetPlanHandler.
func NewGetPlanHandler(planRepo domain.PlanRepository) *GetPlanHandler {
	return &GetPlanHandler{planRepo: planRepo}
}

// Handle retrieves the plan with the given ID.
func (h *GetPlanHandler) Handle(ctx context.Context, planID uuid.UUID) (*PlanView, error) {
	plan, err := h.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	view := NewPlanView(plan)
	return &view, nil
}
