package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrMemberNotFound is returned when a member does not exist.
	ErrMemberNotFound = errors.New("member not found")
	// ErrPlanNotFound is returned when a plan does not exist.
	ErrPlanNotFound = errors.New("plan not found")
	// ErrPlanInUse is returned when deleting a plan that members still reference.
	ErrPlanInUse = errors.New("plan is referenced by existing members")
)

// MemberRepository persists Member aggregates.
type MemberRepository interface {
	Save(ctx context.Context, member *Member) error
	Update(ctx context.Context, member *Member) error
	FindByID(ctx context.Context, id uuid.UUID) (*Member, error)
	FindByPlanID(ctx context.Context, planID uuid.UUID) ([]*Member, error)
	CountByPlanID(ctx context.Context, planID uuid.UUID) (int64, error)
	List(ctx context.Context) ([]*Member, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PlanRepository persists Plan aggregates.
type PlanRepository interface {
	Save(ctx context.Context, plan *Plan) error
	Update(ctx context.Context, plan *Plan) error
	FindByID(ctx context.Context, id uuid.UUID) (*Plan, error)
	List(ctx context.Context) ([]*Plan, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
