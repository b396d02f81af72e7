package commands

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gymgate/gymgate/internal/membership/domain"
)

func TestUpdatePlanHandlerCascadesToMembers(t *testing.T) {
	plan := monthlyPlan(t)
	member := existingMember(t, plan)
	originalExpiration := member.ExpirationDate()

	planRepo := new(mockPlanRepo)
	memberRepo := new(mockMemberRepo)
	outboxRepo := new(mockOutboxRepo)
	uow := &fakeUnitOfWork{}

	planRepo.On("FindByID", mock.Anything, plan.ID()).Return(plan, nil)
	planRepo.On("Update", mock.Anything, plan).Return(nil)
	memberRepo.On("FindByPlanID", mock.Anything, plan.ID()).Return([]*domain.Member{member}, nil)
	memberRepo.On("Update", mock.Anything, member).Return(nil)
	outboxRepo.On("SaveBatch", mock.Anything, mock.Anything).Return(nil)

	handler := NewUpdatePlanHandler(planRepo, memberRepo, outboxRepo, uow)
	result, err := handler.Handle(context.Background(), UpdatePlanCommand{
		PlanID:        plan.ID(),
		Name:          "Monthly",
		Price:         4999,
		DurationValue: 3,
		DurationUnit:  "Month",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.MembersUpdated)
	assert.True(t, uow.committed)

	// join 2024-01-15 + 3 months + grace day
	assert.False(t, member.ExpirationDate().Equal(originalExpiration))
	assert.True(t, member.ExpirationDate().Equal(time.Date(2024, 4, 16, 23, 59, 59, 999_000_000, time.UTC)))

	memberRepo.AssertExpectations(t)
	planRepo.AssertExpectations(t)
}

func TestUpdatePlanHandlerRejectsBadUnit(t *testing.T) {
	planRepo := new(mockPlanRepo)
	memberRepo := new(mockMemberRepo)
	outboxRepo := new(mockOutboxRepo)
	uow := &fakeUnitOfWork{}

	handler := NewUpdatePlanHandler(planRepo, memberRepo, outboxRepo, uow)
	_, err := handler.Handle(context.Background(), UpdatePlanCommand{
		Name:          "Monthly",
		Price:         4999,
		DurationValue: 1,
		DurationUnit:  "Fortnight",
	})

	require.Error(t, err)
	assert.False(t, uow.committed)
	planRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestDeletePlanHandler(t *testing.T) {
	plan := monthlyPlan(t)

	t.Run("rejects deletion while members reference the plan", func(t *testing.T) {
		planRepo := new(mockPlanRepo)
		memberRepo := new(mockMemberRepo)
		uow := &fakeUnitOfWork{}

		memberRepo.On("CountByPlanID", mock.Anything, plan.ID()).Return(int64(2), nil)

		handler := NewDeletePlanHandler(planRepo, memberRepo, uow)
		err := handler.Handle(context.Background(), plan.ID())

		assert.ErrorIs(t, err, domain.ErrPlanInUse)
		planRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("deletes an unreferenced plan", func(t *testing.T) {
		planRepo := new(mockPlanRepo)
		memberRepo := new(mockMemberRepo)
		uow := &fakeUnitOfWork{}

		memberRepo.On("CountByPlanID", mock.Anything, plan.ID()).Return(int64(0), nil)
		planRepo.On("Delete", mock.Anything, plan.ID()).Return(nil)

		handler := NewDeletePlanHandler(planRepo, memberRepo, uow)
		require.NoError(t, handler.Handle(context.Background(), plan.ID()))
		assert.True(t, uow.committed)
		planRepo.AssertExpectations(t)
	})
}
