package commands

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	ledgerDomain "github.com/gymgate/gymgate/internal/ledger/domain"
	"github.com/gymgate/gymgate/internal/membership/domain"
)

func monthlyPlan(t *testing.T) *domain.Plan {
	t.Helper()
	plan, err := domain.NewPlan("Monthly", 4999, 1, domain.UnitMonth)
	require.NoError(t, err)
	return plan
}

func TestRegisterMemberHandler(t *testing.T) {
	plan := monthlyPlan(t)
	join := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	category := membershipCategory(t)

	memberRepo := new(mockMemberRepo)
	planRepo := new(mockPlanRepo)
	categoryRepo := new(mockCategoryRepo)
	transactionRepo := new(mockTransactionRepo)
	outboxRepo := new(mockOutboxRepo)
	uow := &fakeUnitOfWork{}

	planRepo.On("FindByID", mock.Anything, plan.ID()).Return(plan, nil)
	memberRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Member")).Return(nil)
	categoryRepo.On("FindOrCreate", mock.Anything, ledgerDomain.MembershipCategoryName, mock.Anything).Return(category, nil)
	transactionRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Transaction")).Return(nil)
	outboxRepo.On("SaveBatch", mock.Anything, mock.Anything).Return(nil)

	handler := NewRegisterMemberHandler(memberRepo, planRepo, categoryRepo, transactionRepo, outboxRepo, uow)
	result, err := handler.Handle(context.Background(), RegisterMemberCommand{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		JoinDate: join,
		PlanID:   plan.ID(),
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, result.MemberID)
	assert.True(t, result.ExpirationDate.Equal(time.Date(2024, 2, 16, 23, 59, 59, 999_000_000, time.UTC)))
	assert.True(t, uow.committed)

	savedTx := transactionRepo.Calls[0].Arguments.Get(1).(*ledgerDomain.Transaction)
	assert.Equal(t, ledgerDomain.TypeIncome, savedTx.Type())
	assert.Equal(t, int64(4999), savedTx.Amount())
	assert.Equal(t, ledgerDomain.DefaultPaymentMethod, savedTx.PaymentMethod())
	require.NotNil(t, savedTx.MemberID())
	assert.Equal(t, result.MemberID, *savedTx.MemberID())
	assert.WithinDuration(t, time.Now().UTC(), savedTx.OccurredAt(), 5*time.Second)

	memberRepo.AssertExpectations(t)
	transactionRepo.AssertExpectations(t)
	outboxRepo.AssertExpectations(t)
}

func TestRegisterMemberHandlerUnknownPlan(t *testing.T) {
	memberRepo := new(mockMemberRepo)
	planRepo := new(mockPlanRepo)
	categoryRepo := new(mockCategoryRepo)
	transactionRepo := new(mockTransactionRepo)
	outboxRepo := new(mockOutboxRepo)
	uow := &fakeUnitOfWork{}

	planID := uuid.New()
	planRepo.On("FindByID", mock.Anything, planID).Return(nil, domain.ErrPlanNotFound)

	handler := NewRegisterMemberHandler(memberRepo, planRepo, categoryRepo, transactionRepo, outboxRepo, uow)
	_, err := handler.Handle(context.Background(), RegisterMemberCommand{
		Name:   "Ada",
		Email:  "ada@example.com",
		PlanID: planID,
	})

	assert.ErrorIs(t, err, domain.ErrPlanNotFound)
	assert.True(t, uow.rolledBack)
	memberRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRegisterMemberHandlerInvalidInput(t *testing.T) {
	plan := monthlyPlan(t)

	memberRepo := new(mockMemberRepo)
	planRepo := new(mockPlanRepo)
	categoryRepo := new(mockCategoryRepo)
	transactionRepo := new(mockTransactionRepo)
	outboxRepo := new(mockOutboxRepo)
	uow := &fakeUnitOfWork{}

	planRepo.On("FindByID", mock.Anything, plan.ID()).Return(plan, nil)

	handler := NewRegisterMemberHandler(memberRepo, planRepo, categoryRepo, transactionRepo, outboxRepo, uow)
	_, err := handler.Handle(context.Background(), RegisterMemberCommand{
		Name:   "",
		Email:  "ada@example.com",
		PlanID: plan.ID(),
	})

	assert.ErrorIs(t, err, domain.ErrEmptyMemberName)
	assert.True(t, uow.rolledBack)
}
