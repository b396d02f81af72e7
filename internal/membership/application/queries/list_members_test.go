package queries

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gymgate/gymgate/internal/membership/domain"
)

type mockMemberRepo struct {
	mock.Mock
}

func (m *mockMemberRepo) Save(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *mockMemberRepo) Update(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *mockMemberRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *mockMemberRepo) FindByPlanID(ctx context.Context, planID uuid.UUID) ([]*domain.Member, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Member), args.Error(1)
}

func (m *mockMemberRepo) CountByPlanID(ctx context.Context, planID uuid.UUID) (int64, error) {
	args := m.Called(ctx, planID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMemberRepo) List(ctx context.Context) ([]*domain.Member, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Member), args.Error(1)
}

func (m *mockMemberRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func memberWithJoinDate(t *testing.T, name string, join time.Time) *domain.Member {
	t.Helper()
	plan, err := domain.NewPlan("Monthly", 4999, 1, domain.UnitMonth)
	require.NoError(t, err)
	member, err := domain.NewMember(name, name+"@example.com", "", nil, "", join, plan)
	require.NoError(t, err)
	return member
}

func TestListMembersHandler(t *testing.T) {
	now := time.Now().UTC()
	active := memberWithJoinDate(t, "active", now)
	expired := memberWithJoinDate(t, "expired", now.AddDate(0, -3, 0))

	repo := new(mockMemberRepo)
	repo.On("List", mock.Anything).Return([]*domain.Member{active, expired}, nil)

	handler := NewListMembersHandler(repo)

	t.Run("derives status per member", func(t *testing.T) {
		views, err := handler.Handle(context.Background(), ListMembersQuery{})
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, domain.StatusActive, views[0].Status)
		assert.Equal(t, domain.StatusExpired, views[1].Status)
	})

	t.Run("filters by derived status", func(t *testing.T) {
		status := domain.StatusExpired
		views, err := handler.Handle(context.Background(), ListMembersQuery{Status: &status})
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, expired.ID(), views[0].ID)
	})
}
