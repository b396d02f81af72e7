package commands

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	ledgerDomain "github.com/gymgate/gymgate/internal/ledger/domain"
	ledgerPersistence "github.com/gymgate/gymgate/internal/ledger/infrastructure/persistence"
	"github.com/gymgate/gymgate/internal/membership/domain"
	membershipPersistence "github.com/gymgate/gymgate/internal/membership/infrastructure/persistence"
	"github.com/gymgate/gymgate/internal/shared/infrastructure/migrations"
	"github.com/gymgate/gymgate/internal/shared/infrastructure/outbox"
	sharedPersistence "github.com/gymgate/gymgate/internal/shared/infrastructure/persistence"
)

// failingTransactionStore delegates everything to a real repository but
// rejects every save.
type failingTransactionStore struct {
	ledgerDomain.TransactionRepository
}

func (s *failingTransactionStore) Save(context.Context, *ledgerDomain.Transaction) error {
	return errors.New("disk full")
}

func TestRenewMembershipHandlerLeavesNoPartialState(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, migrations.RunSQLiteMigrations(ctx, db))

	memberRepo := membershipPersistence.NewSQLiteMemberRepository(db)
	planRepo := membershipPersistence.NewSQLitePlanRepository(db)
	categoryRepo := ledgerPersistence.NewSQLiteCategoryRepository(db)
	transactionRepo := ledgerPersistence.NewSQLiteTransactionRepository(db)
	outboxRepo := outbox.NewSQLiteRepository(db)
	uow := sharedPersistence.NewSQLiteUnitOfWork(db)

	plan, err := domain.NewPlan("Monthly", 4999, 1, domain.UnitMonth)
	require.NoError(t, err)
	require.NoError(t, planRepo.Save(ctx, plan))

	join := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	member, err := domain.NewMember("Ada Lovelace", "ada@example.com", "", nil, "", join, plan)
	require.NoError(t, err)
	member.ClearDomainEvents()
	require.NoError(t, memberRepo.Save(ctx, member))
	expirationBefore := member.ExpirationDate()

	handler := NewRenewMembershipHandler(
		memberRepo,
		planRepo,
		categoryRepo,
		&failingTransactionStore{TransactionRepository: transactionRepo},
		outboxRepo,
		uow,
	)

	_, err = handler.Handle(ctx, RenewMembershipCommand{
		MemberID:  member.ID(),
		PlanID:    plan.ID(),
		StartDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)

	stored, err := memberRepo.FindByID(ctx, member.ID())
	require.NoError(t, err)
	assert.True(t, stored.ExpirationDate().Equal(expirationBefore),
		"a failed renewal must not move the expiration")

	transactions, err := transactionRepo.List(ctx, ledgerDomain.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, transactions, "a failed renewal must not book income")

	_, err = categoryRepo.FindByName(ctx, ledgerDomain.MembershipCategoryName)
	assert.ErrorIs(t, err, ledgerDomain.ErrCategoryNotFound,
		"the category created inside the failed unit of work must roll back")

	pending, err := outboxRepo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
