package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	membershipDomain "github.com/gymgate/gymgate/internal/membership/domain"
	membershipPersistence "github.com/gymgate/gymgate/internal/membership/infrastructure/persistence"
	"github.com/gymgate/gymgate/internal/shared/infrastructure/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrations.RunSQLiteMigrations(context.Background(), db))

	return db
}

func seedMember(t *testing.T, db *sql.DB, join time.Time) *membershipDomain.Member {
	t.Helper()
	ctx := context.Background()

	planRepo := membershipPersistence.NewSQLitePlanRepository(db)
	memberRepo := membershipPersistence.NewSQLiteMemberRepository(db)

	plan, err := membershipDomain.NewPlan("Monthly", 4999, 1, membershipDomain.UnitMonth)
	require.NoError(t, err)
	require.NoError(t, planRepo.Save(ctx, plan))

	member, err := membershipDomain.NewMember("Ada Lovelace", "ada@example.com", "", nil, "", join, plan)
	require.NoError(t, err)
	require.NoError(t, memberRepo.Save(ctx, member))

	return member
}

func TestSQLiteMemberDirectory(t *testing.T) {
	db := setupTestDB(t)
	directory := NewSQLiteMemberDirectory(db)
	ctx := context.Background()

	join := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	member := seedMember(t, db, join)

	t.Run("projects member and plan name", func(t *testing.T) {
		snapshot, err := directory.Lookup(ctx, member.ID())
		require.NoError(t, err)
		require.NotNil(t, snapshot)

		assert.Equal(t, member.ID(), snapshot.ID)
		assert.Equal(t, "Ada Lovelace", snapshot.Name)
		assert.Equal(t, "Monthly", snapshot.PlanName)
		assert.True(t, snapshot.ExpirationDate.Equal(time.Date(2024, 2, 16, 23, 59, 59, 999_000_000, time.UTC)))
	})

	t.Run("returns nil for unknown member", func(t *testing.T) {
		snapshot, err := directory.Lookup(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, snapshot)
	})
}

func TestSQLiteAttendanceRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteAttendanceRepository(db)
	ctx := context.Background()

	member := seedMember(t, db, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	other := uuid.New()

	first := time.Date(2024, 1, 16, 8, 0, 0, 0, time.UTC)
	second := time.Date(2024, 1, 17, 18, 30, 0, 0, time.UTC)

	require.NoError(t, repo.Record(ctx, member.ID(), first))
	require.NoError(t, repo.Record(ctx, member.ID(), second))
	require.NoError(t, repo.Record(ctx, other, second))

	t.Run("lists a member's check-ins newest first", func(t *testing.T) {
		checkIns, err := repo.ListByMemberID(ctx, member.ID())
		require.NoError(t, err)
		require.Len(t, checkIns, 2)
		assert.True(t, checkIns[0].CheckInTime.Equal(second))
		assert.True(t, checkIns[1].CheckInTime.Equal(first))
	})

	t.Run("lists check-ins for several members", func(t *testing.T) {
		checkIns, err := repo.ListByMemberIDs(ctx, []uuid.UUID{member.ID(), other})
		require.NoError(t, err)
		assert.Len(t, checkIns, 3)

		checkIns, err = repo.ListByMemberIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, checkIns)
	})

	t.Run("lists check-ins since an instant", func(t *testing.T) {
		checkIns, err := repo.ListSince(ctx, second)
		require.NoError(t, err)
		assert.Len(t, checkIns, 2)
	})
}
