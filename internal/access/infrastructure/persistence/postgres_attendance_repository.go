package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"github.com/gymgate/gymgate/internal/access/domain"
	"github.com/gymgate/gymgate/internal/shared/infrastructure/persistence"
)

// PostgresAttendanceRepository persists gate check-ins in PostgreSQL.
type PostgresAttendanceRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAttendanceRepository creates a new PostgresAttendanceRepository.
func NewPostgresAttendanceRepository(pool *pgxpool.Pool) *PostgresAttendanceRepository {
	return &PostgresAttendanceRepository{pool: pool}
}

// Record inserts one check-in.
func (r *PostgresAttendanceRepository) Record(ctx context.Context, memberID uuid.UUID, checkInTime time.Time) error {
	exec := persistence.Executor(ctx, r.pool)

	_, err := exec.Exec(ctx,
		`INSERT INTO attendance (member_id, check_in_time) VALUES ($1, $2)`,
		memberID, checkInTime,
	)
	if err != nil {
		return fmt.Errorf("failed to record check-in: %w", err)
	}

	return nil
}

// ListByMemberID retrieves a member's check-ins, newest first.
func (r *PostgresAttendanceRepository) ListByMemberID(ctx context.Context, memberID uuid.UUID) ([]domain.CheckIn, error) {
	exec := persistence.Executor(ctx, r.pool)

	rows, err := exec.Query(ctx,
		`SELECT id, member_id, check_in_time FROM attendance WHERE member_id = $1 ORDER BY check_in_time DESC`,
		memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	defer rows.Close()

	return collectCheckIns(rows)
}

// ListByMemberIDs retrieves check-ins for several members in one round-trip.
func (r *PostgresAttendanceRepository) ListByMemberIDs(ctx context.Context, memberIDs []uuid.UUID) ([]domain.CheckIn, error) {
	if len(memberIDs) == 0 {
		return nil, nil
	}

	ids := make([]string, len(memberIDs))
	for i, id := range memberIDs {
		ids[i] = id.String()
	}

	exec := persistence.Executor(ctx, r.pool)
	rows, err := exec.Query(ctx,
		`SELECT id, member_id, check_in_time FROM attendance WHERE member_id = ANY($1) ORDER BY check_in_time DESC`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	defer rows.Close()

	return collectCheckIns(rows)
}

// ListSince retrieves all check-ins at or after the given instant.
func (r *PostgresAttendanceRepository) ListSince(ctx context.Context, since time.Time) ([]domain.CheckIn, error) {
	exec := persistence.Executor(ctx, r.pool)

	rows, err := exec.Query(ctx,
		`SELECT id, member_id, check_in_time FROM attendance WHERE check_in_time >= $1 ORDER BY check_in_time DESC`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	defer rows.Close()

	return collectCheckIns(rows)
}

func collectCheckIns(rows pgx.Rows) ([]domain.CheckIn, error) {
	var checkIns []domain.CheckIn
	for rows.Next() {
		var c domain.CheckIn
		if err := rows.Scan(&c.ID, &c.MemberID, &c.CheckInTime); err != nil {
			return nil, fmt.Errorf("failed to scan check-in: %w", err)
		}
		checkIns = append(checkIns, c)
	}

	return checkIns, rows.Err()
}
