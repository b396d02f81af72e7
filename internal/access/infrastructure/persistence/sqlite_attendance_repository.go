package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gymgate/gymgate/internal/access/domain"
	"github.com/gymgate/gymgate/internal/shared/infrastructure/persistence"
)

// SQLiteAttendanceRepository persists gate check-ins in SQLite.
type SQLiteAttendanceRepository struct {
	db *sql.DB
}

// NewSQLiteAttendanceRepository creates a new SQLiteAttendanceRepository.
func NewSQLiteAttendanceRepository(db *sql.DB) *SQLiteAttendanceRepository {
	return &SQLiteAttendanceRepository{db: db}
}

// Record inserts one check-in.
func (r *SQLiteAttendanceRepository) Record(ctx context.Context, memberID uuid.UUID, checkInTime time.Time) error {
	exec := persistence.SQLiteQuerier(ctx, r.db)

	_, err := exec.ExecContext(ctx,
		`INSERT INTO attendance (member_id, check_in_time) VALUES (?, ?)`,
		memberID.String(), checkInTime.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to record check-in: %w", err)
	}

	return nil
}

// ListByMemberID retrieves a member's check-ins, newest first.
func (r *SQLiteAttendanceRepository) ListByMemberID(ctx context.Context, memberID uuid.UUID) ([]domain.CheckIn, error) {
	exec := persistence.SQLiteQuerier(ctx, r.db)

	rows, err := exec.QueryContext(ctx,
		`SELECT id, member_id, check_in_time FROM attendance WHERE member_id = ? ORDER BY check_in_time DESC`,
		memberID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	defer rows.Close()

	return collectSQLiteCheckIns(rows)
}

// ListByMemberIDs retrieves check-ins for several members in one round-trip.
func (r *SQLiteAttendanceRepository) ListByMemberIDs(ctx context.Context, memberIDs []uuid.UUID) ([]domain.CheckIn, error) {
	if len(memberIDs) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(memberIDs))
	args := make([]any, len(memberIDs))
	for i, id := range memberIDs {
		placeholders[i] = "?"
		args[i] = id.String()
	}

	query := fmt.Sprintf(
		`SELECT id, member_id, check_in_time FROM attendance WHERE member_id IN (%s) ORDER BY check_in_time DESC`,
		strings.Join(placeholders, ", "),
	)

	exec := persistence.SQLiteQuerier(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	defer rows.Close()

	return collectSQLiteCheckIns(rows)
}

// ListSince retrieves all check-ins at or after the given instant.
func (r *SQLiteAttendanceRepository) ListSince(ctx context.Context, since time.Time) ([]domain.CheckIn, error) {
	exec := persistence.SQLiteQuerier(ctx, r.db)

	rows, err := exec.QueryContext(ctx,
		`SELECT id, member_id, check_in_time FROM attendance WHERE check_in_time >= ? ORDER BY check_in_time DESC`,
		since.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	defer rows.Close()

	return collectSQLiteCheckIns(rows)
}

func collectSQLiteCheckIns(rows *sql.Rows) ([]domain.CheckIn, error) {
	var checkIns []domain.CheckIn
	for rows.Next() {
		var (
			id         int64
			memberStr  string
			checkInStr string
		)
		if err := rows.Scan(&id, &memberStr, &checkInStr); err != nil {
			return nil, fmt.Errorf("failed to scan check-in: %w", err)
		}

		memberID, err := uuid.Parse(memberStr)
		if err != nil {
			return nil, fmt.Errorf("invalid member id: %w", err)
		}
		checkInTime, err := time.Parse(time.RFC3339Nano, checkInStr)
		if err != nil {
			return nil, fmt.Errorf("invalid check-in time: %w", err)
		}

		checkIns = append(checkIns, domain.CheckIn{ID: id, MemberID: memberID, CheckInTime: checkInTime})
	}

	return checkIns, rows.Err()
}
