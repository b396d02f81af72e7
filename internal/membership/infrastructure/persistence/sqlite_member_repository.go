package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/gymgate/gymgate/internal/membership/domain"
	"github.com/gymgate/gymgate/internal/shared/infrastructure/database"
	"github.com/gymgate/gymgate/internal/shared/infrastructure/persistence"
)

// SQLiteMemberRepository persists members in SQLite.
type SQLiteMemberRepository struct {
	db *sql.DB
}

// NewSQLiteMemberRepository creates a new SQLiteMemberRepository.
func NewSQLiteMemberRepository(db *sql.DB) *SQLiteMemberRepository {
	return &SQLiteMemberRepository{db: db}
}

// Save inserts a new member.
func (r *SQLiteMemberRepository) Save(ctx context.Context, member *domain.Member) error {
	query := `
		INSERT INTO members (` + memberColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	exec := persistence.SQLiteQuerier(ctx, r.db)
	_, err := exec.ExecContext(ctx, query,
		member.ID().String(),
		member.Name(),
		member.Email(),
		member.Phone(),
		formatTimePtr(member.DateOfBirth()),
		member.Address(),
		formatTime(member.JoinDate()),
		formatTime(member.ExpirationDate()),
		member.PlanID().String(),
		formatTime(member.CreatedAt()),
		formatTime(member.UpdatedAt()),
	)
	if err != nil {
		return fmt.Errorf("failed to save member: %w", err)
	}

	return nil
}

// Update persists changes to an existing member.
func (r *SQLiteMemberRepository) Update(ctx context.Context, member *domain.Member) error {
	query := `
		UPDATE members
		SET name = ?, email = ?, phone = ?, date_of_birth = ?, address = ?,
		    join_date = ?, expiration_date = ?, plan_id = ?, updated_at = ?
		WHERE id = ?`

	exec := persistence.SQLiteQuerier(ctx, r.db)
	result, err := exec.ExecContext(ctx, query,
		member.Name(),
		member.Email(),
		member.Phone(),
		formatTimePtr(member.DateOfBirth()),
		member.Address(),
		formatTime(member.JoinDate()),
		formatTime(member.ExpirationDate()),
		member.PlanID().String(),
		formatTime(member.UpdatedAt()),
		member.ID().String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrMemberNotFound
	}

	return nil
}

// FindByID retrieves a member by ID.
func (r *SQLiteMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = ?`

	exec := persistence.SQLiteQuerier(ctx, r.db)
	row := exec.QueryRowContext(ctx, query, id.String())

	member, err := scanSQLiteMember(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}

	return member, nil
}

// FindByPlanID retrieves all members on a plan.
func (r *SQLiteMemberRepository) FindByPlanID(ctx context.Context, planID uuid.UUID) ([]*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE plan_id = ? ORDER BY name`

	exec := persistence.SQLiteQuerier(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, planID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query members by plan: %w", err)
	}
	defer rows.Close()

	return collectSQLiteMembers(rows)
}

// CountByPlanID counts members referencing a plan.
func (r *SQLiteMemberRepository) CountByPlanID(ctx context.Context, planID uuid.UUID) (int64, error) {
	exec := persistence.SQLiteQuerier(ctx, r.db)

	var count int64
	err := exec.QueryRowContext(ctx, `SELECT COUNT(*) FROM members WHERE plan_id = ?`, planID.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count members by plan: %w", err)
	}

	return count, nil
}

// List retrieves all members.
func (r *SQLiteMemberRepository) List(ctx context.Context) ([]*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members ORDER BY name`

	exec := persistence.SQLiteQuerier(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	return collectSQLiteMembers(rows)
}

// Delete removes a member.
func (r *SQLiteMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := persistence.SQLiteQuerier(ctx, r.db)

	result, err := exec.ExecContext(ctx, `DELETE FROM members WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrMemberNotFound
	}

	return nil
}

func collectSQLiteMembers(rows *sql.Rows) ([]*domain.Member, error) {
	var members []*domain.Member
	for rows.Next() {
		member, err := scanSQLiteMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}

	return members, rows.Err()
}

func scanSQLiteMember(row rowScanner) (*domain.Member, error) {
	var (
		idStr         string
		name          string
		email         string
		phone         string
		dobStr        *string
		address       string
		joinStr       string
		expirationStr string
		planIDStr     string
		createdStr    string
		updatedStr    string
	)

	if err := row.Scan(&idStr, &name, &email, &phone, &dobStr, &address, &joinStr, &expirationStr, &planIDStr, &createdStr, &updatedStr); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid member id: %w", err)
	}
	planID, err := uuid.Parse(planIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid plan id: %w", err)
	}

	dateOfBirth, err := parseTimePtr(dobStr)
	if err != nil {
		return nil, fmt.Errorf("invalid date of birth: %w", err)
	}
	joinDate, err := parseTime(joinStr)
	if err != nil {
		return nil, fmt.Errorf("invalid join date: %w", err)
	}
	expirationDate, err := parseTime(expirationStr)
	if err != nil {
		return nil, fmt.Errorf("invalid expiration date: %w", err)
	}
	createdAt, err := parseTime(createdStr)
	if err != nil {
		return nil, fmt.Errorf("invalid created at: %w", err)
	}
	updatedAt, err := parseTime(updatedStr)
	if err != nil {
		return nil, fmt.Errorf("invalid updated at: %w", err)
	}

	return domain.RehydrateMember(id, name, email, phone, dateOfBirth, address, joinDate, expirationDate, planID, createdAt, updatedAt), nil
}
