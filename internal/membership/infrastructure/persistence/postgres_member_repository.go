package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gymgate/gymgate/internal/membership/domain"
	"github.com/gymgate/gymgate/internal/shared/infrastructure/database"
	"github.com/gymgate/gymgate/internal/shared/infrastructure/persistence"
)

// PostgresMemberRepository persists members in PostgreSQL.
type PostgresMemberRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresMemberRepository creates a new PostgresMemberRepository.
func NewPostgresMemberRepository(pool *pgxpool.Pool) *PostgresMemberRepository {
	return &PostgresMemberRepository{pool: pool}
}

const memberColumns = `id, name, email, phone, date_of_birth, address, join_date, expiration_date, plan_id, created_at, updated_at`

// Save inserts a new member.
func (r *PostgresMemberRepository) Save(ctx context.Context, member *domain.Member) error {
	query := `
		INSERT INTO members (` + memberColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	exec := persistence.Executor(ctx, r.pool)
	_, err := exec.Exec(ctx, query,
		member.ID(),
		member.Name(),
		member.Email(),
		member.Phone(),
		member.DateOfBirth(),
		member.Address(),
		member.JoinDate(),
		member.ExpirationDate(),
		member.PlanID(),
		member.CreatedAt(),
		member.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save member: %w", err)
	}

	return nil
}

// Update persists changes to an existing member.
func (r *PostgresMemberRepository) Update(ctx context.Context, member *domain.Member) error {
	query := `
		UPDATE members
		SET name = $2, email = $3, phone = $4, date_of_birth = $5, address = $6,
		    join_date = $7, expiration_date = $8, plan_id = $9, updated_at = $10
		WHERE id = $1`

	exec := persistence.Executor(ctx, r.pool)
	tag, err := exec.Exec(ctx, query,
		member.ID(),
		member.Name(),
		member.Email(),
		member.Phone(),
		member.DateOfBirth(),
		member.Address(),
		member.JoinDate(),
		member.ExpirationDate(),
		member.PlanID(),
		member.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}

	return nil
}

// FindByID retrieves a member by ID.
func (r *PostgresMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`

	exec := persistence.Executor(ctx, r.pool)
	row := exec.QueryRow(ctx, query, id)

	member, err := scanPostgresMember(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}

	return member, nil
}

// FindByPlanID retrieves all members on a plan.
func (r *PostgresMemberRepository) FindByPlanID(ctx context.Context, planID uuid.UUID) ([]*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE plan_id = $1 ORDER BY name`

	exec := persistence.Executor(ctx, r.pool)
	rows, err := exec.Query(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members by plan: %w", err)
	}
	defer rows.Close()

	var members []*domain.Member
	for rows.Next() {
		member, err := scanPostgresMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}

	return members, rows.Err()
}

// CountByPlanID counts members referencing a plan.
func (r *PostgresMemberRepository) CountByPlanID(ctx context.Context, planID uuid.UUID) (int64, error) {
	exec := persistence.Executor(ctx, r.pool)

	var count int64
	err := exec.QueryRow(ctx, `SELECT COUNT(*) FROM members WHERE plan_id = $1`, planID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count members by plan: %w", err)
	}

	return count, nil
}

// List retrieves all members.
func (r *PostgresMemberRepository) List(ctx context.Context) ([]*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members ORDER BY name`

	exec := persistence.Executor(ctx, r.pool)
	rows, err := exec.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*domain.Member
	for rows.Next() {
		member, err := scanPostgresMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}

	return members, rows.Err()
}

// Delete removes a member.
func (r *PostgresMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := persistence.Executor(ctx, r.pool)

	tag, err := exec.Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostgresMember(row rowScanner) (*domain.Member, error) {
	var (
		id             uuid.UUID
		name           string
		email          string
		phone          string
		dateOfBirth    *time.Time
		address        string
		joinDate       time.Time
		expirationDate time.Time
		planID         uuid.UUID
		createdAt      time.Time
		updatedAt      time.Time
	)

	if err := row.Scan(&id, &name, &email, &phone, &dateOfBirth, &address, &joinDate, &expirationDate, &planID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	return domain.RehydrateMember(id, name, email, phone, dateOfBirth, address, joinDate, expirationDate, planID, createdAt, updatedAt), nil
}
