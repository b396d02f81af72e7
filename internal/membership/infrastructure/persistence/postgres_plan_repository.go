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

// PostgresPlanRepository persists plans in PostgreSQL.
type PostgresPlanRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresPlanRepository creates a new PostgresPlanRepository.
func NewPostgresPlanRepository(pool *pgxpool.Pool) *PostgresPlanRepository {
	return &PostgresPlanRepository{pool: pool}
}

const planColumns = `id, name, price, duration_value, duration_unit, created_at, updated_at`

// Save inserts a new plan.
func (r *PostgresPlanRepository) Save(ctx context.Context, plan *domain.Plan) error {
	query := `
		INSERT INTO plans (` + planColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	exec := persistence.Executor(ctx, r.pool)
	_, err := exec.Exec(ctx, query,
		plan.ID(),
		plan.Name(),
		plan.Price(),
		plan.DurationValue(),
		string(plan.DurationUnit()),
		plan.CreatedAt(),
		plan.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}

	return nil
}

// Update persists changes to an existing plan.
func (r *PostgresPlanRepository) Update(ctx context.Context, plan *domain.Plan) error {
	query := `
		UPDATE plans
		SET name = $2, price = $3, duration_value = $4, duration_unit = $5, updated_at = $6
		WHERE id = $1`

	exec := persistence.Executor(ctx, r.pool)
	tag, err := exec.Exec(ctx, query,
		plan.ID(),
		plan.Name(),
		plan.Price(),
		plan.DurationValue(),
		string(plan.DurationUnit()),
		plan.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPlanNotFound
	}

	return nil
}

// FindByID retrieves a plan by ID.
func (r *PostgresPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id = $1`

	exec := persistence.Executor(ctx, r.pool)
	row := exec.QueryRow(ctx, query, id)

	plan, err := scanPostgresPlan(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to find plan: %w", err)
	}

	return plan, nil
}

// List retrieves all plans.
func (r *PostgresPlanRepository) List(ctx context.Context) ([]*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans ORDER BY price`

	exec := persistence.Executor(ctx, r.pool)
	rows, err := exec.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var plans []*domain.Plan
	for rows.Next() {
		plan, err := scanPostgresPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, plan)
	}

	return plans, rows.Err()
}

// Delete removes a plan.
func (r *PostgresPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := persistence.Executor(ctx, r.pool)

	tag, err := exec.Exec(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPlanNotFound
	}

	return nil
}

func scanPostgresPlan(row rowScanner) (*domain.Plan, error) {
	var (
		id            uuid.UUID
		name          string
		price         int64
		durationValue int
		durationUnit  string
		createdAt     time.Time
		updatedAt     time.Time
	)

	if err := row.Scan(&id, &name, &price, &durationValue, &durationUnit, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	return domain.RehydratePlan(id, name, price, durationValue, domain.DurationUnit(durationUnit), createdAt, updatedAt), nil
}
