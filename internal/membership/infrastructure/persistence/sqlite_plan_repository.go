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

// SQLitePlanRepository persists plans in SQLite.
type SQLitePlanRepository struct {
	db *sql.DB
}

// NewSQLitePlanRepository creates a new SQLitePlanRepository.
func NewSQLitePlanRepository(db *sql.DB) *SQLitePlanRepository {
	return &SQLitePlanRepository{db: db}
}

// Save inserts a new plan.
func (r *SQLitePlanRepository) Save(ctx context.Context, plan *domain.Plan) error {
	query := `
		INSERT INTO plans (` + planColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	exec := persistence.SQLiteQuerier(ctx, r.db)
	_, err := exec.ExecContext(ctx, query,
		plan.ID().String(),
		plan.Name(),
		plan.Price(),
		plan.DurationValue(),
		string(plan.DurationUnit()),
		formatTime(plan.CreatedAt()),
		formatTime(plan.UpdatedAt()),
	)
	if err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}

	return nil
}

// Update persists changes to an existing plan.
func (r *SQLitePlanRepository) Update(ctx context.Context, plan *domain.Plan) error {
	query := `
		UPDATE plans
		SET name = ?, price = ?, duration_value = ?, duration_unit = ?, updated_at = ?
		WHERE id = ?`

	exec := persistence.SQLiteQuerier(ctx, r.db)
	result, err := exec.ExecContext(ctx, query,
		plan.Name(),
		plan.Price(),
		plan.DurationValue(),
		string(plan.DurationUnit()),
		formatTime(plan.UpdatedAt()),
		plan.ID().String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrPlanNotFound
	}

	return nil
}

// FindByID retrieves a plan by ID.
func (r *SQLitePlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id = ?`

	exec := persistence.SQLiteQuerier(ctx, r.db)
	row := exec.QueryRowContext(ctx, query, id.String())

	plan, err := scanSQLitePlan(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to find plan: %w", err)
	}

	return plan, nil
}

// List retrieves all plans.
func (r *SQLitePlanRepository) List(ctx context.Context) ([]*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans ORDER BY price`

	exec := persistence.SQLiteQuerier(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var plans []*domain.Plan
	for rows.Next() {
		plan, err := scanSQLitePlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, plan)
	}

	return plans, rows.Err()
}

// Delete removes a plan.
func (r *SQLitePlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := persistence.SQLiteQuerier(ctx, r.db)

	result, err := exec.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrPlanNotFound
	}

	return nil
}

func scanSQLitePlan(row rowScanner) (*domain.Plan, error) {
	var (
		idStr         string
		name          string
		price         int64
		durationValue int
		durationUnit  string
		createdStr    string
		updatedStr    string
	)

	if err := row.Scan(&idStr, &name, &price, &durationValue, &durationUnit, &createdStr, &updatedStr); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid plan id: %w", err)
	}
	createdAt, err := parseTime(createdStr)
	if err != nil {
		return nil, fmt.Errorf("invalid created at: %w", err)
	}
	updatedAt, err := parseTime(updatedStr)
	if err != nil {
		return nil, fmt.Errorf("invalid updated at: %w", err)
	}

	return domain.RehydratePlan(id, name, price, durationValue, domain.DurationUnit(durationUnit), createdAt, updatedAt), nil
}
