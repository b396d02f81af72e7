package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gymgate/gymgate/internal/ledger/domain"
	"github.com/gymgate/gymgate/internal/shared/infrastructure/database"
	"github.com/gymgate/gymgate/internal/shared/infrastructure/persistence"
)

// PostgresCategoryRepository persists categories in PostgreSQL.
type PostgresCategoryRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCategoryRepository creates a new PostgresCategoryRepository.
func NewPostgresCategoryRepository(pool *pgxpool.Pool) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{pool: pool}
}

const categoryColumns = `id, name, description, created_at, updated_at`

// Save inserts a new category.
func (r *PostgresCategoryRepository) Save(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (` + categoryColumns + `)
		VALUES ($1, $2, $3, $4, $5)`

	exec := persistence.Executor(ctx, r.pool)
	_, err := exec.Exec(ctx, query,
		category.ID(),
		category.Name(),
		category.Description(),
		category.CreatedAt(),
		category.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save category: %w", err)
	}

	return nil
}

// Update persists changes to an existing category.
func (r *PostgresCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	query := `
		UPDATE categories
		SET name = $2, description = $3, updated_at = $4
		WHERE id = $1`

	exec := persistence.Executor(ctx, r.pool)
	tag, err := exec.Exec(ctx, query,
		category.ID(),
		category.Name(),
		category.Description(),
		category.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}

	return nil
}

// FindByID retrieves a category by ID.
func (r *PostgresCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	exec := persistence.Executor(ctx, r.pool)
	category, err := scanPostgresCategory(exec.QueryRow(ctx, query, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	return category, nil
}

// FindByName retrieves a category by its unique name.
func (r *PostgresCategoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE name = $1`

	exec := persistence.Executor(ctx, r.pool)
	category, err := scanPostgresCategory(exec.QueryRow(ctx, query, name))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	return category, nil
}

// FindOrCreate returns the named category, creating it when absent.
// Runs inside the caller's transaction when one is in context.
func (r *PostgresCategoryRepository) FindOrCreate(ctx context.Context, name, description string) (*domain.Category, error) {
	existing, err := r.FindByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrCategoryNotFound) {
		return nil, err
	}

	category, err := domain.NewCategory(name, description)
	if err != nil {
		return nil, err
	}
	if err := r.Save(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// List retrieves all categories.
func (r *PostgresCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY name`

	exec := persistence.Executor(ctx, r.pool)
	rows, err := exec.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		category, err := scanPostgresCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}

// Delete removes a category.
func (r *PostgresCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := persistence.Executor(ctx, r.pool)

	tag, err := exec.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostgresCategory(row rowScanner) (*domain.Category, error) {
	var (
		id          uuid.UUID
		name        string
		description string
		createdAt   time.Time
		updatedAt   time.Time
	)

	if err := row.Scan(&id, &name, &description, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	return domain.RehydrateCategory(id, name, description, createdAt, updatedAt), nil
}
