package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gymgate/gymgate/internal/ledger/domain"
	"github.com/gymgate/gymgate/internal/shared/infrastructure/database"
	"github.com/gymgate/gymgate/internal/shared/infrastructure/persistence"
)

// Timestamps are stored as RFC3339Nano strings, matching the membership store.

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// SQLiteCategoryRepository persists categories in SQLite.
type SQLiteCategoryRepository struct {
	db *sql.DB
}

// NewSQLiteCategoryRepository creates a new SQLiteCategoryRepository.
func NewSQLiteCategoryRepository(db *sql.DB) *SQLiteCategoryRepository {
	return &SQLiteCategoryRepository{db: db}
}

// Save inserts a new category.
func (r *SQLiteCategoryRepository) Save(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (` + categoryColumns + `)
		VALUES (?, ?, ?, ?, ?)`

	exec := persistence.SQLiteQuerier(ctx, r.db)
	_, err := exec.ExecContext(ctx, query,
		category.ID().String(),
		category.Name(),
		category.Description(),
		formatTime(category.CreatedAt()),
		formatTime(category.UpdatedAt()),
	)
	if err != nil {
		return fmt.Errorf("failed to save category: %w", err)
	}

	return nil
}

// Update persists changes to an existing category.
func (r *SQLiteCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	query := `
		UPDATE categories
		SET name = ?, description = ?, updated_at = ?
		WHERE id = ?`

	exec := persistence.SQLiteQuerier(ctx, r.db)
	result, err := exec.ExecContext(ctx, query,
		category.Name(),
		category.Description(),
		formatTime(category.UpdatedAt()),
		category.ID().String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrCategoryNotFound
	}

	return nil
}

// FindByID retrieves a category by ID.
func (r *SQLiteCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = ?`

	exec := persistence.SQLiteQuerier(ctx, r.db)
	category, err := scanSQLiteCategory(exec.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	return category, nil
}

// FindByName retrieves a category by its unique name.
func (r *SQLiteCategoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE name = ?`

	exec := persistence.SQLiteQuerier(ctx, r.db)
	category, err := scanSQLiteCategory(exec.QueryRowContext(ctx, query, name))
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
func (r *SQLiteCategoryRepository) FindOrCreate(ctx context.Context, name, description string) (*domain.Category, error) {
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
func (r *SQLiteCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY name`

	exec := persistence.SQLiteQuerier(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		category, err := scanSQLiteCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}

// Delete removes a category.
func (r *SQLiteCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := persistence.SQLiteQuerier(ctx, r.db)

	result, err := exec.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrCategoryNotFound
	}

	return nil
}

func scanSQLiteCategory(row rowScanner) (*domain.Category, error) {
	var (
		idStr       string
		name        string
		description string
		createdStr  string
		updatedStr  string
	)

	if err := row.Scan(&idStr, &name, &description, &createdStr, &updatedStr); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid category id: %w", err)
	}
	createdAt, err := parseTime(createdStr)
	if err != nil {
		return nil, fmt.Errorf("invalid created at: %w", err)
	}
	updatedAt, err := parseTime(updatedStr)
	if err != nil {
		return nil, fmt.Errorf("invalid updated at: %w", err)
	}

	return domain.RehydrateCategory(id, name, description, createdAt, updatedAt), nil
}
