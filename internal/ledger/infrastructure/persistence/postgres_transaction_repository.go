package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gymgate/gymgate/internal/ledger/domain"
	"github.com/gymgate/gymgate/internal/shared/infrastructure/database"
	"github.com/gymgate/gymgate/internal/shared/infrastructure/persistence"
)

// PostgresTransactionRepository persists ledger transactions in PostgreSQL.
type PostgresTransactionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTransactionRepository creates a new PostgresTransactionRepository.
func NewPostgresTransactionRepository(pool *pgxpool.Pool) *PostgresTransactionRepository {
	return &PostgresTransactionRepository{pool: pool}
}

const transactionColumns = `id, type, amount, payment_method, category_id, member_id, description, transaction_date, created_at`

// Save inserts a new transaction. Ledger entries are append-only.
func (r *PostgresTransactionRepository) Save(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	exec := persistence.Executor(ctx, r.pool)
	_, err := exec.Exec(ctx, query,
		tx.ID(),
		string(tx.Type()),
		tx.Amount(),
		tx.PaymentMethod(),
		tx.CategoryID(),
		tx.MemberID(),
		tx.Description(),
		tx.OccurredAt(),
		tx.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}

	return nil
}

// FindByID retrieves a transaction by ID.
func (r *PostgresTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	exec := persistence.Executor(ctx, r.pool)
	tx, err := scanPostgresTransaction(exec.QueryRow(ctx, query, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}

	return tx, nil
}

// List retrieves transactions matching the filter, newest first.
func (r *PostgresTransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE 1=1`
	var args []any

	if filter.Type != nil {
		args = append(args, string(*filter.Type))
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if filter.MemberID != nil {
		args = append(args, *filter.MemberID)
		query += fmt.Sprintf(" AND member_id = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND transaction_date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND transaction_date < $%d", len(args))
	}
	query += " ORDER BY transaction_date DESC"

	exec := persistence.Executor(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		tx, err := scanPostgresTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}

// CountByCategoryID counts transactions referencing a category.
func (r *PostgresTransactionRepository) CountByCategoryID(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	exec := persistence.Executor(ctx, r.pool)

	var count int64
	err := exec.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE category_id = $1`, categoryID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions by category: %w", err)
	}

	return count, nil
}

// Delete removes a transaction.
func (r *PostgresTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := persistence.Executor(ctx, r.pool)

	tag, err := exec.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

func scanPostgresTransaction(row rowScanner) (*domain.Transaction, error) {
	var (
		id            uuid.UUID
		txType        string
		amount        int64
		paymentMethod string
		categoryID    uuid.UUID
		memberID      *uuid.UUID
		description   string
		occurredAt    time.Time
		createdAt     time.Time
	)

	if err := row.Scan(&id, &txType, &amount, &paymentMethod, &categoryID, &memberID, &description, &occurredAt, &createdAt); err != nil {
		return nil, err
	}

	return domain.RehydrateTransaction(id, domain.TransactionType(txType), amount, description, categoryID, memberID, paymentMethod, occurredAt, createdAt, createdAt), nil
}
