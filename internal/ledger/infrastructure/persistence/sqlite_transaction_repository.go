package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/gymgate/gymgate/internal/ledger/domain"
	"github.com/gymgate/gymgate/internal/shared/infrastructure/database"
	"github.com/gymgate/gymgate/internal/shared/infrastructure/persistence"
)

// SQLiteTransactionRepository persists ledger transactions in SQLite.
type SQLiteTransactionRepository struct {
	db *sql.DB
}

// NewSQLiteTransactionRepository creates a new SQLiteTransactionRepository.
func NewSQLiteTransactionRepository(db *sql.DB) *SQLiteTransactionRepository {
	return &SQLiteTransactionRepository{db: db}
}

// Save inserts a new transaction. Ledger entries are append-only.
func (r *SQLiteTransactionRepository) Save(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var memberID *string
	if tx.MemberID() != nil {
		s := tx.MemberID().String()
		memberID = &s
	}

	exec := persistence.SQLiteQuerier(ctx, r.db)
	_, err := exec.ExecContext(ctx, query,
		tx.ID().String(),
		string(tx.Type()),
		tx.Amount(),
		tx.PaymentMethod(),
		tx.CategoryID().String(),
		memberID,
		tx.Description(),
		formatTime(tx.OccurredAt()),
		formatTime(tx.CreatedAt()),
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}

	return nil
}

// FindByID retrieves a transaction by ID.
func (r *SQLiteTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = ?`

	exec := persistence.SQLiteQuerier(ctx, r.db)
	tx, err := scanSQLiteTransaction(exec.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}

	return tx, nil
}

// List retrieves transactions matching the filter, newest first.
func (r *SQLiteTransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE 1=1`
	var args []any

	if filter.Type != nil {
		query += " AND type = ?"
		args = append(args, string(*filter.Type))
	}
	if filter.CategoryID != nil {
		query += " AND category_id = ?"
		args = append(args, filter.CategoryID.String())
	}
	if filter.MemberID != nil {
		query += " AND member_id = ?"
		args = append(args, filter.MemberID.String())
	}
	if filter.From != nil {
		query += " AND transaction_date >= ?"
		args = append(args, formatTime(*filter.From))
	}
	if filter.To != nil {
		query += " AND transaction_date < ?"
		args = append(args, formatTime(*filter.To))
	}
	query += " ORDER BY transaction_date DESC"

	exec := persistence.SQLiteQuerier(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		tx, err := scanSQLiteTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}

// CountByCategoryID counts transactions referencing a category.
func (r *SQLiteTransactionRepository) CountByCategoryID(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	exec := persistence.SQLiteQuerier(ctx, r.db)

	var count int64
	err := exec.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE category_id = ?`, categoryID.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions by category: %w", err)
	}

	return count, nil
}

// Delete removes a transaction.
func (r *SQLiteTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := persistence.SQLiteQuerier(ctx, r.db)

	result, err := exec.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

func scanSQLiteTransaction(row rowScanner) (*domain.Transaction, error) {
	var (
		idStr         string
		txType        string
		amount        int64
		paymentMethod string
		categoryStr   string
		memberStr     *string
		description   string
		occurredStr   string
		createdStr    string
	)

	if err := row.Scan(&idStr, &txType, &amount, &paymentMethod, &categoryStr, &memberStr, &description, &occurredStr, &createdStr); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction id: %w", err)
	}
	categoryID, err := uuid.Parse(categoryStr)
	if err != nil {
		return nil, fmt.Errorf("invalid category id: %w", err)
	}

	var memberID *uuid.UUID
	if memberStr != nil {
		parsed, err := uuid.Parse(*memberStr)
		if err != nil {
			return nil, fmt.Errorf("invalid member id: %w", err)
		}
		memberID = &parsed
	}

	occurredAt, err := parseTime(occurredStr)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction date: %w", err)
	}
	createdAt, err := parseTime(createdStr)
	if err != nil {
		return nil, fmt.Errorf("invalid created at: %w", err)
	}

	return domain.RehydrateTransaction(id, domain.TransactionType(txType), amount, description, categoryID, memberID, paymentMethod, occurredAt, createdAt, createdAt), nil
}
