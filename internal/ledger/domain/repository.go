package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CategoryRepository persists Category aggregates.
type CategoryRepository interface {
	Save(ctx context.Context, category *Category) error
	Update(ctx context.Context, category *Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindByName(ctx context.Context, name string) (*Category, error)
	// FindOrCreate returns the category with the given name, creating it
	// inside the current transaction when absent.
	FindOrCreate(ctx context.Context, name, description string) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	Type       *TransactionType
	CategoryID *uuid.UUID
	MemberID   *uuid.UUID
	From       *time.Time
	To         *time.Time
}

// TransactionRepository persists Transaction aggregates.
type TransactionRepository interface {
	Save(ctx context.Context, tx *Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]*Transaction, error)
	CountByCategoryID(ctx context.Context, categoryID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
