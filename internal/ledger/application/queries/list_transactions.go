// Package queries contains the read-side handlers for the ledger.
package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gymgate/gymgate/internal/ledger/domain"
)

// CategoryView is the read model for a ledger category.
type CategoryView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

// ListCategoriesHandler lists every ledger category.
type ListCategoriesHandler struct {
	categoryRepo domain.CategoryRepository
}

// NewListCategoriesHandler creates a new ListCategoriesHandler.
func NewListCategoriesHandler(categoryRepo domain.CategoryRepository) *ListCategoriesHandler {
	return &ListCategoriesHandler{categoryRepo: categoryRepo}
}

// Handle executes the query.
func (h *ListCategoriesHandler) Handle(ctx context.Context) ([]CategoryView, error) {
	categories, err := h.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]CategoryView, 0, len(categories))
	for _, category := range categories {
		views = append(views, CategoryView{
			ID:          category.ID(),
			Name:        category.Name(),
			Description: category.Description(),
		})
	}

	return views, nil
}

// TransactionView is the read model for a ledger entry.
type TransactionView struct {
	ID            uuid.UUID  `json:"id"`
	Type          string     `json:"type"`
	Amount        int64      `json:"amount"`
	Description   string     `json:"description"`
	CategoryID    uuid.UUID  `json:"categoryId"`
	MemberID      *uuid.UUID `json:"memberId,omitempty"`
	PaymentMethod string     `json:"paymentMethod"`
	OccurredAt    time.Time  `json:"transactionDate"`
}

// ListTransactionsQuery narrows the listing. All fields are optional.
type ListTransactionsQuery struct {
	Type       *domain.TransactionType
	CategoryID *uuid.UUID
	MemberID   *uuid.UUID
	From       *time.Time
	To         *time.Time
}

// ListTransactionsHandler lists ledger entries, newest first.
type ListTransactionsHandler struct {
	transactionRepo domain.TransactionRepository
}

// NewListTransactionsHandler creates a new ListTransactionsHandler.
func NewListTransactionsHandler(transactionRepo domain.TransactionRepository) *ListTransactionsHandler {
	return &ListTransactionsHandler{transactionRepo: transactionRepo}
}

// Handle executes the query.
func (h *ListTransactionsHandler) Handle(ctx context.Context, query ListTransactionsQuery) ([]TransactionView, error) {
	transactions, err := h.transactionRepo.List(ctx, domain.TransactionFilter{
		Type:       query.Type,
		CategoryID: query.CategoryID,
		MemberID:   query.MemberID,
		From:       query.From,
		To:         query.To,
	})
	if err != nil {
		return nil, err
	}

	views := make([]TransactionView, 0, len(transactions))
	for _, tx := range transactions {
		views = append(views, TransactionView{
			ID:            tx.ID(),
			Type:          string(tx.Type()),
			Amount:        tx.Amount(),
			Description:   tx.Description(),
			CategoryID:    tx.CategoryID(),
			MemberID:      tx.MemberID(),
			PaymentMethod: tx.PaymentMethod(),
			OccurredAt:    tx.OccurredAt(),
		})
	}

	return views, nil
}
