package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gymgate/gymgate/internal/ledger/domain"
)

// RecordTransactionCommand books a manual ledger entry.
type RecordTransactionCommand struct {
	Type        string
	Amount      int64
	Description string
	CategoryID  uuid.UUID
	// MemberID links the entry to a member when set.
	MemberID *uuid.UUID
	// PaymentMethod defaults to Cash when empty.
	PaymentMethod string
	// OccurredAt defaults to now when zero.
	OccurredAt time.Time
}

// RecordTransactionResult contains the result of recording a transaction.
type RecordTransactionResult struct {
	TransactionID uuid.UUID
}

// RecordTransactionHandler handles the RecordTransactionCommand.
type RecordTransactionHandler struct {
	categoryRepo    domain.CategoryRepository
	transactionRepo domain.TransactionRepository
}

// NewRecordTransactionHandler creates a new RecordTransactionHandler.
func NewRecordTransactionHandler(categoryRepo domain.CategoryRepository, transactionRepo domain.TransactionRepository) *RecordTransactionHandler {
	return &RecordTransactionHandler{categoryRepo: categoryRepo, transactionRepo: transactionRepo}
}

// Handle executes the RecordTransactionCommand.
func (h *RecordTransactionHandler) Handle(ctx context.Context, cmd RecordTransactionCommand) (*RecordTransactionResult, error) {
	txType, err := domain.ParseTransactionType(cmd.Type)
	if err != nil {
		return nil, err
	}

	if _, err := h.categoryRepo.FindByID(ctx, cmd.CategoryID); err != nil {
		return nil, err
	}

	paymentMethod := cmd.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = domain.DefaultPaymentMethod
	}

	occurredAt := cmd.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	tx, err := domain.NewTransaction(txType, cmd.Amount, cmd.Description, cmd.CategoryID, cmd.MemberID, paymentMethod, occurredAt)
	if err != nil {
		return nil, err
	}

	if err := h.transactionRepo.Save(ctx, tx); err != nil {
		return nil, err
	}

	return &RecordTransactionResult{TransactionID: tx.ID()}, nil
}
