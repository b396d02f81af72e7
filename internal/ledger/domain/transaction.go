package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gymgate/gymgate/internal/shared/domain"
)

var (
	ErrInvalidAmount          = errors.New("transaction amount must be positive")
	ErrEmptyDescription       = errors.New("transaction description cannot be empty")
	ErrEmptyPaymentMethod     = errors.New("transaction payment method cannot be empty")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrCategoryNotFound       = errors.New("category not found")
	ErrCategoryInUse          = errors.New("category is referenced by existing transactions")
	ErrDuplicateCategoryName  = errors.New("category name already exists")
	ErrInvalidTransactionType = errors.New("unknown transaction type")
)

// TransactionType distinguishes money in from money out.
type TransactionType string

const (
	TypeIncome  TransactionType = "Income"
	TypeExpense TransactionType = "Expense"
)

// ParseTransactionType validates a raw type string.
func ParseTransactionType(raw string) (TransactionType, error) {
	switch TransactionType(raw) {
	case TypeIncome, TypeExpense:
		return TransactionType(raw), nil
	default:
		return "", fmt.Errorf("%w %q", ErrInvalidTransactionType, raw)
	}
}

// DefaultPaymentMethod is used when a registration or renewal does not
// specify one.
const DefaultPaymentMethod = "Cash"

// Transaction is a single ledger entry. Amount is in cents.
type Transaction struct {
	domain.BaseAggregateRoot
	txType        TransactionType
	amount        int64
	description   string
	categoryID    uuid.UUID
	memberID      *uuid.UUID
	paymentMethod string
	occurredAt    time.Time
}

// NewTransaction creates a ledger entry.
func NewTransaction(txType TransactionType, amount int64, description string, categoryID uuid.UUID, memberID *uuid.UUID, paymentMethod string, occurredAt time.Time) (*Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}
	paymentMethod = strings.TrimSpace(paymentMethod)
	if paymentMethod == "" {
		return nil, ErrEmptyPaymentMethod
	}
	if txType != TypeIncome && txType != TypeExpense {
		return nil, fmt.Errorf("%w %q", ErrInvalidTransactionType, txType)
	}

	return &Transaction{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(),
		txType:            txType,
		amount:            amount,
		description:       description,
		categoryID:        categoryID,
		memberID:          memberID,
		paymentMethod:     paymentMethod,
		occurredAt:        occurredAt.UTC(),
	}, nil
}

// NewRenewalIncome books the income side of a membership renewal.
func NewRenewalIncome(memberID uuid.UUID, memberName string, planName string, amount int64, categoryID uuid.UUID, paymentMethod string, occurredAt time.Time) (*Transaction, error) {
	description := fmt.Sprintf("Membership renewal: %s (%s)", memberName, planName)
	return newMembershipIncome(memberID, description, amount, categoryID, paymentMethod, occurredAt)
}

// NewRegistrationIncome books the income side of a new membership.
func NewRegistrationIncome(memberID uuid.UUID, memberName string, planName string, amount int64, categoryID uuid.UUID, paymentMethod string, occurredAt time.Time) (*Transaction, error) {
	description := fmt.Sprintf("Membership registration: %s (%s)", memberName, planName)
	return newMembershipIncome(memberID, description, amount, categoryID, paymentMethod, occurredAt)
}

func newMembershipIncome(memberID uuid.UUID, description string, amount int64, categoryID uuid.UUID, paymentMethod string, occurredAt time.Time) (*Transaction, error) {
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}
	return NewTransaction(TypeIncome, amount, description, categoryID, &memberID, paymentMethod, occurredAt)
}

// RehydrateTransaction recreates a transaction from persisted state.
func RehydrateTransaction(id uuid.UUID, txType TransactionType, amount int64, description string, categoryID uuid.UUID, memberID *uuid.UUID, paymentMethod string, occurredAt, createdAt, updatedAt time.Time) *Transaction {
	return &Transaction{
		BaseAggregateRoot: domain.RehydrateBaseAggregateRoot(domain.RehydrateBaseEntity(id, createdAt, updatedAt)),
		txType:            txType,
		amount:            amount,
		description:       description,
		categoryID:        categoryID,
		memberID:          memberID,
		paymentMethod:     paymentMethod,
		occurredAt:        occurredAt,
	}
}

func (t *Transaction) Type() TransactionType { return t.txType }
func (t *Transaction) Amount() int64         { return t.amount }
func (t *Transaction) Description() string   { return t.description }
func (t *Transaction) CategoryID() uuid.UUID { return t.categoryID }
func (t *Transaction) MemberID() *uuid.UUID  { return t.memberID }
func (t *Transaction) PaymentMethod() string { return t.paymentMethod }
func (t *Transaction) OccurredAt() time.Time { return t.occurredAt }
