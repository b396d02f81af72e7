package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/gymgate/gymgate/internal/ledger/application/commands"
	"github.com/gymgate/gymgate/internal/ledger/application/queries"
	"github.com/gymgate/gymgate/internal/ledger/domain"
)

// LedgerHandler serves category and transaction endpoints.
type LedgerHandler struct {
	createCategory    *commands.CreateCategoryHandler
	recordTransaction *commands.RecordTransactionHandler
	listCategories    *queries.ListCategoriesHandler
	listTransactions  *queries.ListTransactionsHandler
	logger            *slog.Logger
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(
	createCategory *commands.CreateCategoryHandler,
	recordTransaction *commands.RecordTransactionHandler,
	listCategories *queries.ListCategoriesHandler,
	listTransactions *queries.ListTransactionsHandler,
	logger *slog.Logger,
) *LedgerHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LedgerHandler{
		createCategory:    createCategory,
		recordTransaction: recordTransaction,
		listCategories:    listCategories,
		listTransactions:  listTransactions,
		logger:            logger,
	}
}

// ListCategories handles GET /api/v1/categories.
func (h *LedgerHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.listCategories.Handle(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

type createCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateCategory handles POST /api/v1/categories.
func (h *LedgerHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.createCategory.Handle(r.Context(), commands.CreateCategoryCommand{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"id": result.CategoryID})
}

// ListTransactions handles GET /api/v1/transactions. Type, category,
// member, from and to are optional query filters.
func (h *LedgerHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	query := queries.ListTransactionsQuery{}
	params := r.URL.Query()

	if raw := params.Get("type"); raw != "" {
		txType, err := domain.ParseTransactionType(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		query.Type = &txType
	}
	if raw := params.Get("categoryId"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid category id")
			return
		}
		query.CategoryID = &categoryID
	}
	if raw := params.Get("memberId"); raw != "" {
		memberID, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid member id")
			return
		}
		query.MemberID = &memberID
	}
	if raw := params.Get("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from timestamp")
			return
		}
		query.From = &from
	}
	if raw := params.Get("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to timestamp")
			return
		}
		query.To = &to
	}

	transactions, err := h.listTransactions.Handle(r.Context(), query)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"transactions": transactions})
}

type createTransactionRequest struct {
	Type          string     `json:"type"`
	Amount        int64      `json:"amount"`
	Description   string     `json:"description"`
	CategoryID    uuid.UUID  `json:"categoryId"`
	MemberID      *uuid.UUID `json:"memberId"`
	PaymentMethod string     `json:"paymentMethod"`
	OccurredAt    *time.Time `json:"transactionDate"`
}

// CreateTransaction handles POST /api/v1/transactions.
func (h *LedgerHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cmd := commands.RecordTransactionCommand{
		Type:          req.Type,
		Amount:        req.Amount,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		MemberID:      req.MemberID,
		PaymentMethod: req.PaymentMethod,
	}
	if req.OccurredAt != nil {
		cmd.OccurredAt = *req.OccurredAt
	}

	result, err := h.recordTransaction.Handle(r.Context(), cmd)
	if err != nil {
		h.logger.Error("failed to record transaction", "error", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"id": result.TransactionID})
}
