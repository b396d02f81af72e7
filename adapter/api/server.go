// Package api provides the HTTP management API for gymgate: members, plans,
// the ledger, and attendance history. The real-time scanner socket lives in
// the gateway, not here.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	ledgerDomain "github.com/gymgate/gymgate/internal/ledger/domain"
	membershipDomain "github.com/gymgate/gymgate/internal/membership/domain"
)

// Server is the management API server.
type Server struct {
	mux        *http.ServeMux
	server     *http.Server
	logger     *slog.Logger
	membership *MembershipHandler
	ledger     *LedgerHandler
	attendance *AttendanceHandler
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "0.0.0.0:8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewServer creates a new management API server.
func NewServer(cfg ServerConfig, membership *MembershipHandler, ledger *LedgerHandler, attendance *AttendanceHandler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	s := &Server{
		mux:        mux,
		logger:     logger,
		membership: membership,
		ledger:     ledger,
		attendance: attendance,
	}

	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// registerRoutes sets up the API routes.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	// Members
	s.mux.HandleFunc("POST /api/v1/members", s.membership.RegisterMember)
	s.mux.HandleFunc("GET /api/v1/members", s.membership.ListMembers)
	s.mux.HandleFunc("GET /api/v1/members/{memberID}", s.membership.GetMember)
	s.mux.HandleFunc("PUT /api/v1/members/{memberID}", s.membership.UpdateMember)
	s.mux.HandleFunc("DELETE /api/v1/members/{memberID}", s.membership.DeleteMember)
	s.mux.HandleFunc("POST /api/v1/members/{memberID}/renew", s.membership.RenewMembership)
	s.mux.HandleFunc("GET /api/v1/members/{memberID}/attendance", s.attendance.ListMemberAttendance)

	// Plans
	s.mux.HandleFunc("POST /api/v1/plans", s.membership.CreatePlan)
	s.mux.HandleFunc("GET /api/v1/plans", s.membership.ListPlans)
	s.mux.HandleFunc("GET /api/v1/plans/{planID}", s.membership.GetPlan)
	s.mux.HandleFunc("PUT /api/v1/plans/{planID}", s.membership.UpdatePlan)
	s.mux.HandleFunc("DELETE /api/v1/plans/{planID}", s.membership.DeletePlan)

	// Ledger
	s.mux.HandleFunc("GET /api/v1/categories", s.ledger.ListCategories)
	s.mux.HandleFunc("POST /api/v1/categories", s.ledger.CreateCategory)
	s.mux.HandleFunc("GET /api/v1/transactions", s.ledger.ListTransactions)
	s.mux.HandleFunc("POST /api/v1/transactions", s.ledger.CreateTransaction)

	// Attendance
	s.mux.HandleFunc("GET /api/v1/attendance", s.attendance.ListAttendance)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting management API server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down management API server")
	return s.server.Shutdown(ctx)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error":   http.StatusText(status),
		"message": message,
	})
}

// writeDomainError maps domain errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, membershipDomain.ErrMemberNotFound),
		errors.Is(err, membershipDomain.ErrPlanNotFound),
		errors.Is(err, ledgerDomain.ErrCategoryNotFound),
		errors.Is(err, ledgerDomain.ErrTransactionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, membershipDomain.ErrPlanInUse),
		errors.Is(err, ledgerDomain.ErrCategoryInUse),
		errors.Is(err, ledgerDomain.ErrDuplicateCategoryName):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, membershipDomain.ErrEmptyMemberName),
		errors.Is(err, membershipDomain.ErrEmptyMemberEmail),
		errors.Is(err, membershipDomain.ErrNilPlan),
		errors.Is(err, membershipDomain.ErrEmptyPlanName),
		errors.Is(err, membershipDomain.ErrInvalidPrice),
		errors.Is(err, membershipDomain.ErrInvalidDurationValue),
		errors.Is(err, membershipDomain.ErrInvalidDurationUnit),
		errors.Is(err, ledgerDomain.ErrInvalidTransactionType),
		errors.Is(err, ledgerDomain.ErrEmptyCategoryName),
		errors.Is(err, ledgerDomain.ErrInvalidAmount),
		errors.Is(err, ledgerDomain.ErrEmptyDescription),
		errors.Is(err, ledgerDomain.ErrEmptyPaymentMethod):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
