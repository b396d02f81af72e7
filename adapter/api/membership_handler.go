package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/gymgate/gymgate/internal/membership/application/commands"
	"github.com/gymgate/gymgate/internal/membership/application/queries"
	"github.com/gymgate/gymgate/internal/membership/domain"
)

// MembershipHandler serves member and plan endpoints.
type MembershipHandler struct {
	registerMember *commands.RegisterMemberHandler
	renewMember    *commands.RenewMembershipHandler
	updateMember   *commands.UpdateMemberHandler
	deleteMember   *commands.DeleteMemberHandler
	createPlan     *commands.CreatePlanHandler
	updatePlan     *commands.UpdatePlanHandler
	deletePlan     *commands.DeletePlanHandler
	getMember      *queries.GetMemberHandler
	listMembers    *queries.ListMembersHandler
	getPlan        *queries.GetPlanHandler
	listPlans      *queries.ListPlansHandler
	logger         *slog.Logger
}

// NewMembershipHandler creates a new MembershipHandler.
func NewMembershipHandler(
	registerMember *commands.RegisterMemberHandler,
	renewMember *commands.RenewMembershipHandler,
	updateMember *commands.UpdateMemberHandler,
	deleteMember *commands.DeleteMemberHandler,
	createPlan *commands.CreatePlanHandler,
	updatePlan *commands.UpdatePlanHandler,
	deletePlan *commands.DeletePlanHandler,
	getMember *queries.GetMemberHandler,
	listMembers *queries.ListMembersHandler,
	getPlan *queries.GetPlanHandler,
	listPlans *queries.ListPlansHandler,
	logger *slog.Logger,
) *MembershipHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MembershipHandler{
		registerMember: registerMember,
		renewMember:    renewMember,
		updateMember:   updateMember,
		deleteMember:   deleteMember,
		createPlan:     createPlan,
		updatePlan:     updatePlan,
		deletePlan:     deletePlan,
		getMember:      getMember,
		listMembers:    listMembers,
		getPlan:        getPlan,
		listPlans:      listPlans,
		logger:         logger,
	}
}

type registerMemberRequest struct {
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	DateOfBirth   *time.Time `json:"dateOfBirth"`
	Address       string     `json:"address"`
	JoinDate      *time.Time `json:"joinDate"`
	PlanID        uuid.UUID  `json:"planId"`
	PaymentMethod string     `json:"paymentMethod"`
}

// RegisterMember handles POST /api/v1/members.
func (h *MembershipHandler) RegisterMember(w http.ResponseWriter, r *http.Request) {
	var req registerMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cmd := commands.RegisterMemberCommand{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		DateOfBirth:   req.DateOfBirth,
		Address:       req.Address,
		PlanID:        req.PlanID,
		PaymentMethod: req.PaymentMethod,
	}
	if req.JoinDate != nil {
		cmd.JoinDate = *req.JoinDate
	}

	result, err := h.registerMember.Handle(r.Context(), cmd)
	if err != nil {
		h.logger.Error("failed to register member", "error", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":             result.MemberID,
		"expirationDate": result.ExpirationDate,
		"status":         result.Status,
	})
}

// ListMembers handles GET /api/v1/members.
func (h *MembershipHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	query := queries.ListMembersQuery{}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.Status(raw)
		switch status {
		case domain.StatusActive, domain.StatusExpiring, domain.StatusExpired:
			query.Status = &status
		default:
			writeError(w, http.StatusBadRequest, "unknown status filter")
			return
		}
	}

	members, err := h.listMembers.Handle(r.Context(), query)
	if err != nil {
		h.logger.Error("failed to list members", "error", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"members": members})
}

// GetMember handles GET /api/v1/members/{memberID}.
func (h *MembershipHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	memberID, err := uuid.Parse(r.PathValue("memberID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid member id")
		return
	}

	member, err := h.getMember.Handle(r.Context(), memberID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, member)
}

type updateMemberRequest struct {
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
	Address     string     `json:"address"`
	PlanID      *uuid.UUID `json:"planId"`
	JoinDate    *time.Time `json:"joinDate"`
}

// UpdateMember handles PUT /api/v1/members/{memberID}.
func (h *MembershipHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	memberID, err := uuid.Parse(r.PathValue("memberID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid member id")
		return
	}

	var req updateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.updateMember.Handle(r.Context(), commands.UpdateMemberCommand{
		MemberID:    memberID,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Address:     req.Address,
		PlanID:      req.PlanID,
		JoinDate:    req.JoinDate,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteMember handles DELETE /api/v1/members/{memberID}.
func (h *MembershipHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	memberID, err := uuid.Parse(r.PathValue("memberID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid member id")
		return
	}

	if err := h.deleteMember.Handle(r.Context(), memberID); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type renewMembershipRequest struct {
	PlanID        uuid.UUID  `json:"planId"`
	StartDate     *time.Time `json:"startDate"`
	PaymentMethod string     `json:"paymentMethod"`
}

// RenewMembership handles POST /api/v1/members/{memberID}/renew.
func (h *MembershipHandler) RenewMembership(w http.ResponseWriter, r *http.Request) {
	memberID, err := uuid.Parse(r.PathValue("memberID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid member id")
		return
	}

	var req renewMembershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cmd := commands.RenewMembershipCommand{
		MemberID:      memberID,
		PlanID:        req.PlanID,
		PaymentMethod: req.PaymentMethod,
	}
	if req.StartDate != nil {
		cmd.StartDate = *req.StartDate
	}

	result, err := h.renewMember.Handle(r.Context(), cmd)
	if err != nil {
		h.logger.Error("failed to renew membership", "error", err, "member_id", memberID)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"memberId":       result.MemberID,
		"planId":         result.PlanID,
		"expirationDate": result.ExpirationDate,
		"status":         result.Status,
		"transactionId":  result.TransactionID,
		"amount":         result.Amount,
	})
}

type planRequest struct {
	Name          string `json:"name"`
	Price         int64  `json:"price"`
	DurationValue int    `json:"durationValue"`
	DurationUnit  string `json:"durationUnit"`
}

// CreatePlan handles POST /api/v1/plans.
func (h *MembershipHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.createPlan.Handle(r.Context(), commands.CreatePlanCommand{
		Name:          req.Name,
		Price:         req.Price,
		DurationValue: req.DurationValue,
		DurationUnit:  req.DurationUnit,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"id": result.PlanID})
}

// ListPlans handles GET /api/v1/plans.
func (h *MembershipHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.listPlans.Handle(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"plans": plans})
}

// GetPlan handles GET /api/v1/plans/{planID}.
func (h *MembershipHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	planID, err := uuid.Parse(r.PathValue("planID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid plan id")
		return
	}

	plan, err := h.getPlan.Handle(r.Context(), planID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// UpdatePlan handles PUT /api/v1/plans/{planID}.
func (h *MembershipHandler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	planID, err := uuid.Parse(r.PathValue("planID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid plan id")
		return
	}

	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.updatePlan.Handle(r.Context(), commands.UpdatePlanCommand{
		PlanID:        planID,
		Name:          req.Name,
		Price:         req.Price,
		DurationValue: req.DurationValue,
		DurationUnit:  req.DurationUnit,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":             result.PlanID,
		"membersUpdated": result.MembersUpdated,
	})
}

// DeletePlan handles DELETE /api/v1/plans/{planID}.
func (h *MembershipHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	planID, err := uuid.Parse(r.PathValue("planID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid plan id")
		return
	}

	if err := h.deletePlan.Handle(r.Context(), planID); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
