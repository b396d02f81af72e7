package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/gymgate/gymgate/internal/access/application"
)

// AttendanceHandler serves check-in history endpoints.
type AttendanceHandler struct {
	history *application.AttendanceHistoryHandler
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(history *application.AttendanceHistoryHandler) *AttendanceHandler {
	return &AttendanceHandler{history: history}
}

// ListMemberAttendance handles GET /api/v1/members/{memberID}/attendance.
func (h *AttendanceHandler) ListMemberAttendance(w http.ResponseWriter, r *http.Request) {
	memberID, err := uuid.Parse(r.PathValue("memberID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid member id")
		return
	}

	checkIns, err := h.history.Handle(r.Context(), application.AttendanceHistoryQuery{MemberIDs: []uuid.UUID{memberID}})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"checkIns": checkIns})
}

// ListAttendance handles GET /api/v1/attendance. Optional since and repeated
// memberId query parameters narrow the listing.
func (h *AttendanceHandler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	query := application.AttendanceHistoryQuery{}
	if raw := r.URL.Query().Get("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid since timestamp")
			return
		}
		query.Since = &since
	}
	for _, raw := range r.URL.Query()["memberId"] {
		memberID, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid member id")
			return
		}
		query.MemberIDs = append(query.MemberIDs, memberID)
	}

	checkIns, err := h.history.Handle(r.Context(), query)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"checkIns": checkIns})
}
