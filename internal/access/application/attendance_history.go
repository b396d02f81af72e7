package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gymgate/gymgate/internal/access/domain"
)

// CheckInView is the read model for a recorded check-in.
type CheckInView struct {
	ID          int64     `json:"id"`
	MemberID    uuid.UUID `json:"memberId"`
	CheckInTime time.Time `json:"checkInTime"`
}

// AttendanceHistoryQuery narrows the listing. With MemberIDs only those
// members' check-ins are returned; Since cuts off older entries.
type AttendanceHistoryQuery struct {
	MemberIDs []uuid.UUID
	Since     *time.Time
}

// AttendanceHistoryHandler lists recorded check-ins, newest first.
type AttendanceHistoryHandler struct {
	attendance domain.AttendanceRepository
}

// NewAttendanceHistoryHandler creates a new AttendanceHistoryHandler.
func NewAttendanceHistoryHandler(attendance domain.AttendanceRepository) *AttendanceHistoryHandler {
	return &AttendanceHistoryHandler{attendance: attendance}
}

// Handle executes the query.
func (h *AttendanceHistoryHandler) Handle(ctx context.Context, query AttendanceHistoryQuery) ([]CheckInView, error) {
	var (
		checkIns []domain.CheckIn
		err      error
	)

	switch {
	case len(query.MemberIDs) == 1:
		checkIns, err = h.attendance.ListByMemberID(ctx, query.MemberIDs[0])
	case len(query.MemberIDs) > 1:
		checkIns, err = h.attendance.ListByMemberIDs(ctx, query.MemberIDs)
	case query.Since != nil:
		checkIns, err = h.attendance.ListSince(ctx, *query.Since)
	default:
		checkIns, err = h.attendance.ListSince(ctx, time.Time{})
	}
	if err != nil {
		return nil, err
	}

	views := make([]CheckInView, 0, len(checkIns))
	for _, checkIn := range checkIns {
		if len(query.MemberIDs) > 0 && query.Since != nil && checkIn.CheckInTime.Before(*query.Since) {
			continue
		}
		views = append(views, CheckInView{
			ID:          checkIn.ID,
			MemberID:    checkIn.MemberID,
			CheckInTime: checkIn.CheckInTime,
		})
	}

	return views, nil
}
