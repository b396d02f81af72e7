package gateway

import (
	"time"

	"github.com/gymgate/gymgate/internal/access/domain"
)

// Reply types on the scanner socket.
const (
	TypeAccessGranted = "ACCESS_GRANTED"
	TypeAccessDenied  = "ACCESS_DENIED"
	TypeError         = "ERROR"
)

// memberPayload is the member block of a granted reply.
type memberPayload struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	ExpirationDate time.Time `json:"expirationDate"`
	Plan           string    `json:"plan"`
}

// reply is a single frame sent back to the scanner. A debounced scan gets
// no frame at all.
type reply struct {
	Type        string         `json:"type"`
	Reason      string         `json:"reason,omitempty"`
	Name        string         `json:"name,omitempty"`
	Member      *memberPayload `json:"member,omitempty"`
	CheckInTime *time.Time     `json:"checkInTime,omitempty"`
}

// errorReply tells the scanner the check itself failed, as opposed to the
// member being refused.
func errorReply() reply {
	return reply{Type: TypeError}
}

// replyFor maps a decision onto the wire shape.
func replyFor(decision *domain.Decision) reply {
	if decision.Outcome == domain.OutcomeGranted {
		checkIn := decision.CheckInTime
		return reply{
			Type: TypeAccessGranted,
			Member: &memberPayload{
				ID:             decision.Member.ID.String(),
				Name:           decision.Member.Name,
				ExpirationDate: decision.Member.ExpirationDate,
				Plan:           decision.Member.PlanName,
			},
			CheckInTime: &checkIn,
		}
	}

	r := reply{
		Type:   TypeAccessDenied,
		Reason: string(decision.Reason),
	}
	if decision.Member != nil {
		r.Name = decision.Member.Name
	}
	return r
}
