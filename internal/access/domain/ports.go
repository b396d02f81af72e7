package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MemberDirectory resolves a scanned member ID to an access snapshot.
// The membership context owns the full member aggregate; the gate only
// ever needs this projection.
type MemberDirectory interface {
	// Lookup returns the snapshot for the member, or (nil, nil) when no
	// such member exists.
	Lookup(ctx context.Context, memberID uuid.UUID) (*MemberAccess, error)
}

// Debouncer suppresses repeat scans of the same credential within a window.
type Debouncer interface {
	// ShouldProcess reports whether a scan for the key should be handled.
	// The first call for a key in a window returns true and starts the
	// window; subsequent calls within it return false.
	ShouldProcess(ctx context.Context, key string, at time.Time) (bool, error)
}

// CheckIn is a recorded entry through the gate.
type CheckIn struct {
	ID          int64
	MemberID    uuid.UUID
	CheckInTime time.Time
}

// AttendanceRepository persists gate check-ins.
type AttendanceRepository interface {
	Record(ctx context.Context, memberID uuid.UUID, checkInTime time.Time) error
	ListByMemberID(ctx context.Context, memberID uuid.UUID) ([]CheckIn, error)
	// ListByMemberIDs fetches check-ins for several members at once.
	ListByMemberIDs(ctx context.Context, memberIDs []uuid.UUID) ([]CheckIn, error)
	// ListSince returns all check-ins at or after the given instant.
	ListSince(ctx context.Context, since time.Time) ([]CheckIn, error)
}
