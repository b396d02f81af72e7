package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymgate/gymgate/internal/access/domain"
	"github.com/gymgate/gymgate/internal/access/infrastructure/debounce"
	"github.com/gymgate/gymgate/pkg/observability"
)

type stubDirectory struct {
	members map[uuid.UUID]domain.MemberAccess
	err     error
}

func (d *stubDirectory) Lookup(_ context.Context, id uuid.UUID) (*domain.MemberAccess, error) {
	if d.err != nil {
		return nil, d.err
	}
	member, ok := d.members[id]
	if !ok {
		return nil, nil
	}
	return &member, nil
}

type recordingAttendance struct {
	recorded []domain.CheckIn
	err      error
}

func (a *recordingAttendance) Record(_ context.Context, memberID uuid.UUID, at time.Time) error {
	if a.err != nil {
		return a.err
	}
	a.recorded = append(a.recorded, domain.CheckIn{MemberID: memberID, CheckInTime: at})
	return nil
}

func (a *recordingAttendance) ListByMemberID(context.Context, uuid.UUID) ([]domain.CheckIn, error) {
	return nil, nil
}

func (a *recordingAttendance) ListByMemberIDs(context.Context, []uuid.UUID) ([]domain.CheckIn, error) {
	return nil, nil
}

func (a *recordingAttendance) ListSince(context.Context, time.Time) ([]domain.CheckIn, error) {
	return nil, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHandler(t *testing.T, directory *stubDirectory, attendance *recordingAttendance, metrics observability.Metrics) *DecideAccessHandler {
	t.Helper()
	debouncer := debounce.NewMemory(3 * time.Second)
	t.Cleanup(debouncer.Close)
	return NewDecideAccessHandler(directory, attendance, debouncer, testLogger(), metrics)
}

func TestDecideAccessGranted(t *testing.T) {
	memberID := uuid.New()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	directory := &stubDirectory{members: map[uuid.UUID]domain.MemberAccess{
		memberID: {
			ID:             memberID,
			Name:           "Ada Lovelace",
			ExpirationDate: now.AddDate(0, 1, 0),
			PlanName:       "Monthly",
		},
	}}
	attendance := &recordingAttendance{}
	metrics := observability.NewInMemoryMetrics()

	handler := newHandler(t, directory, attendance, metrics).WithClock(func() time.Time { return now })

	decision, err := handler.Handle(context.Background(), memberID.String())
	require.NoError(t, err)
	require.NotNil(t, decision)

	assert.Equal(t, domain.OutcomeGranted, decision.Outcome)
	require.NotNil(t, decision.Member)
	assert.Equal(t, "Ada Lovelace", decision.Member.Name)
	assert.True(t, decision.CheckInTime.Equal(now))

	require.Len(t, attendance.recorded, 1)
	assert.Equal(t, memberID, attendance.recorded[0].MemberID)
	assert.Equal(t, int64(1), metrics.CounterValue("access.scan.granted"))
}

func TestDecideAccessExpired(t *testing.T) {
	memberID := uuid.New()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	directory := &stubDirectory{members: map[uuid.UUID]domain.MemberAccess{
		memberID: {
			ID:             memberID,
			Name:           "Ada Lovelace",
			ExpirationDate: now.Add(-time.Millisecond),
			PlanName:       "Monthly",
		},
	}}
	attendance := &recordingAttendance{}

	handler := newHandler(t, directory, attendance, nil).WithClock(func() time.Time { return now })

	decision, err := handler.Handle(context.Background(), memberID.String())
	require.NoError(t, err)
	require.NotNil(t, decision)

	assert.Equal(t, domain.OutcomeDenied, decision.Outcome)
	assert.Equal(t, domain.ReasonMembershipExpired, decision.Reason)
	require.NotNil(t, decision.Member, "an expired denial still carries the name")
	assert.Equal(t, "Ada Lovelace", decision.Member.Name)
	assert.Empty(t, attendance.recorded, "a denial must not record attendance")
}

func TestDecideAccessUnknownMember(t *testing.T) {
	directory := &stubDirectory{members: map[uuid.UUID]domain.MemberAccess{}}
	attendance := &recordingAttendance{}

	handler := newHandler(t, directory, attendance, nil)

	decision, err := handler.Handle(context.Background(), uuid.New().String())
	require.NoError(t, err)
	require.NotNil(t, decision)

	assert.Equal(t, domain.OutcomeDenied, decision.Outcome)
	assert.Equal(t, domain.ReasonMemberNotFound, decision.Reason)
	assert.Nil(t, decision.Member)
	assert.Empty(t, attendance.recorded)
}

func TestDecideAccessUnparsableCredential(t *testing.T) {
	directory := &stubDirectory{err: errors.New("directory must not be consulted")}
	attendance := &recordingAttendance{}

	handler := newHandler(t, directory, attendance, nil)

	decision, err := handler.Handle(context.Background(), "not-a-uuid")
	require.NoError(t, err)
	require.NotNil(t, decision)

	assert.Equal(t, domain.OutcomeDenied, decision.Outcome)
	assert.Equal(t, domain.ReasonMemberNotFound, decision.Reason)
}

func TestDecideAccessDebounce(t *testing.T) {
	memberID := uuid.New()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	directory := &stubDirectory{members: map[uuid.UUID]domain.MemberAccess{
		memberID: {
			ID:             memberID,
			Name:           "Ada Lovelace",
			ExpirationDate: base.AddDate(0, 1, 0),
			PlanName:       "Monthly",
		},
	}}
	attendance := &recordingAttendance{}
	metrics := observability.NewInMemoryMetrics()

	now := base
	handler := newHandler(t, directory, attendance, metrics).WithClock(func() time.Time { return now })

	decision, err := handler.Handle(context.Background(), memberID.String())
	require.NoError(t, err)
	require.NotNil(t, decision)

	t.Run("repeat scan inside the window is silent", func(t *testing.T) {
		now = base.Add(2999 * time.Millisecond)
		decision, err := handler.Handle(context.Background(), memberID.String())
		require.NoError(t, err)
		assert.Nil(t, decision, "a suppressed scan yields no decision")
		assert.Len(t, attendance.recorded, 1, "no second check-in")
		assert.Equal(t, int64(1), metrics.CounterValue("access.scan.debounced"))
	})

	t.Run("scan after the window is processed again", func(t *testing.T) {
		now = base.Add(3001 * time.Millisecond)
		decision, err := handler.Handle(context.Background(), memberID.String())
		require.NoError(t, err)
		require.NotNil(t, decision)
		assert.Equal(t, domain.OutcomeGranted, decision.Outcome)
		assert.Len(t, attendance.recorded, 2)
	})
}

func TestDecideAccessStoreFailure(t *testing.T) {
	memberID := uuid.New()
	directory := &stubDirectory{err: errors.New("store down")}
	attendance := &recordingAttendance{}

	handler := newHandler(t, directory, attendance, nil)

	decision, err := handler.Handle(context.Background(), memberID.String())
	require.Error(t, err)
	assert.Nil(t, decision)
}
