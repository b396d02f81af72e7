package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gymgate/gymgate/internal/access/domain"
	"github.com/gymgate/gymgate/pkg/observability"
)

// DecideAccessHandler turns a raw credential scan into an access decision.
//
// The pipeline is: debounce, parse, lookup, verdict. A scan suppressed by
// the debouncer yields a nil decision and has no side effects at all; the
// gate stays silent. Every processed scan yields exactly one decision, and
// only a granted one records attendance.
type DecideAccessHandler struct {
	directory  domain.MemberDirectory
	attendance domain.AttendanceRepository
	debouncer  domain.Debouncer
	logger     *slog.Logger
	metrics    observability.Metrics
	now        func() time.Time
}

// NewDecideAccessHandler creates a new DecideAccessHandler.
func NewDecideAccessHandler(
	directory domain.MemberDirectory,
	attendance domain.AttendanceRepository,
	debouncer domain.Debouncer,
	logger *slog.Logger,
	metrics observability.Metrics,
) *DecideAccessHandler {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &DecideAccessHandler{
		directory:  directory,
		attendance: attendance,
		debouncer:  debouncer,
		logger:     logger,
		metrics:    metrics,
		now:        time.Now,
	}
}

// WithClock overrides the time source. Test use only.
func (h *DecideAccessHandler) WithClock(now func() time.Time) *DecideAccessHandler {
	h.now = now
	return h
}

// Handle processes one scanned credential. A nil decision with a nil error
// means the scan was debounced.
func (h *DecideAccessHandler) Handle(ctx context.Context, scanned string) (*domain.Decision, error) {
	now := h.now().UTC()

	process, err := h.debouncer.ShouldProcess(ctx, scanned, now)
	if err != nil {
		return nil, fmt.Errorf("debounce check failed: %w", err)
	}
	if !process {
		h.metrics.Counter("access.scan.debounced", 1)
		h.logger.DebugContext(ctx, "scan debounced")
		return nil, nil
	}

	memberID, err := uuid.Parse(scanned)
	if err != nil {
		h.metrics.Counter("access.scan.denied", 1, observability.T("reason", "unparsable"))
		h.logger.WarnContext(ctx, "scan rejected, credential is not a member id")
		return domain.DeniedUnknown(), nil
	}

	member, err := h.directory.Lookup(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("member lookup failed: %w", err)
	}
	if member == nil {
		h.metrics.Counter("access.scan.denied", 1, observability.T("reason", "not_found"))
		h.logger.InfoContext(ctx, "access denied, unknown member", slog.String("member_id", memberID.String()))
		return domain.DeniedUnknown(), nil
	}

	if member.IsExpired(now) {
		h.metrics.Counter("access.scan.denied", 1, observability.T("reason", "expired"))
		h.logger.InfoContext(ctx, "access denied, membership expired",
			slog.String("member_id", memberID.String()),
			slog.Time("expired_at", member.ExpirationDate),
		)
		return domain.DeniedExpired(*member), nil
	}

	if err := h.attendance.Record(ctx, member.ID, now); err != nil {
		return nil, fmt.Errorf("failed to record check-in: %w", err)
	}

	h.metrics.Counter("access.scan.granted", 1)
	h.logger.InfoContext(ctx, "access granted",
		slog.String("member_id", memberID.String()),
		slog.String("member_name", member.Name),
	)

	return domain.Granted(*member, now), nil
}
