package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	ledgerDomain "github.com/gymgate/gymgate/internal/ledger/domain"
	"github.com/gymgate/gymgate/internal/membership/domain"
	sharedApplication "github.com/gymgate/gymgate/internal/shared/application"
	"github.com/gymgate/gymgate/internal/shared/infrastructure/outbox"
)

// RenewMembershipCommand contains the data needed to renew a membership.
type RenewMembershipCommand struct {
	MemberID uuid.UUID
	PlanID   uuid.UUID
	// StartDate defaults to now when zero.
	StartDate time.Time
	// PaymentMethod defaults to Cash when empty.
	PaymentMethod string
}

// RenewMembershipResult contains the result of a renewal.
type RenewMembershipResult struct {
	MemberID       uuid.UUID
	PlanID         uuid.UUID
	ExpirationDate time.Time
	Status         domain.Status
	TransactionID  uuid.UUID
	Amount         int64
}

// RenewMembershipHandler handles the RenewMembershipCommand.
//
// A renewal is one unit of work: the member's new expiration, the ledger
// income entry, and the outbox events all commit together or not at all.
type RenewMembershipHandler struct {
	memberRepo      domain.MemberRepository
	planRepo        domain.PlanRepository
	categoryRepo    ledgerDomain.CategoryRepository
	transactionRepo ledgerDomain.TransactionRepository
	outboxRepo      outbox.Repository
	uow             sharedApplication.UnitOfWork
}

// NewRenewMembershipHandler creates a new RenewMembershipHandler.
func NewRenewMembershipHandler(
	memberRepo domain.MemberRepository,
	planRepo domain.PlanRepository,
	categoryRepo ledgerDomain.CategoryRepository,
	transactionRepo ledgerDomain.TransactionRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *RenewMembershipHandler {
	return &RenewMembershipHandler{
		memberRepo:      memberRepo,
		planRepo:        planRepo,
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
		outboxRepo:      outboxRepo,
		uow:             uow,
	}
}

// Handle executes the RenewMembershipCommand.
func (h *RenewMembershipHandler) Handle(ctx context.Context, cmd RenewMembershipCommand) (*RenewMembershipResult, error) {
	var result *RenewMembershipResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		member, err := h.memberRepo.FindByID(txCtx, cmd.MemberID)
		if err != nil {
			return err
		}

		plan, err := h.planRepo.FindByID(txCtx, cmd.PlanID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()

		// start drives the expiration arithmetic only; the ledger entry is
		// booked at the current instant even for a backdated renewal.
		start := cmd.StartDate
		if start.IsZero() {
			start = now
		}

		if err := member.Renew(plan, start); err != nil {
			return err
		}
		if err := h.memberRepo.Update(txCtx, member); err != nil {
			return err
		}

		category, err := h.categoryRepo.FindOrCreate(txCtx, ledgerDomain.MembershipCategoryName, "Membership income")
		if err != nil {
			return err
		}

		income, err := ledgerDomain.NewRenewalIncome(member.ID(), member.Name(), plan.Name(), plan.Price(), category.ID(), cmd.PaymentMethod, now)
		if err != nil {
			return err
		}
		if err := h.transactionRepo.Save(txCtx, income); err != nil {
			return err
		}

		if err := saveEvents(txCtx, h.outboxRepo, member.DomainEvents()); err != nil {
			return err
		}
		member.ClearDomainEvents()

		result = &RenewMembershipResult{
			MemberID:       member.ID(),
			PlanID:         plan.ID(),
			ExpirationDate: member.ExpirationDate(),
			Status:         member.Status(now),
			TransactionID:  income.ID(),
			Amount:         income.Amount(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
