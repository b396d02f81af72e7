package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	ledgerDomain "github.com/gymgate/gymgate/internal/ledger/domain"
	"github.com/gymgate/gymgate/internal/membership/domain"
	sharedApplication "github.com/gymgate/gymgate/internal/shared/application"
	sharedDomain "github.com/gymgate/gymgate/internal/shared/domain"
	"github.com/gymgate/gymgate/internal/shared/infrastructure/outbox"
)

// RegisterMemberCommand contains the data needed to register a member.
type RegisterMemberCommand struct {
	Name        string
	Email       string
	Phone       string
	DateOfBirth *time.Time
	Address     string
	JoinDate    time.Time
	PlanID      uuid.UUID
	// PaymentMethod defaults to Cash when empty.
	PaymentMethod string
}

// RegisterMemberResult contains the result of registering a member.
type RegisterMemberResult struct {
	MemberID       uuid.UUID
	ExpirationDate time.Time
	Status         domain.Status
}

// RegisterMemberHandler handles the RegisterMemberCommand.
//
// Registration books the first membership payment: the member row, the ledger
// income entry, and the outbox events commit in one unit of work.
type RegisterMemberHandler struct {
	memberRepo      domain.MemberRepository
	planRepo        domain.PlanRepository
	categoryRepo    ledgerDomain.CategoryRepository
	transactionRepo ledgerDomain.TransactionRepository
	outboxRepo      outbox.Repository
	uow             sharedApplication.UnitOfWork
}

// NewRegisterMemberHandler creates a new RegisterMemberHandler.
func NewRegisterMemberHandler(
	memberRepo domain.MemberRepository,
	planRepo domain.PlanRepository,
	categoryRepo ledgerDomain.CategoryRepository,
	transactionRepo ledgerDomain.TransactionRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *RegisterMemberHandler {
	return &RegisterMemberHandler{
		memberRepo:      memberRepo,
		planRepo:        planRepo,
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
		outboxRepo:      outboxRepo,
		uow:             uow,
	}
}

// Handle executes the RegisterMemberCommand.
func (h *RegisterMemberHandler) Handle(ctx context.Context, cmd RegisterMemberCommand) (*RegisterMemberResult, error) {
	var result *RegisterMemberResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		plan, err := h.planRepo.FindByID(txCtx, cmd.PlanID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()

		// joinDate drives the expiration arithmetic only; the ledger entry is
		// booked at the current instant even for a backdated join date.
		joinDate := cmd.JoinDate
		if joinDate.IsZero() {
			joinDate = now
		}

		member, err := domain.NewMember(cmd.Name, cmd.Email, cmd.Phone, cmd.DateOfBirth, cmd.Address, joinDate, plan)
		if err != nil {
			return err
		}

		if err := h.memberRepo.Save(txCtx, member); err != nil {
			return err
		}

		category, err := h.categoryRepo.FindOrCreate(txCtx, ledgerDomain.MembershipCategoryName, "Membership income")
		if err != nil {
			return err
		}

		income, err := ledgerDomain.NewRegistrationIncome(member.ID(), member.Name(), plan.Name(), plan.Price(), category.ID(), cmd.PaymentMethod, now)
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

		result = &RegisterMemberResult{
			MemberID:       member.ID(),
			ExpirationDate: member.ExpirationDate(),
			Status:         member.Status(now),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// saveEvents writes domain events to the outbox within the current transaction.
func saveEvents(ctx context.Context, repo outbox.Repository, events []sharedDomain.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]*outbox.Message, 0, len(events))
	for _, event := range events {
		msg, err := outbox.NewMessage(event)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	return repo.SaveBatch(ctx, msgs)
}
