package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gymgate/gymgate/internal/access/domain"
	"github.com/gymgate/gymgate/internal/shared/infrastructure/database"
	"github.com/gymgate/gymgate/internal/shared/infrastructure/persistence"
)

// PostgresMemberDirectory projects the members table into gate snapshots.
type PostgresMemberDirectory struct {
	pool *pgxpool.Pool
}

// NewPostgresMemberDirectory creates a new PostgresMemberDirectory.
func NewPostgresMemberDirectory(pool *pgxpool.Pool) *PostgresMemberDirectory {
	return &PostgresMemberDirectory{pool: pool}
}

// Lookup returns the access snapshot for a member, or (nil, nil) when the
// member does not exist.
func (d *PostgresMemberDirectory) Lookup(ctx context.Context, memberID uuid.UUID) (*domain.MemberAccess, error) {
	query := `
		SELECT m.id, m.name, m.expiration_date, p.name
		FROM members m
		JOIN plans p ON p.id = m.plan_id
		WHERE m.id = $1`

	exec := persistence.Executor(ctx, d.pool)

	var (
		id             uuid.UUID
		name           string
		expirationDate time.Time
		planName       string
	)
	err := exec.QueryRow(ctx, query, memberID).Scan(&id, &name, &expirationDate, &planName)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up member: %w", err)
	}

	return &domain.MemberAccess{
		ID:             id,
		Name:           name,
		ExpirationDate: expirationDate,
		PlanName:       planName,
	}, nil
}
