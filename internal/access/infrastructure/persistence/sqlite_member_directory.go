package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gymgate/gymgate/internal/access/domain"
	"github.com/gymgate/gymgate/internal/shared/infrastructure/database"
	"github.com/gymgate/gymgate/internal/shared/infrastructure/persistence"
)

// SQLiteMemberDirectory projects the members table into gate snapshots.
type SQLiteMemberDirectory struct {
	db *sql.DB
}

// NewSQLiteMemberDirectory creates a new SQLiteMemberDirectory.
func NewSQLiteMemberDirectory(db *sql.DB) *SQLiteMemberDirectory {
	return &SQLiteMemberDirectory{db: db}
}

// Lookup returns the access snapshot for a member, or (nil, nil) when the
// member does not exist.
func (d *SQLiteMemberDirectory) Lookup(ctx context.Context, memberID uuid.UUID) (*domain.MemberAccess, error) {
	query := `
		SELECT m.id, m.name, m.expiration_date, p.name
		FROM members m
		JOIN plans p ON p.id = m.plan_id
		WHERE m.id = ?`

	exec := persistence.SQLiteQuerier(ctx, d.db)

	var (
		idStr         string
		name          string
		expirationStr string
		planName      string
	)
	err := exec.QueryRowContext(ctx, query, memberID.String()).Scan(&idStr, &name, &expirationStr, &planName)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up member: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid member id: %w", err)
	}
	expirationDate, err := time.Parse(time.RFC3339Nano, expirationStr)
	if err != nil {
		return nil, fmt.Errorf("invalid expiration date: %w", err)
	}

	return &domain.MemberAccess{
		ID:             id,
		Name:           name,
		ExpirationDate: expirationDate,
		PlanName:       planName,
	}, nil
}
