package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gymgate/gymgate/internal/shared/domain"
)

var ErrEmptyCategoryName = errors.New("category name cannot be empty")

// MembershipCategoryName is the category registration and renewal income is
// booked under.
// It is created on first use.
const MembershipCategoryName = "Membership"

// Category groups ledger transactions by purpose.
type Category struct {
	domain.BaseAggregateRoot
	name        string
	description string
}

// NewCategory creates a category.
func NewCategory(name, description string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyCategoryName
	}

	return &Category{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(),
		name:              name,
		description:       strings.TrimSpace(description),
	}, nil
}

// RehydrateCategory recreates a category from persisted state.
func RehydrateCategory(id uuid.UUID, name, description string, createdAt, updatedAt time.Time) *Category {
	return &Category{
		BaseAggregateRoot: domain.RehydrateBaseAggregateRoot(domain.RehydrateBaseEntity(id, createdAt, updatedAt)),
		name:              name,
		description:       description,
	}
}

func (c *Category) Name() string        { return c.name }
func (c *Category) Description() string { return c.description }

// Update replaces the category fields.
func (c *Category) Update(name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyCategoryName
	}

	c.name = name
	c.description = strings.TrimSpace(description)
	c.Touch()

	return nil
}
