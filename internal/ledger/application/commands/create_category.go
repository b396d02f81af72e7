// Package commands contains the write-side handlers for the ledger.
package commands

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/gymgate/gymgate/internal/ledger/domain"
)

// CreateCategoryCommand creates a ledger category.
type CreateCategoryCommand struct {
	Name        string
	Description string
}

// CreateCategoryResult contains the result of creating a category.
type CreateCategoryResult struct {
	CategoryID uuid.UUID
}

// CreateCategoryHandler handles the CreateCategoryCommand.
type CreateCategoryHandler struct {
	categoryRepo domain.CategoryRepository
}

// NewCreateCategoryHandler creates a new CreateCategoryHandler.
func NewCreateCategoryHandler(categoryRepo domain.CategoryRepository) *CreateCategoryHandler {
	return &CreateCategoryHandler{categoryRepo: categoryRepo}
}

// Handle executes the CreateCategoryCommand.
func (h *CreateCategoryHandler) Handle(ctx context.Context, cmd CreateCategoryCommand) (*CreateCategoryResult, error) {
	existing, err := h.categoryRepo.FindByName(ctx, cmd.Name)
	if err != nil && !errors.Is(err, domain.ErrCategoryNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateCategoryName
	}

	category, err := domain.NewCategory(cmd.Name, cmd.Description)
	if err != nil {
		return nil, err
	}

	if err := h.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	return &CreateCategoryResult{CategoryID: category.ID()}, nil
}
