package services

import (
	"context"
	"fmt"
	"strings"

	"noskip/internal/core"
	"noskip/internal/storage"
)

// CategoryService lists built-in categories alongside a user's custom ones.
type CategoryService struct {
	repo *storage.SQLiteRepository
}

func NewCategoryService(repo *storage.SQLiteRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// List returns the built-in categories followed by the user's custom ones.
func (s *CategoryService) List(ctx context.Context, userID string) ([]core.Category, error) {
	customs, err := s.repo.ListCustomCategories(ctx, userID)
	if err != nil {
		return nil, err
	}
	builtins := core.BuiltinCategories()
	out := make([]core.Category, 0, len(builtins)+len(customs))
	for _, b := range builtins {
		out = append(out, core.Category{Builtin: b})
	}
	for i := range customs {
		out = append(out, core.Category{Custom: &customs[i]})
	}
	return out, nil
}

// Create adds a custom category. Names of built-in categories are taken.
func (s *CategoryService) Create(ctx context.Context, userID string, c core.CustomCategory) (core.CustomCategory, error) {
	c.UserID = userID
	c.Name = strings.TrimSpace(c.Name)
	c.Color = strings.TrimSpace(c.Color)
	if err := c.Validate(); err != nil {
		return core.CustomCategory{}, fmt.Errorf("validate category: %w", err)
	}
	if core.ExpenseCategory(c.Name).IsValid() {
		return core.CustomCategory{}, fmt.Errorf("category %q: %w", c.Name, storage.ErrDuplicate)
	}
	return s.repo.CreateCustomCategory(ctx, c)
}

// Delete removes a custom category. Expenses keep the name and from then
// on resolve to Other.
func (s *CategoryService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.DeleteCustomCategory(ctx, userID, id)
}
