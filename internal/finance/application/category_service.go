package application

import (
	"context"

	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
)

// CategoryUsageChecker reports whether a category is still referenced.
type CategoryUsageChecker interface {
	ExistsByCategory(ctx context.Context, categoryID int64, userID string) (bool, error)
}

type CategoryService struct {
	repo  domain.CategoryRepository
	usage CategoryUsageChecker
}

func NewCategoryService(repo domain.CategoryRepository, usage CategoryUsageChecker) *CategoryService {
	return &CategoryService{repo: repo, usage: usage}
}

func (s *CategoryService) ListCategories(ctx context.Context, userID string, categoryType domain.TransactionType) ([]domain.CategoryView, error) {
	categories, err := s.repo.FindByUser(ctx, userID, categoryType)
	if err != nil {
		return nil, err
	}
	views := make([]domain.CategoryView, 0, len(categories))
	for _, c := range categories {
		views = append(views, c.View())
	}
	return views, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, userID, name string, categoryType domain.TransactionType) (*domain.CategoryView, error) {
	category := &domain.Category{UserID: userID, Name: name, Type: categoryType}
	if err := category.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, category); err != nil {
		return nil, err
	}
	view := category.View()
	return &view, nil
}

// DeleteCategory refuses to remove a category that transactions still point to.
func (s *CategoryService) DeleteCategory(ctx context.Context, userID string, categoryID int64) error {
	if _, err := s.repo.FindByIDAndUser(ctx, categoryID, userID); err != nil {
		return err
	}

	inUse, err := s.usage.ExistsByCategory(ctx, categoryID, userID)
	if err != nil {
		return err
	}
	if inUse {
		return financeErrors.ErrCategoryInUse
	}

	affected, err := s.repo.Delete(ctx, categoryID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return financeErrors.ErrCategoryNotFound
	}
	return nil
}

// CategoryNames maps the user's category ids to their current names.
func (s *CategoryService) CategoryNames(ctx context.Context, userID string) (map[int64]string, error) {
	categories, err := s.repo.FindByUser(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}

// GetUserCategory returns the category only when userID owns it.
func (s *CategoryService) GetUserCategory(ctx context.Context, categoryID int64, userID string) (*domain.Category, error) {
	return s.repo.FindByIDAndUser(ctx, categoryID, userID)
}
