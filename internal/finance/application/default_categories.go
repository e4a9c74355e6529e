package application

import (
	"context"
	"fmt"

	database "github.com/sebuszqo/ExpenseTracker/db"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
)

type DefaultCategory struct {
	Name string
	Type domain.TransactionType
}

var defaultCategories = [...]DefaultCategory{
	{Name: "Salary", Type: domain.TypeIncome},
	{Name: "Freelance", Type: domain.TypeIncome},
	{Name: "Business", Type: domain.TypeIncome},
	{Name: "Investment", Type: domain.TypeIncome},
	{Name: "Rental Income", Type: domain.TypeIncome},
	{Name: "Bonus", Type: domain.TypeIncome},
	{Name: "Gift Received", Type: domain.TypeIncome},
	{Name: "Other Income", Type: domain.TypeIncome},

	{Name: "Food & Dining", Type: domain.TypeExpense},
	{Name: "Groceries", Type: domain.TypeExpense},
	{Name: "Transportation", Type: domain.TypeExpense},
	{Name: "Fuel", Type: domain.TypeExpense},
	{Name: "Shopping", Type: domain.TypeExpense},
	{Name: "Clothing", Type: domain.TypeExpense},
	{Name: "Entertainment", Type: domain.TypeExpense},
	{Name: "Movies & Shows", Type: domain.TypeExpense},
	{Name: "Bills & Utilities", Type: domain.TypeExpense},
	{Name: "Rent", Type: domain.TypeExpense},
	{Name: "Internet & Phone", Type: domain.TypeExpense},
	{Name: "Healthcare", Type: domain.TypeExpense},
	{Name: "Pharmacy", Type: domain.TypeExpense},
	{Name: "Education", Type: domain.TypeExpense},
	{Name: "Books & Courses", Type: domain.TypeExpense},
	{Name: "Travel", Type: domain.TypeExpense},
	{Name: "Hotel & Accommodation", Type: domain.TypeExpense},
	{Name: "Insurance", Type: domain.TypeExpense},
	{Name: "Gym & Fitness", Type: domain.TypeExpense},
	{Name: "Personal Care", Type: domain.TypeExpense},
	{Name: "Gifts & Donations", Type: domain.TypeExpense},
	{Name: "Bank Fees", Type: domain.TypeExpense},
	{Name: "Other", Type: domain.TypeExpense},
}

// DefaultCategories returns a copy of the catalog seeded for every new user.
func DefaultCategories() []DefaultCategory {
	out := make([]DefaultCategory, len(defaultCategories))
	copy(out, defaultCategories[:])
	return out
}

// Onboarding seeds the default catalog for freshly registered users.
type Onboarding struct {
	repo domain.CategoryRepository
}

func NewOnboarding(repo domain.CategoryRepository) *Onboarding {
	return &Onboarding{repo: repo}
}

// SeedDefaultCategories writes the whole catalog through tx, so it commits or
// rolls back together with the user row.
func (o *Onboarding) SeedDefaultCategories(ctx context.Context, tx database.Tx, userID string) error {
	categories := make([]domain.Category, 0, len(defaultCategories))
	for _, dc := range defaultCategories {
		categories = append(categories, domain.Category{UserID: userID, Name: dc.Name, Type: dc.Type})
	}
	if err := o.repo.SaveAllWithTransaction(ctx, tx, categories); err != nil {
		return fmt.Errorf("seed default categories: %w", err)
	}
	return nil
}
