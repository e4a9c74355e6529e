package domain

import (
	"context"
	"strings"
	"unicode/utf8"

	database "github.com/sebuszqo/ExpenseTracker/db"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
)

const maxCategoryNameLength = 100

type TransactionType string

const (
	TypeIncome  TransactionType = "INCOME"
	TypeExpense TransactionType = "EXPENSE"
)

func (t TransactionType) IsValid() bool {
	return t == TypeIncome || t == TypeExpense
}

// ParseTransactionType accepts any letter case and returns the canonical form.
func ParseTransactionType(s string) (TransactionType, bool) {
	t := TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.IsValid()
}

type Category struct {
	ID     int64
	UserID string // user UUID
	Name   string
	Type   TransactionType
}

type CategoryView struct {
	ID   int64           `json:"id"`
	Name string          `json:"name"`
	Type TransactionType `json:"type"`
}

func (c *Category) Validate() error {
	var validationErrors = &errors.ValidationErrors{}
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		validationErrors.Add(errors.NewValidationError("Category name is required"))
	} else if utf8.RuneCountInString(c.Name) > maxCategoryNameLength {
		validationErrors.Add(errors.NewValidationError("Category name must be at most 100 characters"))
	}
	if !c.Type.IsValid() {
		validationErrors.Add(errors.NewValidationError("Type must be 'INCOME' or 'EXPENSE'"))
	}
	return validationErrors.ErrOrNil()
}

func (c Category) View() CategoryView {
	return CategoryView{ID: c.ID, Name: c.Name, Type: c.Type}
}

type CategoryRepository interface {
	// FindByUser returns the user's categories; an empty categoryType means all.
	FindByUser(ctx context.Context, userID string, categoryType TransactionType) ([]Category, error)
	FindByIDAndUser(ctx context.Context, categoryID int64, userID string) (*Category, error)
	Save(ctx context.Context, category *Category) error
	SaveAllWithTransaction(ctx context.Context, tx database.Tx, categories []Category) error
	Delete(ctx context.Context, categoryID int64, userID string) (int64, error)
}
