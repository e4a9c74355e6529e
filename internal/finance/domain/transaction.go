package domain

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
)

const (
	DateLayout           = "2006-01-02"
	maxDescriptionLength = 255
)

// Amounts are rescaled when compared, so exponents outside this window are
// rejected before any arithmetic.
const (
	minAmountExponent = -20
	maxAmountExponent = 12
)

var (
	minAmount = decimal.New(1, -2) // 0.01
	maxAmount = decimal.New(1, 10) // NUMERIC(12,2) upper bound
)

type Transaction struct {
	ID          int64
	UserID      string // user UUID
	CategoryID  int64
	Amount      decimal.Decimal
	Description string
	Date        time.Time
	Type        TransactionType
}

// TransactionFilter narrows listings and sums to an inclusive date range.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
}

type TransactionView struct {
	ID           int64           `json:"id"`
	CategoryID   int64           `json:"categoryId"`
	CategoryName string          `json:"categoryName,omitempty"`
	Amount       Money           `json:"amount"`
	Description  string          `json:"description"`
	Date         string          `json:"date"`
	Type         TransactionType `json:"type"`
}

type FinancialSummary struct {
	TotalIncome  Money `json:"totalIncome"`
	TotalExpense Money `json:"totalExpense"`
	Balance      Money `json:"balance"`
}

// Money is a decimal amount written to JSON as a number with two decimals.
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.StringFixed(2)), nil
}

func (t *Transaction) Validate() error {
	var validationErrors = &errors.ValidationErrors{}
	if t.Amount.Sign() <= 0 {
		validationErrors.Add(errors.NewValidationError("Amount must be greater than 0"))
	} else if t.Amount.Exponent() < minAmountExponent {
		validationErrors.Add(errors.NewValidationError("Amount must have at most two decimal places"))
	} else if t.Amount.Exponent() > maxAmountExponent {
		validationErrors.Add(errors.NewValidationError("Amount is too large"))
	} else if t.Amount.LessThan(minAmount) {
		validationErrors.Add(errors.NewValidationError("Amount must be greater than 0"))
	} else if !t.Amount.Equal(t.Amount.Truncate(2)) {
		validationErrors.Add(errors.NewValidationError("Amount must have at most two decimal places"))
	} else if !t.Amount.LessThan(maxAmount) {
		validationErrors.Add(errors.NewValidationError("Amount is too large"))
	}
	if utf8.RuneCountInString(t.Description) > maxDescriptionLength {
		validationErrors.Add(errors.NewValidationError("Description must be at most 255 characters"))
	}
	if t.Date.IsZero() {
		validationErrors.Add(errors.NewValidationError("Date is required"))
	}
	if !t.Type.IsValid() {
		validationErrors.Add(errors.NewValidationError("Type must be 'INCOME' or 'EXPENSE'"))
	}
	if t.CategoryID <= 0 {
		validationErrors.Add(errors.NewValidationError("Category ID is required"))
	}
	return validationErrors.ErrOrNil()
}

// View builds the public representation; categoryName may be empty.
func (t Transaction) View(categoryName string) TransactionView {
	return TransactionView{
		ID:           t.ID,
		CategoryID:   t.CategoryID,
		CategoryName: categoryName,
		Amount:       NewMoney(t.Amount),
		Description:  t.Description,
		Date:         t.Date.Format(DateLayout),
		Type:         t.Type,
	}
}

type TransactionRepository interface {
	// FindByUser returns the user's transactions, most recent date first.
	FindByUser(ctx context.Context, userID string, filter TransactionFilter) ([]Transaction, error)
	FindByIDAndUser(ctx context.Context, transactionID int64, userID string) (*Transaction, error)
	Save(ctx context.Context, transaction *Transaction) error
	Update(ctx context.Context, transaction *Transaction) (int64, error)
	Delete(ctx context.Context, transactionID int64, userID string) (int64, error)
	SumByType(ctx context.Context, userID string, transactionType TransactionType, filter TransactionFilter) (decimal.Decimal, error)
	ExistsByCategory(ctx context.Context, categoryID int64, userID string) (bool, error)
}
