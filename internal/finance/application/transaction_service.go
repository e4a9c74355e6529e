package application

import (
	"context"
	"time"

	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/sebuszqo/ExpenseTracker/internal/log"
	"github.com/shopspring/decimal"
)

type CategoryServiceInterface interface {
	GetUserCategory(ctx context.Context, categoryID int64, userID string) (*domain.Category, error)
	CategoryNames(ctx context.Context, userID string) (map[int64]string, error)
}

// TransactionInput carries every mutable transaction field. Updates replace
// all of them.
type TransactionInput struct {
	CategoryID  int64
	Amount      decimal.Decimal
	Description string
	Date        time.Time
	Type        domain.TransactionType
}

type PersonalTransactionService struct {
	repo            domain.TransactionRepository
	categoryService CategoryServiceInterface
	logger          *log.Logger
}

func NewPersonalTransactionService(repo domain.TransactionRepository, categoryService CategoryServiceInterface, logger *log.Logger) *PersonalTransactionService {
	if logger == nil {
		logger = log.Nop()
	}
	return &PersonalTransactionService{repo: repo, categoryService: categoryService, logger: logger}
}

func (s *PersonalTransactionService) GetUserTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.TransactionView, error) {
	transactions, err := s.repo.FindByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	// names are decoration only, a failed lookup must not fail the listing
	names, err := s.categoryService.CategoryNames(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "category names unavailable for transaction listing", "user_id", userID, "error", err)
		names = nil
	}

	views := make([]domain.TransactionView, 0, len(transactions))
	for _, t := range transactions {
		views = append(views, t.View(names[t.CategoryID]))
	}
	return views, nil
}

func (s *PersonalTransactionService) CreateTransaction(ctx context.Context, userID string, input TransactionInput) (*domain.TransactionView, error) {
	transaction := newTransaction(userID, input)
	if err := transaction.Validate(); err != nil {
		return nil, err
	}
	category, err := s.categoryService.GetUserCategory(ctx, transaction.CategoryID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, transaction); err != nil {
		return nil, err
	}
	view := transaction.View(category.Name)
	return &view, nil
}

func (s *PersonalTransactionService) UpdateTransaction(ctx context.Context, userID string, transactionID int64, input TransactionInput) (*domain.TransactionView, error) {
	if _, err := s.repo.FindByIDAndUser(ctx, transactionID, userID); err != nil {
		return nil, err
	}

	transaction := newTransaction(userID, input)
	transaction.ID = transactionID
	if err := transaction.Validate(); err != nil {
		return nil, err
	}
	category, err := s.categoryService.GetUserCategory(ctx, transaction.CategoryID, userID)
	if err != nil {
		return nil, err
	}

	affected, err := s.repo.Update(ctx, transaction)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, financeErrors.ErrTransactionNotFound
	}
	view := transaction.View(category.Name)
	return &view, nil
}

func (s *PersonalTransactionService) DeleteTransaction(ctx context.Context, userID string, transactionID int64) error {
	affected, err := s.repo.Delete(ctx, transactionID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return financeErrors.ErrTransactionNotFound
	}
	return nil
}

func (s *PersonalTransactionService) GetFinancialSummary(ctx context.Context, userID string, filter domain.TransactionFilter) (*domain.FinancialSummary, error) {
	totalIncome, err := s.repo.SumByType(ctx, userID, domain.TypeIncome, filter)
	if err != nil {
		return nil, err
	}
	totalExpense, err := s.repo.SumByType(ctx, userID, domain.TypeExpense, filter)
	if err != nil {
		return nil, err
	}

	return &domain.FinancialSummary{
		TotalIncome:  domain.NewMoney(totalIncome),
		TotalExpense: domain.NewMoney(totalExpense),
		Balance:      domain.NewMoney(totalIncome.Sub(totalExpense)),
	}, nil
}

func newTransaction(userID string, input TransactionInput) *domain.Transaction {
	return &domain.Transaction{
		UserID:      userID,
		CategoryID:  input.CategoryID,
		Amount:      input.Amount,
		Description: input.Description,
		Date:        truncateToDate(input.Date),
		Type:        input.Type,
	}
}

func truncateToDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
