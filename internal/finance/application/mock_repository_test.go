package application

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"

	database "github.com/sebuszqo/ExpenseTracker/db"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
)

var errBoom = errors.New("boom")

type mockCategoryRepository struct {
	mu         sync.Mutex
	nextID     int64
	categories []domain.Category
	seeded     []domain.Category
	findErr    error
	seedErr    error
	listCalls  int
}

func (m *mockCategoryRepository) add(userID, name string, t domain.TransactionType) domain.Category {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	c := domain.Category{ID: m.nextID, UserID: userID, Name: name, Type: t}
	m.categories = append(m.categories, c)
	return c
}

func (m *mockCategoryRepository) FindByUser(_ context.Context, userID string, categoryType domain.TransactionType) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []domain.Category
	for _, c := range m.categories {
		if c.UserID == userID && (categoryType == "" || c.Type == categoryType) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCategoryRepository) FindByIDAndUser(_ context.Context, categoryID int64, userID string) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.ID == categoryID && c.UserID == userID {
			found := c
			return &found, nil
		}
	}
	return nil, financeErrors.ErrCategoryNotFound
}

func (m *mockCategoryRepository) Save(_ context.Context, category *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	category.ID = m.nextID
	m.categories = append(m.categories, *category)
	return nil
}

func (m *mockCategoryRepository) SaveAllWithTransaction(_ context.Context, _ database.Tx, categories []domain.Category) error {
	if m.seedErr != nil {
		return m.seedErr
	}
	m.seeded = append(m.seeded, categories...)
	return nil
}

func (m *mockCategoryRepository) Delete(_ context.Context, categoryID int64, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.categories {
		if c.ID == categoryID && c.UserID == userID {
			m.categories = append(m.categories[:i], m.categories[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

type mockTransactionRepository struct {
	mu           sync.Mutex
	nextID       int64
	transactions []domain.Transaction
}

func inRange(t domain.Transaction, filter domain.TransactionFilter) bool {
	if filter.StartDate != nil && t.Date.Before(*filter.StartDate) {
		return false
	}
	if filter.EndDate != nil && t.Date.After(*filter.EndDate) {
		return false
	}
	return true
}

func (m *mockTransactionRepository) FindByUser(_ context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Transaction
	for _, t := range m.transactions {
		if t.UserID == userID && inRange(t, filter) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID > out[j].ID
		}
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (m *mockTransactionRepository) FindByIDAndUser(_ context.Context, transactionID int64, userID string) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.transactions {
		if t.ID == transactionID && t.UserID == userID {
			found := t
			return &found, nil
		}
	}
	return nil, financeErrors.ErrTransactionNotFound
}

func (m *mockTransactionRepository) Save(_ context.Context, transaction *domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	transaction.ID = m.nextID
	m.transactions = append(m.transactions, *transaction)
	return nil
}

func (m *mockTransactionRepository) Update(_ context.Context, transaction *domain.Transaction) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.transactions {
		if t.ID == transaction.ID && t.UserID == transaction.UserID {
			m.transactions[i] = *transaction
			return 1, nil
		}
	}
	return 0, nil
}

func (m *mockTransactionRepository) Delete(_ context.Context, transactionID int64, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.transactions {
		if t.ID == transactionID && t.UserID == userID {
			m.transactions = append(m.transactions[:i], m.transactions[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *mockTransactionRepository) SumByType(_ context.Context, userID string, transactionType domain.TransactionType, filter domain.TransactionFilter) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := decimal.Zero
	for _, t := range m.transactions {
		if t.UserID == userID && t.Type == transactionType && inRange(t, filter) {
			total = total.Add(t.Amount)
		}
	}
	return total, nil
}

func (m *mockTransactionRepository) ExistsByCategory(_ context.Context, categoryID int64, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.transactions {
		if t.CategoryID == categoryID && t.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

// flakyCategoryNames fails name lookups but answers single category lookups.
type flakyCategoryNames struct {
	*CategoryService
}

func (f flakyCategoryNames) CategoryNames(context.Context, string) (map[int64]string, error) {
	return nil, errBoom
}

type mockTx struct {
	committed  bool
	rolledBack bool
}

func (m *mockTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (m *mockTx) Commit() error {
	m.committed = true
	return nil
}

func (m *mockTx) Rollback() error {
	m.rolledBack = true
	return nil
}
