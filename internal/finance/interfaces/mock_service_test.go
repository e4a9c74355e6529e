package interfaces

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/sebuszqo/ExpenseTracker/internal/auth"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/application"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
)

const testUserID = "0b7d1f8e-4a52-4a36-9f54-3f4c1b1e2a01"

type MockTransactionService struct {
	transactions []domain.TransactionView
	summary      *domain.FinancialSummary
	err          error

	gotUserID string
	gotID     int64
	gotInput  application.TransactionInput
	gotFilter domain.TransactionFilter
}

func (m *MockTransactionService) GetUserTransactions(_ context.Context, userID string, filter domain.TransactionFilter) ([]domain.TransactionView, error) {
	m.gotUserID, m.gotFilter = userID, filter
	return m.transactions, m.err
}

func (m *MockTransactionService) CreateTransaction(_ context.Context, userID string, input application.TransactionInput) (*domain.TransactionView, error) {
	m.gotUserID, m.gotInput = userID, input
	if m.err != nil {
		return nil, m.err
	}
	return &domain.TransactionView{
		ID:          1,
		CategoryID:  input.CategoryID,
		Amount:      domain.NewMoney(input.Amount),
		Description: input.Description,
		Date:        input.Date.Format(domain.DateLayout),
		Type:        input.Type,
	}, nil
}

func (m *MockTransactionService) UpdateTransaction(_ context.Context, userID string, transactionID int64, input application.TransactionInput) (*domain.TransactionView, error) {
	m.gotUserID, m.gotID, m.gotInput = userID, transactionID, input
	if m.err != nil {
		return nil, m.err
	}
	return &domain.TransactionView{ID: transactionID, CategoryID: input.CategoryID, Amount: domain.NewMoney(input.Amount)}, nil
}

func (m *MockTransactionService) DeleteTransaction(_ context.Context, userID string, transactionID int64) error {
	m.gotUserID, m.gotID = userID, transactionID
	return m.err
}

func (m *MockTransactionService) GetFinancialSummary(_ context.Context, userID string, filter domain.TransactionFilter) (*domain.FinancialSummary, error) {
	m.gotUserID, m.gotFilter = userID, filter
	return m.summary, m.err
}

type MockCategoryService struct {
	categories []domain.CategoryView
	err        error

	gotType domain.TransactionType
	gotName string
	gotID   int64
}

func (m *MockCategoryService) ListCategories(_ context.Context, _ string, categoryType domain.TransactionType) ([]domain.CategoryView, error) {
	m.gotType = categoryType
	return m.categories, m.err
}

func (m *MockCategoryService) CreateCategory(_ context.Context, _ string, name string, categoryType domain.TransactionType) (*domain.CategoryView, error) {
	m.gotName, m.gotType = name, categoryType
	if m.err != nil {
		return nil, m.err
	}
	return &domain.CategoryView{ID: 7, Name: name, Type: categoryType}, nil
}

func (m *MockCategoryService) DeleteCategory(_ context.Context, _ string, categoryID int64) error {
	m.gotID = categoryID
	return m.err
}

// serve routes the request through a mux so path values are populated.
func serve(pattern string, handler http.HandlerFunc, method, target string, body io.Reader, authenticated bool) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, handler)

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	if authenticated {
		req = req.WithContext(auth.WithPrincipal(req.Context(), auth.Principal{UserID: testUserID, Username: "alice"}))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}
