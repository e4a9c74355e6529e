package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransactionHandler(service *MockTransactionService) *PersonalTransactionHandler {
	return NewPersonalTransactionHandler(service, nil, RespondJSON, RespondError)
}

func decodeBody(t *testing.T, body string) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &response))
	return response
}

func TestCreateTransaction_Success(t *testing.T) {
	service := &MockTransactionService{}
	handler := newTransactionHandler(service)

	body := `{"categoryId": 3, "amount": 12.5, "description": "lunch", "date": "2024-03-15", "type": "expense"}`
	w := serve("POST /api/transactions", handler.CreateTransaction, http.MethodPost, "/api/transactions", strings.NewReader(body), true)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, testUserID, service.gotUserID)
	assert.Equal(t, int64(3), service.gotInput.CategoryID)
	assert.True(t, service.gotInput.Amount.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, domain.TypeExpense, service.gotInput.Type)
	assert.Equal(t, "2024-03-15", service.gotInput.Date.Format(domain.DateLayout))

	response := decodeBody(t, w.Body.String())
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "success", response["status"])
	assert.Equal(t, 12.5, data["amount"])
	assert.Contains(t, w.Body.String(), `"amount":12.50`)
	assert.Equal(t, "2024-03-15", data["date"])
}

func TestCreateTransaction_AmountAsString(t *testing.T) {
	service := &MockTransactionService{}
	handler := newTransactionHandler(service)

	body := `{"categoryId": 3, "amount": "0.10", "date": "2024-03-15", "type": "INCOME"}`
	w := serve("POST /api/transactions", handler.CreateTransaction, http.MethodPost, "/api/transactions", strings.NewReader(body), true)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, service.gotInput.Amount.Equal(decimal.RequireFromString("0.1")))
}

func TestCreateTransaction_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "not json", body: "invalid body", message: "Invalid request body"},
		{name: "missing date", body: `{"categoryId": 1, "amount": 1, "type": "INCOME"}`, message: "Date is required"},
		{name: "bad date", body: `{"categoryId": 1, "amount": 1, "date": "15/03/2024", "type": "INCOME"}`, message: "Invalid date format, expected YYYY-MM-DD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTransactionHandler(&MockTransactionService{})
			w := serve("POST /api/transactions", handler.CreateTransaction, http.MethodPost, "/api/transactions", strings.NewReader(tt.body), true)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			response := decodeBody(t, w.Body.String())
			assert.Equal(t, "error", response["status"])
			assert.Equal(t, tt.message, response["message"])
			assert.Equal(t, float64(http.StatusBadRequest), response["code"])
		})
	}
}

func TestCreateTransaction_ValidationErrors(t *testing.T) {
	validationErrors := &financeErrors.ValidationErrors{}
	validationErrors.Add(financeErrors.NewValidationError("Amount must be greater than 0"))
	validationErrors.Add(financeErrors.NewValidationError("Category ID is required"))
	handler := newTransactionHandler(&MockTransactionService{err: validationErrors})

	body := `{"amount": 0, "date": "2024-03-15", "type": "INCOME"}`
	w := serve("POST /api/transactions", handler.CreateTransaction, http.MethodPost, "/api/transactions", strings.NewReader(body), true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var response struct {
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, []string{"Amount must be greater than 0", "Category ID is required"}, response.Errors)
}

func TestCreateTransaction_Unauthenticated(t *testing.T) {
	service := &MockTransactionService{}
	handler := newTransactionHandler(service)

	w := serve("POST /api/transactions", handler.CreateTransaction, http.MethodPost, "/api/transactions", strings.NewReader(`{}`), false)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, service.gotUserID)
}

func TestGetUserTransactions_DateFilter(t *testing.T) {
	service := &MockTransactionService{transactions: []domain.TransactionView{}}
	handler := newTransactionHandler(service)

	w := serve("GET /api/transactions", handler.GetUserTransactions, http.MethodGet, "/api/transactions?start_date=2024-01-01&end_date=2024-01-31", nil, true)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, service.gotFilter.StartDate)
	require.NotNil(t, service.gotFilter.EndDate)
	assert.Equal(t, "2024-01-01", service.gotFilter.StartDate.Format(domain.DateLayout))
	assert.Equal(t, "2024-01-31", service.gotFilter.EndDate.Format(domain.DateLayout))
	assert.Contains(t, w.Body.String(), `"data":[]`)
}

func TestGetUserTransactions_InvalidRange(t *testing.T) {
	handler := newTransactionHandler(&MockTransactionService{})

	w := serve("GET /api/transactions", handler.GetUserTransactions, http.MethodGet, "/api/transactions?start_date=2024-02-01&end_date=2024-01-01", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve("GET /api/transactions", handler.GetUserTransactions, http.MethodGet, "/api/transactions?start_date=yesterday", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateTransaction(t *testing.T) {
	service := &MockTransactionService{}
	handler := newTransactionHandler(service)

	body := `{"categoryId": 4, "amount": 99.99, "description": "", "date": "2024-05-05", "type": "INCOME"}`
	w := serve("PUT /api/transactions/{id}", handler.UpdateTransaction, http.MethodPut, "/api/transactions/42", strings.NewReader(body), true)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(42), service.gotID)
	assert.Equal(t, int64(4), service.gotInput.CategoryID)
}

func TestUpdateTransaction_NotFound(t *testing.T) {
	handler := newTransactionHandler(&MockTransactionService{err: financeErrors.ErrTransactionNotFound})

	body := `{"categoryId": 4, "amount": 1, "date": "2024-05-05", "type": "INCOME"}`
	w := serve("PUT /api/transactions/{id}", handler.UpdateTransaction, http.MethodPut, "/api/transactions/42", strings.NewReader(body), true)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Transaction not found", decodeBody(t, w.Body.String())["message"])
}

func TestUpdateTransaction_InvalidID(t *testing.T) {
	service := &MockTransactionService{}
	handler := newTransactionHandler(service)

	w := serve("PUT /api/transactions/{id}", handler.UpdateTransaction, http.MethodPut, "/api/transactions/abc", strings.NewReader(`{}`), true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, service.gotID)
}

func TestDeleteTransaction(t *testing.T) {
	service := &MockTransactionService{}
	handler := newTransactionHandler(service)

	w := serve("DELETE /api/transactions/{id}", handler.DeleteTransaction, http.MethodDelete, "/api/transactions/9", nil, true)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, int64(9), service.gotID)
	assert.Empty(t, w.Body.String())
}

func TestDeleteTransaction_UnexpectedError(t *testing.T) {
	handler := newTransactionHandler(&MockTransactionService{err: errors.New("connection refused")})

	w := serve("DELETE /api/transactions/{id}", handler.DeleteTransaction, http.MethodDelete, "/api/transactions/9", nil, true)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestGetFinancialSummary(t *testing.T) {
	service := &MockTransactionService{summary: &domain.FinancialSummary{
		TotalIncome:  domain.NewMoney(decimal.RequireFromString("35.35")),
		TotalExpense: domain.NewMoney(decimal.RequireFromString("7.35")),
		Balance:      domain.NewMoney(decimal.RequireFromString("28")),
	}}
	handler := newTransactionHandler(service)

	w := serve("GET /api/transactions/summary", handler.GetFinancialSummary, http.MethodGet, "/api/transactions/summary", nil, true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":{"totalIncome":35.35,"totalExpense":7.35,"balance":28.00}`)
	assert.Nil(t, service.gotFilter.StartDate)
	assert.Nil(t, service.gotFilter.EndDate)
}
