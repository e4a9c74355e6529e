package interfaces

import (
	"net/http"
	"strings"
	"testing"

	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCategoryHandler(service *MockCategoryService) *CategoryHandler {
	return NewCategoryHandler(service, nil, RespondJSON, RespondError)
}

func TestListCategories(t *testing.T) {
	service := &MockCategoryService{categories: []domain.CategoryView{
		{ID: 1, Name: "Salary", Type: domain.TypeIncome},
	}}
	handler := newCategoryHandler(service)

	w := serve("GET /api/categories", handler.ListCategories, http.MethodGet, "/api/categories?type=income", nil, true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.TypeIncome, service.gotType)
	assert.Contains(t, w.Body.String(), `"data":[{"id":1,"name":"Salary","type":"INCOME"}]`)
}

func TestListCategories_NoFilter(t *testing.T) {
	service := &MockCategoryService{categories: []domain.CategoryView{}}
	handler := newCategoryHandler(service)

	w := serve("GET /api/categories", handler.ListCategories, http.MethodGet, "/api/categories", nil, true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.TransactionType(""), service.gotType)
}

func TestListCategories_InvalidType(t *testing.T) {
	handler := newCategoryHandler(&MockCategoryService{})

	w := serve("GET /api/categories", handler.ListCategories, http.MethodGet, "/api/categories?type=savings", nil, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid category type", decodeBody(t, w.Body.String())["message"])
}

func TestCreateCategory(t *testing.T) {
	service := &MockCategoryService{}
	handler := newCategoryHandler(service)

	w := serve("POST /api/categories", handler.CreateCategory, http.MethodPost, "/api/categories", strings.NewReader(`{"name": "Side Hustle", "type": "income"}`), true)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Side Hustle", service.gotName)
	assert.Equal(t, domain.TypeIncome, service.gotType)
}

func TestCreateCategory_Validation(t *testing.T) {
	handler := newCategoryHandler(&MockCategoryService{err: financeErrors.NewValidationError("Category name is required")})

	w := serve("POST /api/categories", handler.CreateCategory, http.MethodPost, "/api/categories", strings.NewReader(`{"name": "", "type": "INCOME"}`), true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Category name is required", decodeBody(t, w.Body.String())["message"])
}

func TestDeleteCategory(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		status int
	}{
		{name: "deleted", target: "/api/categories/5", status: http.StatusNoContent},
		{name: "not found", target: "/api/categories/5", err: financeErrors.ErrCategoryNotFound, status: http.StatusNotFound},
		{name: "in use", target: "/api/categories/5", err: financeErrors.ErrCategoryInUse, status: http.StatusConflict},
		{name: "bad id", target: "/api/categories/0", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newCategoryHandler(&MockCategoryService{err: tt.err})

			w := serve("DELETE /api/categories/{id}", handler.DeleteCategory, http.MethodDelete, tt.target, nil, true)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestCategoryHandler_Unauthenticated(t *testing.T) {
	handler := newCategoryHandler(&MockCategoryService{})

	w := serve("GET /api/categories", handler.ListCategories, http.MethodGet, "/api/categories", nil, false)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
