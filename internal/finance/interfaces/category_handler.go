package interfaces

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sebuszqo/ExpenseTracker/internal/auth"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	"github.com/sebuszqo/ExpenseTracker/internal/log"
)

type CategoryServiceInterface interface {
	ListCategories(ctx context.Context, userID string, categoryType domain.TransactionType) ([]domain.CategoryView, error)
	CreateCategory(ctx context.Context, userID, name string, categoryType domain.TransactionType) (*domain.CategoryView, error)
	DeleteCategory(ctx context.Context, userID string, categoryID int64) error
}

type CategoryHandler struct {
	service      CategoryServiceInterface
	logger       *log.Logger
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewCategoryHandler(
	service CategoryServiceInterface,
	logger *log.Logger,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *CategoryHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &CategoryHandler{
		service:      service,
		logger:       logger,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

type createCategoryRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	var categoryType domain.TransactionType
	if raw := r.URL.Query().Get("type"); raw != "" {
		categoryType, ok = domain.ParseTransactionType(raw)
		if !ok {
			h.respondError(w, http.StatusBadRequest, "Invalid category type")
			return
		}
	}

	categories, err := h.service.ListCategories(r.Context(), principal.UserID, categoryType)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list categories", "user_id", principal.UserID, "error", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Categories retrieved successfully.",
		"data":    categories,
	})
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	categoryType, _ := domain.ParseTransactionType(req.Type)
	category, err := h.service.CreateCategory(r.Context(), principal.UserID, req.Name, categoryType)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to create category")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Category successfully created.",
		"data":    category,
	})
}

func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	categoryID, ok := pathID(r)
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	if err := h.service.DeleteCategory(r.Context(), principal.UserID, categoryID); err != nil {
		h.respondServiceError(w, r, err, "Failed to delete category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CategoryHandler) principal(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	return requirePrincipal(w, r, h.respondError)
}

func (h *CategoryHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	respondServiceError(w, r, h.logger, h.respondError, err, fallback)
}
