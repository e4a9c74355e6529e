package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sebuszqo/ExpenseTracker/internal/finance/application"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	"github.com/sebuszqo/ExpenseTracker/internal/log"
	"github.com/shopspring/decimal"
)

type TransactionServiceInterface interface {
	GetUserTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.TransactionView, error)
	CreateTransaction(ctx context.Context, userID string, input application.TransactionInput) (*domain.TransactionView, error)
	UpdateTransaction(ctx context.Context, userID string, transactionID int64, input application.TransactionInput) (*domain.TransactionView, error)
	DeleteTransaction(ctx context.Context, userID string, transactionID int64) error
	GetFinancialSummary(ctx context.Context, userID string, filter domain.TransactionFilter) (*domain.FinancialSummary, error)
}

type PersonalTransactionHandler struct {
	service      TransactionServiceInterface
	logger       *log.Logger
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewPersonalTransactionHandler(
	service TransactionServiceInterface,
	logger *log.Logger,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *PersonalTransactionHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &PersonalTransactionHandler{
		service:      service,
		logger:       logger,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

// transactionRequest is the body of create and update calls. The date is a
// calendar day in YYYY-MM-DD form.
type transactionRequest struct {
	CategoryID  int64           `json:"categoryId"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	Type        string          `json:"type"`
}

func (req transactionRequest) toInput() (application.TransactionInput, string) {
	input := application.TransactionInput{
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Description: req.Description,
		Type:        domain.TransactionType(req.Type),
	}
	if req.Date == "" {
		return input, "Date is required"
	}
	date, err := time.Parse(domain.DateLayout, req.Date)
	if err != nil {
		return input, "Invalid date format, expected YYYY-MM-DD"
	}
	input.Date = date
	if t, ok := domain.ParseTransactionType(req.Type); ok {
		input.Type = t
	}
	return input, ""
}

func (h *PersonalTransactionHandler) GetUserTransactions(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r, h.respondError)
	if !ok {
		return
	}

	filter, problem := parseDateFilter(r)
	if problem != "" {
		h.respondError(w, http.StatusBadRequest, problem)
		return
	}

	transactions, err := h.service.GetUserTransactions(r.Context(), principal.UserID, filter)
	if err != nil {
		respondServiceError(w, r, h.logger, h.respondError, err, "Failed to retrieve transactions")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Transactions retrieved successfully.",
		"data":    transactions,
	})
}

func (h *PersonalTransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r, h.respondError)
	if !ok {
		return
	}

	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	transaction, err := h.service.CreateTransaction(r.Context(), principal.UserID, input)
	if err != nil {
		respondServiceError(w, r, h.logger, h.respondError, err, "Failed to create transaction")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Transaction successfully created.",
		"data":    transaction,
	})
}

func (h *PersonalTransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r, h.respondError)
	if !ok {
		return
	}

	transactionID, ok := pathID(r)
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid transaction ID")
		return
	}

	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	transaction, err := h.service.UpdateTransaction(r.Context(), principal.UserID, transactionID, input)
	if err != nil {
		respondServiceError(w, r, h.logger, h.respondError, err, "Failed to update transaction")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Transaction successfully updated.",
		"data":    transaction,
	})
}

func (h *PersonalTransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r, h.respondError)
	if !ok {
		return
	}

	transactionID, ok := pathID(r)
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid transaction ID")
		return
	}

	if err := h.service.DeleteTransaction(r.Context(), principal.UserID, transactionID); err != nil {
		respondServiceError(w, r, h.logger, h.respondError, err, "Failed to delete transaction")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PersonalTransactionHandler) GetFinancialSummary(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r, h.respondError)
	if !ok {
		return
	}

	filter, problem := parseDateFilter(r)
	if problem != "" {
		h.respondError(w, http.StatusBadRequest, problem)
		return
	}

	summary, err := h.service.GetFinancialSummary(r.Context(), principal.UserID, filter)
	if err != nil {
		respondServiceError(w, r, h.logger, h.respondError, err, "Failed to retrieve financial summary")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Financial summary retrieved successfully.",
		"data":    summary,
	})
}

func (h *PersonalTransactionHandler) decodeInput(w http.ResponseWriter, r *http.Request) (application.TransactionInput, bool) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return application.TransactionInput{}, false
	}
	input, problem := req.toInput()
	if problem != "" {
		h.respondError(w, http.StatusBadRequest, problem)
		return input, false
	}
	return input, true
}
