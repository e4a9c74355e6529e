package interfaces

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/sebuszqo/ExpenseTracker/internal/auth"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/sebuszqo/ExpenseTracker/internal/log"
)

type errorResponder func(w http.ResponseWriter, status int, message string, errors ...[]string)

func requirePrincipal(w http.ResponseWriter, r *http.Request, respondError errorResponder) (auth.Principal, bool) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
	}
	return principal, ok
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parseDateFilter reads the optional inclusive start_date and end_date query
// parameters.
func parseDateFilter(r *http.Request) (domain.TransactionFilter, string) {
	var filter domain.TransactionFilter

	if s := r.URL.Query().Get("start_date"); s != "" {
		startDate, err := time.Parse(domain.DateLayout, s)
		if err != nil {
			return filter, "Invalid start date format"
		}
		filter.StartDate = &startDate
	}
	if s := r.URL.Query().Get("end_date"); s != "" {
		endDate, err := time.Parse(domain.DateLayout, s)
		if err != nil {
			return filter, "Invalid end date format"
		}
		filter.EndDate = &endDate
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return filter, "End date must not be before start date"
	}
	return filter, ""
}

// respondServiceError maps finance errors onto status codes. Anything
// unexpected is logged and hidden behind fallback.
func respondServiceError(w http.ResponseWriter, r *http.Request, logger *log.Logger, respondError errorResponder, err error, fallback string) {
	var validationErrors *financeErrors.ValidationErrors
	switch {
	case errors.As(err, &validationErrors):
		respondError(w, http.StatusBadRequest, "Validation errors occurred", validationErrors.Messages())
	case financeErrors.IsValidationError(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case financeErrors.IsNotFoundError(err):
		respondError(w, http.StatusNotFound, err.Error())
	case financeErrors.IsConflictError(err):
		respondError(w, http.StatusConflict, err.Error())
	default:
		logger.ErrorContext(r.Context(), fallback, "path", r.URL.Path, "error", err)
		respondError(w, http.StatusInternalServerError, fallback)
	}
}
