package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	database "github.com/sebuszqo/ExpenseTracker/db"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
)

type PersonalTransactionRepository struct {
	db *sql.DB
}

func NewPersonalTransactionRepository(db *sql.DB) *PersonalTransactionRepository {
	return &PersonalTransactionRepository{db: db}
}

const transactionColumns = "id, user_id, category_id, amount, description, date, type"

func (r *PersonalTransactionRepository) FindByUser(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	where, args := userFilterClause(userID, filter)
	query := "SELECT " + transactionColumns + " FROM transactions WHERE " + where + " ORDER BY date DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Amount, &t.Description, &t.Date, &t.Type); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *PersonalTransactionRepository) FindByIDAndUser(ctx context.Context, transactionID int64, userID string) (*domain.Transaction, error) {
	query := "SELECT " + transactionColumns + " FROM transactions WHERE id = $1 AND user_id = $2"

	var t domain.Transaction
	err := r.db.QueryRowContext(ctx, query, transactionID, userID).
		Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Amount, &t.Description, &t.Date, &t.Type)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("could not find transaction: %w", err)
	}
	return &t, nil
}

func (r *PersonalTransactionRepository) Save(ctx context.Context, transaction *domain.Transaction) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO transactions (user_id, category_id, amount, description, date, type)
        VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		transaction.UserID, transaction.CategoryID, transaction.Amount,
		transaction.Description, transaction.Date, transaction.Type,
	).Scan(&transaction.ID)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return financeErrors.ErrCategoryNotFound
		}
		return fmt.Errorf("could not create transaction: %w", err)
	}
	return nil
}

// Update replaces every mutable column of a transaction owned by transaction.UserID.
func (r *PersonalTransactionRepository) Update(ctx context.Context, transaction *domain.Transaction) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE transactions
        SET category_id = $1, amount = $2, description = $3, date = $4, type = $5
        WHERE id = $6 AND user_id = $7`,
		transaction.CategoryID, transaction.Amount, transaction.Description, transaction.Date, transaction.Type,
		transaction.ID, transaction.UserID,
	)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return 0, financeErrors.ErrCategoryNotFound
		}
		return 0, fmt.Errorf("could not update transaction: %w", err)
	}
	return result.RowsAffected()
}

func (r *PersonalTransactionRepository) Delete(ctx context.Context, transactionID int64, userID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = $1 AND user_id = $2", transactionID, userID)
	if err != nil {
		return 0, fmt.Errorf("could not delete transaction: %w", err)
	}
	return result.RowsAffected()
}

// SumByType adds up amounts in NUMERIC, so the result carries no rounding error.
func (r *PersonalTransactionRepository) SumByType(ctx context.Context, userID string, transactionType domain.TransactionType, filter domain.TransactionFilter) (decimal.Decimal, error) {
	where, args := userFilterClause(userID, filter)
	args = append(args, transactionType)
	query := fmt.Sprintf("SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE %s AND type = $%d", where, len(args))

	var total decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("could not sum transactions: %w", err)
	}
	return total, nil
}

func (r *PersonalTransactionRepository) ExistsByCategory(ctx context.Context, categoryID int64, userID string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM transactions WHERE category_id = $1 AND user_id = $2)"
	if err := r.db.QueryRowContext(ctx, query, categoryID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func userFilterClause(userID string, filter domain.TransactionFilter) (string, []interface{}) {
	where := "user_id = $1"
	args := []interface{}{userID}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		where += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		where += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	return where, args
}
