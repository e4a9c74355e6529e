package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	database "github.com/sebuszqo/ExpenseTracker/db"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) FindByUser(ctx context.Context, userID string, categoryType domain.TransactionType) ([]domain.Category, error) {
	query := "SELECT id, user_id, name, type FROM categories WHERE user_id = $1"
	args := []interface{}{userID}

	if categoryType != "" {
		query += " AND type = $2"
		args = append(args, categoryType)
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not query categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.UserID, &category.Name, &category.Type); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoryRepository) FindByIDAndUser(ctx context.Context, categoryID int64, userID string) (*domain.Category, error) {
	query := "SELECT id, user_id, name, type FROM categories WHERE id = $1 AND user_id = $2"

	var category domain.Category
	err := r.db.QueryRowContext(ctx, query, categoryID, userID).Scan(&category.ID, &category.UserID, &category.Name, &category.Type)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("could not find category: %w", err)
	}
	return &category, nil
}

func (r *CategoryRepository) Save(ctx context.Context, category *domain.Category) error {
	query := "INSERT INTO categories (user_id, name, type) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, category.UserID, category.Name, category.Type).Scan(&category.ID)
	if err != nil {
		return fmt.Errorf("could not create category: %w", err)
	}
	return nil
}

// SaveAllWithTransaction inserts every category in one statement on tx.
// Generated ids are not read back.
func (r *CategoryRepository) SaveAllWithTransaction(ctx context.Context, tx database.Tx, categories []domain.Category) error {
	if len(categories) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO categories (user_id, name, type) VALUES ")
	args := make([]interface{}, 0, len(categories)*3)
	for i, c := range categories {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "($%d, $%d, $%d)", i*3+1, i*3+2, i*3+3)
		args = append(args, c.UserID, c.Name, c.Type)
	}

	if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("could not create categories: %w", err)
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, categoryID int64, userID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = $1 AND user_id = $2", categoryID, userID)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return 0, financeErrors.ErrCategoryInUse
		}
		return 0, fmt.Errorf("could not delete category: %w", err)
	}
	return result.RowsAffected()
}
