package postgres

import (
	"context"

	"github.com/frahmantamala/expense-tracker/internal/category"
	"github.com/jmoiron/sqlx"
)

// A NULL category reads as the empty label, the same way the category
// summary groups it.
const listDistinctQuery = `SELECT DISTINCT COALESCE(category, '') AS category FROM expenses`

// CategoryRepository reads categories straight off the expenses table.
type CategoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) category.RepositoryAPI {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) ListDistinct(ctx context.Context) ([]category.Category, error) {
	var categories []category.Category
	if err := r.db.SelectContext(ctx, &categories, listDistinctQuery); err != nil {
		return nil, err
	}
	return categories, nil
}
