package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/expense-tracker/internal"
	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"gorm.io/gorm"
)

// ExpenseRepository implements expense.RepositoryAPI on gorm. It runs on any
// dialect gorm supports; the package name follows the production store.
type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) expense.RepositoryAPI {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(ctx context.Context, exp *expenseDatamodel.Expense) error {
	return r.db.WithContext(ctx).Create(exp).Error
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*expenseDatamodel.Expense, error) {
	var exp expenseDatamodel.Expense
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&exp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrExpenseNotFound
		}
		return nil, err
	}
	return &exp, nil
}

func (r *ExpenseRepository) GetAll(ctx context.Context) ([]*expenseDatamodel.Expense, error) {
	var expenses []*expenseDatamodel.Expense
	err := r.db.WithContext(ctx).Order("id ASC").Find(&expenses).Error
	return expenses, err
}

// Update writes the patchable columns only. created_* and updated_* are left
// as stored.
func (r *ExpenseRepository) Update(ctx context.Context, exp *expenseDatamodel.Expense) error {
	result := r.db.WithContext(ctx).
		Model(&expenseDatamodel.Expense{ID: exp.ID}).
		Select("amount", "date", "note", "category").
		Updates(exp)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrExpenseNotFound
	}
	return nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&expenseDatamodel.Expense{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrExpenseNotFound
	}
	return nil
}

func (r *ExpenseRepository) Filter(ctx context.Context, params expense.FilterParams) ([]*expenseDatamodel.Expense, error) {
	query := r.db.WithContext(ctx).Model(&expenseDatamodel.Expense{}).Distinct()

	if params.Category != nil {
		query = query.Where("category = ?", *params.Category)
	}
	if params.StartDate != nil {
		query = query.Where("date >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("date <= ?", *params.EndDate)
	}

	var expenses []*expenseDatamodel.Expense
	err := query.Order("id ASC").Find(&expenses).Error
	return expenses, err
}

func (r *ExpenseRepository) SumByCategory(ctx context.Context) ([]expense.CategoryTotal, error) {
	var totals []expense.CategoryTotal
	err := r.db.WithContext(ctx).
		Model(&expenseDatamodel.Expense{}).
		Select("COALESCE(category, '') AS category, SUM(amount) AS total_spent").
		Group("COALESCE(category, '')").
		Order("category ASC").
		Scan(&totals).Error
	return totals, err
}
