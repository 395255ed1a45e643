package repository

import (
	"context"
	"errors"
	"time"

	"caspometer-backend/internal/expense/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormExpenseRepository implements ExpenseRepository using GORM
type gormExpenseRepository struct {
	db           *gorm.DB
	queryTimeout time.Duration
}

// NewGormExpenseRepository creates a new GORM-based ExpenseRepository
func NewGormExpenseRepository(db *gorm.DB, queryTimeout time.Duration) ExpenseRepository {
	return &gormExpenseRepository{db: db, queryTimeout: queryTimeout}
}

func (r *gormExpenseRepository) conn(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	if r.queryTimeout <= 0 {
		return r.db.WithContext(ctx), func() {}
	}
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	return r.db.WithContext(ctx), cancel
}

func (r *gormExpenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	expense.CreatedAt = now
	expense.UpdatedAt = now
	expense.Date = expense.Date.UTC()
	return db.Create(expense).Error
}

func (r *gormExpenseRepository) FindByID(ctx context.Context, id string) (*domain.Expense, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var expense domain.Expense
	err := db.Where("id = ?", id).First(&expense).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &expense, nil
}

func (r *gormExpenseRepository) FindByUserID(ctx context.Context, userID string) ([]*domain.Expense, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var expenses []*domain.Expense
	err := db.Where("user_id = ?", userID).
		Order("expense_date DESC, created_at DESC").
		Find(&expenses).Error
	return expenses, err
}

func (r *gormExpenseRepository) FindByUserSince(ctx context.Context, userID string, since time.Time) ([]*domain.Expense, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var expenses []*domain.Expense
	err := db.Where("user_id = ? AND expense_date >= ?", userID, since.UTC()).
		Order("expense_date ASC").
		Find(&expenses).Error
	return expenses, err
}

func (r *gormExpenseRepository) Update(ctx context.Context, expense *domain.Expense) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	expense.UpdatedAt = time.Now().UTC()
	expense.Date = expense.Date.UTC()
	return db.Save(expense).Error
}

func (r *gormExpenseRepository) Delete(ctx context.Context, id string) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	return db.Delete(&domain.Expense{}, "id = ?", id).Error
}

func (r *gormExpenseRepository) SumByCategory(ctx context.Context, userID string, from, to *time.Time) ([]domain.CategoryTotal, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	query := db.Model(&domain.Expense{}).
		Select("category, SUM(amount) AS total_amount, COUNT(*) AS count").
		Where("user_id = ?", userID)
	if from != nil {
		query = query.Where("expense_date >= ?", from.UTC())
	}
	if to != nil {
		query = query.Where("expense_date <= ?", to.UTC())
	}

	totals := []domain.CategoryTotal{}
	err := query.Group("category").Order("total_amount DESC, category ASC").Scan(&totals).Error
	return totals, err
}
