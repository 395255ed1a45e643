package repository

import (
	"context"
	"time"

	"caspometer-backend/internal/expense/domain"
)

// ExpenseRepository defines the interface for expense data access.
// Find methods return (nil, nil) when no record matches.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *domain.Expense) error

	FindByID(ctx context.Context, id string) (*domain.Expense, error)

	// FindByUserID returns all of a user's expenses, newest date first.
	FindByUserID(ctx context.Context, userID string) ([]*domain.Expense, error)

	// FindByUserSince returns a user's expenses dated at or after since, oldest first.
	FindByUserSince(ctx context.Context, userID string, since time.Time) ([]*domain.Expense, error)

	Update(ctx context.Context, expense *domain.Expense) error

	Delete(ctx context.Context, id string) error

	// SumByCategory totals a user's expenses per category, largest total
	// first. A nil bound is open.
	SumByCategory(ctx context.Context, userID string, from, to *time.Time) ([]domain.CategoryTotal, error)
}
