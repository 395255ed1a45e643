package usecase

import (
	"context"
	"time"

	authdomain "caspometer-backend/internal/auth/domain"
	"caspometer-backend/internal/expense/domain"
	"caspometer-backend/internal/expense/dto"
)

// ExpenseUsecase defines the interface for expense business logic.
// Operations on a single expense check ownership: a missing expense is
// NotFound, someone else's is Forbidden.
type ExpenseUsecase interface {
	CreateExpense(ctx context.Context, userID string, req *dto.CreateExpenseRequest) (*domain.Expense, error)
	GetExpense(ctx context.Context, userID, expenseID string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, userID string) ([]*domain.Expense, error)
	UpdateExpense(ctx context.Context, userID, expenseID string, req *dto.UpdateExpenseRequest) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, userID, expenseID string) error

	// MonthlySummary covers the last six months, oldest month first.
	MonthlySummary(ctx context.Context, userID string) ([]domain.MonthlyTotal, error)

	// CategorySummary totals per category within optional bounds, largest first.
	CategorySummary(ctx context.Context, userID string, from, to *time.Time) ([]domain.CategoryTotal, error)

	// BudgetStatus reports the current month against the caller's budgets.
	BudgetStatus(ctx context.Context, userID string) (*domain.BudgetReport, error)

	// BudgetReport is BudgetStatus for a user whose settings are already loaded.
	BudgetReport(ctx context.Context, userID string, settings authdomain.Settings) (*domain.BudgetReport, error)
}

// UserFinder is satisfied by the auth UserRepository.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*authdomain.User, error)
}
