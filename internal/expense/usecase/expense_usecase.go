package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	authdomain "caspometer-backend/internal/auth/domain"
	"caspometer-backend/internal/expense/domain"
	"caspometer-backend/internal/expense/dto"
	"caspometer-backend/internal/expense/repository"
	"caspometer-backend/pkg/apperrors"
)

const summaryMonths = 6

// expenseUsecase implements ExpenseUsecase interface
type expenseUsecase struct {
	expenseRepo repository.ExpenseRepository
	users       UserFinder
	now         func() time.Time
}

type Option func(*expenseUsecase)

// WithClock overrides time.Now, for date defaults and month windows.
func WithClock(now func() time.Time) Option {
	return func(u *expenseUsecase) { u.now = now }
}

// NewExpenseUsecase creates a new instance of expenseUsecase
func NewExpenseUsecase(expenseRepo repository.ExpenseRepository, users UserFinder, opts ...Option) ExpenseUsecase {
	u := &expenseUsecase{
		expenseRepo: expenseRepo,
		users:       users,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *expenseUsecase) CreateExpense(ctx context.Context, userID string, req *dto.CreateExpenseRequest) (*domain.Expense, error) {
	expense := &domain.Expense{
		UserID:        userID,
		Amount:        req.Amount,
		Description:   strings.TrimSpace(req.Description),
		Category:      strings.TrimSpace(req.Category),
		Date:          u.now().UTC(),
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		Tags:          req.Tags,
	}
	if expense.Description == "" || expense.Category == "" {
		return nil, apperrors.Validation("Description and category are required.")
	}
	if req.Date != "" {
		d, err := dto.ParseDate(req.Date)
		if err != nil {
			return nil, apperrors.Validation(err.Error()).WithDetail("date", err.Error())
		}
		expense.Date = d
	}
	if expense.PaymentMethod == "" {
		expense.PaymentMethod = domain.DefaultPaymentMethod
	}
	if expense.Tags == nil {
		expense.Tags = []string{}
	}

	if err := u.expenseRepo.Create(ctx, expense); err != nil {
		return nil, apperrors.Internal(err)
	}
	return expense, nil
}

func (u *expenseUsecase) GetExpense(ctx context.Context, userID, expenseID string) (*domain.Expense, error) {
	expense, err := u.expenseRepo.FindByID(ctx, expenseID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if expense == nil {
		return nil, apperrors.NotFound("expense")
	}
	if expense.UserID != userID {
		return nil, apperrors.Forbidden()
	}
	return expense, nil
}

func (u *expenseUsecase) ListExpenses(ctx context.Context, userID string) ([]*domain.Expense, error) {
	expenses, err := u.expenseRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if expenses == nil {
		expenses = []*domain.Expense{}
	}
	return expenses, nil
}

func (u *expenseUsecase) UpdateExpense(ctx context.Context, userID, expenseID string, req *dto.UpdateExpenseRequest) (*domain.Expense, error) {
	expense, err := u.GetExpense(ctx, userID, expenseID)
	if err != nil {
		return nil, err
	}

	if req.Amount != nil {
		expense.Amount = *req.Amount
	}
	if req.Description != nil {
		expense.Description = strings.TrimSpace(*req.Description)
	}
	if req.Category != nil {
		expense.Category = strings.TrimSpace(*req.Category)
	}
	if expense.Description == "" || expense.Category == "" {
		return nil, apperrors.Validation("Description and category are required.")
	}
	if req.Date != nil {
		d, err := dto.ParseDate(*req.Date)
		if err != nil {
			return nil, apperrors.Validation(err.Error()).WithDetail("date", err.Error())
		}
		expense.Date = d
	}
	if req.PaymentMethod != nil {
		expense.PaymentMethod = *req.PaymentMethod
		if expense.PaymentMethod == "" {
			expense.PaymentMethod = domain.DefaultPaymentMethod
		}
	}
	if req.Notes != nil {
		expense.Notes = *req.Notes
	}
	if req.Tags != nil {
		expense.Tags = *req.Tags
		if expense.Tags == nil {
			expense.Tags = []string{}
		}
	}

	if err := u.expenseRepo.Update(ctx, expense); err != nil {
		return nil, apperrors.Internal(err)
	}
	return expense, nil
}

func (u *expenseUsecase) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	expense, err := u.GetExpense(ctx, userID, expenseID)
	if err != nil {
		return err
	}
	if err := u.expenseRepo.Delete(ctx, expense.ID); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (u *expenseUsecase) MonthlySummary(ctx context.Context, userID string) ([]domain.MonthlyTotal, error) {
	since := u.now().UTC().AddDate(0, -summaryMonths, 0)
	expenses, err := u.expenseRepo.FindByUserSince(ctx, userID, since)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	type key struct{ year, month int }
	buckets := make(map[key]*domain.MonthlyTotal)
	for _, e := range expenses {
		d := e.Date.UTC()
		k := key{d.Year(), int(d.Month())}
		b, ok := buckets[k]
		if !ok {
			b = &domain.MonthlyTotal{Year: k.year, Month: k.month}
			buckets[k] = b
		}
		b.TotalAmount += e.Amount
		b.Count++
	}

	out := make([]domain.MonthlyTotal, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out, nil
}

func (u *expenseUsecase) CategorySummary(ctx context.Context, userID string, from, to *time.Time) ([]domain.CategoryTotal, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, apperrors.Validation("endDate must not be before startDate.")
	}
	totals, err := u.expenseRepo.SumByCategory(ctx, userID, from, to)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return totals, nil
}

func (u *expenseUsecase) BudgetStatus(ctx context.Context, userID string) (*domain.BudgetReport, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if user == nil {
		return nil, apperrors.NotFound("user")
	}
	return u.BudgetReport(ctx, userID, user.Settings)
}

func (u *expenseUsecase) BudgetReport(ctx context.Context, userID string, settings authdomain.Settings) (*domain.BudgetReport, error) {
	now := u.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)

	totals, err := u.expenseRepo.SumByCategory(ctx, userID, &monthStart, &monthEnd)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	spent := make(map[string]float64, len(totals))
	for _, t := range totals {
		spent[t.Category] = t.TotalAmount
	}

	report := &domain.BudgetReport{
		Year:       now.Year(),
		Month:      int(now.Month()),
		Currency:   settings.Currency,
		Categories: make([]domain.BudgetStatus, 0, len(settings.Budgets)),
	}
	for category, budget := range settings.Budgets {
		s := spent[category]
		report.Categories = append(report.Categories, domain.BudgetStatus{
			Category:  category,
			Budget:    budget,
			Spent:     s,
			Remaining: budget - s,
			Exceeded:  s > budget,
		})
	}
	sort.Slice(report.Categories, func(i, j int) bool {
		return report.Categories[i].Category < report.Categories[j].Category
	})
	return report, nil
}
