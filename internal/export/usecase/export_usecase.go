package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"

	authdomain "caspometer-backend/internal/auth/domain"
	expensedomain "caspometer-backend/internal/expense/domain"
	exportdto "caspometer-backend/internal/export/dto"
	"caspometer-backend/pkg/apperrors"
)

var csvHeader = []string{"Date", "Amount", "Description", "Category", "PaymentMethod"}

// ExportUsecase builds downloadable copies of a user's data.
type ExportUsecase interface {
	// ExpensesCSV fails with NotFound when the user has no expenses.
	ExpensesCSV(ctx context.Context, userID string) ([]byte, error)
	UserData(ctx context.Context, userID string) (*exportdto.UserData, error)
}

type ExpenseLister interface {
	FindByUserID(ctx context.Context, userID string) ([]*expensedomain.Expense, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id string) (*authdomain.User, error)
}

type exportUsecase struct {
	expenses ExpenseLister
	users    UserFinder
}

func NewExportUsecase(expenses ExpenseLister, users UserFinder) ExportUsecase {
	return &exportUsecase{expenses: expenses, users: users}
}

func (u *exportUsecase) ExpensesCSV(ctx context.Context, userID string) ([]byte, error) {
	expenses, err := u.expenses.FindByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if len(expenses) == 0 {
		return nil, apperrors.NotFound("expenses")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, apperrors.Internal(err)
	}
	for _, e := range expenses {
		row := []string{
			e.Date.UTC().Format("2006-01-02"),
			strconv.FormatFloat(e.Amount, 'f', -1, 64),
			e.Description,
			e.Category,
			e.PaymentMethod,
		}
		if err := w.Write(row); err != nil {
			return nil, apperrors.Internal(err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperrors.Internal(err)
	}
	return buf.Bytes(), nil
}

func (u *exportUsecase) UserData(ctx context.Context, userID string) (*exportdto.UserData, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if user == nil {
		return nil, apperrors.NotFound("user")
	}

	expenses, err := u.expenses.FindByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if expenses == nil {
		expenses = []*expensedomain.Expense{}
	}

	return &exportdto.UserData{
		User: exportdto.UserSection{
			Name:         user.Name,
			Email:        user.Email,
			Settings:     user.Settings,
			RegisterDate: user.RegisterDate,
		},
		Expenses: expenses,
	}, nil
}
