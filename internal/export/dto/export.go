package dto

import (
	"time"

	authdomain "caspometer-backend/internal/auth/domain"
	expensedomain "caspometer-backend/internal/expense/domain"
)

// UserData is the full personal data export.
type UserData struct {
	User     UserSection              `json:"user"`
	Expenses []*expensedomain.Expense `json:"expenses"`
}

type UserSection struct {
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	Settings     authdomain.Settings `json:"settings"`
	RegisterDate time.Time           `json:"registerDate"`
}
