package domain

import "time"

const DefaultPaymentMethod = "אשראי"

// Expense is a single spending record owned by one user.
type Expense struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	UserID        string    `json:"userId" gorm:"index:idx_expenses_user_date,priority:1;not null"`
	Amount        float64   `json:"amount" gorm:"not null"`
	Description   string    `json:"description" gorm:"not null"`
	Category      string    `json:"category" gorm:"index;not null"`
	Date          time.Time `json:"date" gorm:"column:expense_date;index:idx_expenses_user_date,priority:2;not null"`
	PaymentMethod string    `json:"paymentMethod"`
	Notes         string    `json:"notes,omitempty"`
	Tags          []string  `json:"tags" gorm:"serializer:json;type:text"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// MonthlyTotal aggregates one calendar month (UTC).
type MonthlyTotal struct {
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	TotalAmount float64 `json:"totalAmount"`
	Count       int64   `json:"count"`
}

type CategoryTotal struct {
	Category    string  `json:"category"`
	TotalAmount float64 `json:"totalAmount"`
	Count       int64   `json:"count"`
}

// BudgetStatus compares a month's spend in one category with its budget.
type BudgetStatus struct {
	Category  string  `json:"category"`
	Budget    float64 `json:"budget"`
	Spent     float64 `json:"spent"`
	Remaining float64 `json:"remaining"`
	Exceeded  bool    `json:"exceeded"`
}

type BudgetReport struct {
	Year       int            `json:"year"`
	Month      int            `json:"month"`
	Currency   string         `json:"currency"`
	Categories []BudgetStatus `json:"categories"`
}

// Exceeded returns the categories that are over budget.
func (r *BudgetReport) Exceeded() []BudgetStatus {
	var out []BudgetStatus
	for _, c := range r.Categories {
		if c.Exceeded {
			out = append(out, c)
		}
	}
	return out
}
