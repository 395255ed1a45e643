package dto

import (
	"errors"
	"strings"
	"time"
)

type CreateExpenseRequest struct {
	Amount        float64  `json:"amount" binding:"required,gt=0"`
	Description   string   `json:"description" binding:"required,max=500"`
	Category      string   `json:"category" binding:"required,max=100"`
	Date          string   `json:"date"`
	PaymentMethod string   `json:"paymentMethod" binding:"max=100"`
	Notes         string   `json:"notes" binding:"max=2000"`
	Tags          []string `json:"tags" binding:"omitempty,max=20,dive,min=1,max=50"`
}

// UpdateExpenseRequest is a partial update; nil fields are left alone.
type UpdateExpenseRequest struct {
	Amount        *float64  `json:"amount" binding:"omitempty,gt=0"`
	Description   *string   `json:"description" binding:"omitempty,min=1,max=500"`
	Category      *string   `json:"category" binding:"omitempty,min=1,max=100"`
	Date          *string   `json:"date"`
	PaymentMethod *string   `json:"paymentMethod" binding:"omitempty,max=100"`
	Notes         *string   `json:"notes" binding:"omitempty,max=2000"`
	Tags          *[]string `json:"tags" binding:"omitempty,max=20,dive,min=1,max=50"`
}

var ErrInvalidDate = errors.New("date must be YYYY-MM-DD or RFC3339")

// ParseDate accepts a calendar date or a full RFC3339 timestamp and
// returns it in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, ErrInvalidDate
}

// EndOfDay widens a bare YYYY-MM-DD upper bound to cover the whole day.
func EndOfDay(raw string, t time.Time) time.Time {
	if len(strings.TrimSpace(raw)) == len(time.DateOnly) {
		return t.Add(24*time.Hour - time.Nanosecond)
	}
	return t
}
