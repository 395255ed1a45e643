package dto

import authdomain "caspometer-backend/internal/auth/domain"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// UpdateProfileRequest is a partial update. Empty strings and a nil
// Settings leave the stored values untouched.
type UpdateProfileRequest struct {
	Name     string           `json:"name" binding:"omitempty,max=100"`
	Email    string           `json:"email" binding:"omitempty,email"`
	Password string           `json:"password" binding:"omitempty,min=6,max=72"`
	Settings *SettingsRequest `json:"settings"`
}

type SettingsRequest struct {
	Currency      *string               `json:"currency" binding:"omitempty,iso4217"`
	Theme         *string               `json:"theme" binding:"omitempty,oneof=light dark"`
	Language      *string               `json:"language" binding:"omitempty,bcp47_language_tag"`
	Budgets       map[string]float64    `json:"budgets" binding:"omitempty,dive,keys,min=1,endkeys,gte=0"`
	Notifications *NotificationsRequest `json:"notifications"`
}

type NotificationsRequest struct {
	BudgetAlerts   *bool `json:"budgetAlerts"`
	WeeklyReports  *bool `json:"weeklyReports"`
	MonthlyReports *bool `json:"monthlyReports"`
}

func (s *SettingsRequest) ToPatch() authdomain.SettingsPatch {
	if s == nil {
		return authdomain.SettingsPatch{}
	}
	patch := authdomain.SettingsPatch{
		Currency: s.Currency,
		Theme:    s.Theme,
		Language: s.Language,
		Budgets:  s.Budgets,
	}
	if n := s.Notifications; n != nil {
		patch.Notifications = &authdomain.NotificationsPatch{
			BudgetAlerts:   n.BudgetAlerts,
			WeeklyReports:  n.WeeklyReports,
			MonthlyReports: n.MonthlyReports,
		}
	}
	return patch
}

// AuthResponse is returned by register, login and profile update.
type AuthResponse struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Email    string              `json:"email"`
	Settings authdomain.Settings `json:"settings"`
	Token    string              `json:"token"`
}

func NewAuthResponse(id *authdomain.Identity, token string) *AuthResponse {
	return &AuthResponse{
		ID:       id.ID,
		Name:     id.Name,
		Email:    id.Email,
		Settings: id.Settings,
		Token:    token,
	}
}
