package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

const (
	DefaultCurrency = "ILS"
	DefaultTheme    = "light"
	DefaultLanguage = "he"
)

type Settings struct {
	Currency      string             `json:"currency"`
	Theme         string             `json:"theme"`
	Language      string             `json:"language"`
	Budgets       map[string]float64 `json:"budgets"`
	Notifications Notifications      `json:"notifications"`
}

type Notifications struct {
	BudgetAlerts   bool `json:"budgetAlerts"`
	WeeklyReports  bool `json:"weeklyReports"`
	MonthlyReports bool `json:"monthlyReports"`
}

// DefaultBudgets returns a fresh copy of the per-category monthly budgets a
// new user starts with.
func DefaultBudgets() map[string]float64 {
	return map[string]float64{
		"מזון":    2000,
		"קניות":   1000,
		"בילויים": 800,
		"תחבורה":  600,
		"חשבונות": 1500,
		"בריאות":  500,
		"אחר":     700,
	}
}

func DefaultSettings() Settings {
	return Settings{
		Currency: DefaultCurrency,
		Theme:    DefaultTheme,
		Language: DefaultLanguage,
		Budgets:  DefaultBudgets(),
		Notifications: Notifications{
			BudgetAlerts:   true,
			WeeklyReports:  true,
			MonthlyReports: true,
		},
	}
}

// SettingsPatch is a partial settings update. Nil fields are left alone.
type SettingsPatch struct {
	Currency      *string             `json:"currency,omitempty"`
	Theme         *string             `json:"theme,omitempty"`
	Language      *string             `json:"language,omitempty"`
	Budgets       map[string]float64  `json:"budgets,omitempty"`
	Notifications *NotificationsPatch `json:"notifications,omitempty"`
}

type NotificationsPatch struct {
	BudgetAlerts   *bool `json:"budgetAlerts,omitempty"`
	WeeklyReports  *bool `json:"weeklyReports,omitempty"`
	MonthlyReports *bool `json:"monthlyReports,omitempty"`
}

// Apply merges p into s. Scalars are overwritten when present, budgets are
// replaced wholesale, notifications are merged flag by flag.
func (s *Settings) Apply(p SettingsPatch) {
	if p.Currency != nil {
		s.Currency = *p.Currency
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.Language != nil {
		s.Language = *p.Language
	}
	if p.Budgets != nil {
		s.Budgets = make(map[string]float64, len(p.Budgets))
		for k, v := range p.Budgets {
			s.Budgets[k] = v
		}
	}
	if n := p.Notifications; n != nil {
		if n.BudgetAlerts != nil {
			s.Notifications.BudgetAlerts = *n.BudgetAlerts
		}
		if n.WeeklyReports != nil {
			s.Notifications.WeeklyReports = *n.WeeklyReports
		}
		if n.MonthlyReports != nil {
			s.Notifications.MonthlyReports = *n.MonthlyReports
		}
	}
}

func (s Settings) Clone() Settings {
	out := s
	if s.Budgets != nil {
		out.Budgets = make(map[string]float64, len(s.Budgets))
		for k, v := range s.Budgets {
			out.Budgets[k] = v
		}
	}
	return out
}

// Value stores settings as a JSON document.
func (s Settings) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan reads a stored JSON document on top of the defaults, so records
// written with fewer fields still come back complete.
func (s *Settings) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*s = DefaultSettings()
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("settings: unsupported column type %T", value)
	}

	var patch SettingsPatch
	if err := json.Unmarshal(raw, &patch); err != nil {
		return fmt.Errorf("settings: decode: %w", err)
	}

	merged := DefaultSettings()
	merged.Apply(patch)
	*s = merged
	return nil
}
