package domain

import "time"

type User struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"` // stored lower-cased
	Password     string    `json:"-" gorm:"not null"`                 // bcrypt hash, never plaintext
	Settings     Settings  `json:"settings" gorm:"type:text;not null"`
	RegisterDate time.Time `json:"registerDate"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Identity is the public view of a User, with the password hash stripped.
// It is what the auth middleware attaches to each request.
type Identity struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Settings     Settings  `json:"settings"`
	RegisterDate time.Time `json:"registerDate"`
}

func (u *User) Identity() *Identity {
	return &Identity{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Settings:     u.Settings.Clone(),
		RegisterDate: u.RegisterDate,
	}
}
