package entities

import (
	"strings"
	"time"
)

// User represents a resident or administrator account. Accounts are created
// on first Telegram login and are never hard-deleted; deactivation flips
// IsActive instead.
type User struct {
	ID         string    `json:"id" db:"id"`
	TelegramID string    `json:"telegram_id" db:"telegram_id"`
	FirstName  string    `json:"first_name" db:"first_name"`
	LastName   string    `json:"last_name" db:"last_name"`
	Username   string    `json:"username" db:"username"`
	Apartment  string    `json:"apartment" db:"apartment"`
	Building   string    `json:"building" db:"building"`
	Street     string    `json:"street" db:"street"`
	Phone      string    `json:"phone" db:"phone"`
	Email      string    `json:"email" db:"email"`
	IsAdmin    bool      `json:"is_admin" db:"is_admin"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// FullName returns the display name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Address returns the postal address as a single line
func (u *User) Address() string {
	parts := make([]string, 0, 3)
	if u.Street != "" {
		parts = append(parts, u.Street)
	}
	if u.Building != "" {
		parts = append(parts, "bld "+u.Building)
	}
	if u.Apartment != "" {
		parts = append(parts, "apt "+u.Apartment)
	}
	return strings.Join(parts, ", ")
}
