package models

import "time"

// Account captures application-facing fields for a registered identity.
// PasswordHash only ever holds bcrypt output and is never serialized.
type Account struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
