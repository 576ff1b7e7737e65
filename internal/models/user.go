package models

import "time"

// User captures application-facing fields for an authenticated identity.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserUpdate lists the mutable profile fields; nil fields are left untouched.
type UserUpdate struct {
	Username *string
	Email    *string
}
