package dto

import "time"

type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// SessionResponse is returned by register and login; the token itself travels in the cookie.
type SessionResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username" validate:"omitempty,min=1"`
	Email    *string `json:"email" validate:"omitempty,email"`
}

type ProfileResponse struct {
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Joined   time.Time `json:"joined"`
}
