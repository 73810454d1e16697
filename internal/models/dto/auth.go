package dto

import "github.com/learnhub-io/learnhub-be/internal/models"

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token   string         `json:"token"`
	Account models.Account `json:"account"`
}

// UpdateProfileRequest is a closed patch: one optional slot per mutable
// attribute. Absent fields leave the record untouched.
type UpdateProfileRequest struct {
	Name *string `json:"name"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
