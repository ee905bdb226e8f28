package auth

import (
	"github.com/farm2home/farm2home-backend/internal/accounts"
)

// RegisterRequest captures the payload for creating a new account.
type RegisterRequest struct {
	Name     string  `json:"name" validate:"required"`
	Username *string `json:"username,omitempty"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Role     string  `json:"role" validate:"required"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	FarmName *string `json:"farm_name,omitempty"`
}

// LoginRequest carries the credentials sent to the login endpoint. The
// identifier matches against either email or username.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// AuthResponse contains the token and account produced by register or login.
type AuthResponse struct {
	AccessToken string               `json:"access_token"`
	Account     *accounts.AccountDTO `json:"account"`
}

// UpdateProfileRequest enumerates the editable profile fields. Absent fields
// stay untouched; email, role, and password cannot be changed here.
type UpdateProfileRequest struct {
	Name         *string `json:"name,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Address      *string `json:"address,omitempty"`
	FarmName     *string `json:"farm_name,omitempty"`
	ProfileImage *string `json:"profile_image,omitempty"`
}
