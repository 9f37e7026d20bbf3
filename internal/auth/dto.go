package auth

import (
	"github.com/scraperite/storefront-backend/internal/resellers"
	"github.com/scraperite/storefront-backend/internal/users"
)

// RegisterRequest is the reseller signup payload; profile fields are optional.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`

	CompanyName  *string `json:"companyName" validate:"omitempty,max=200"`
	ContactName  *string `json:"contactName" validate:"omitempty,max=200"`
	PhoneNumber  *string `json:"phoneNumber" validate:"omitempty,max=50"`
	Address      *string `json:"address" validate:"omitempty,max=500"`
	City         *string `json:"city" validate:"omitempty,max=100"`
	Country      *string `json:"country" validate:"omitempty,max=100"`
	VATNumber    *string `json:"vatNumber" validate:"omitempty,max=50"`
	BusinessType *string `json:"businessType" validate:"omitempty,max=100"`
}

type RegisterResponse struct {
	User    users.View            `json:"user"`
	Profile resellers.ProfileView `json:"profile"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	User         users.View `json:"user"`
}

type RefreshRequest struct {
	AccessToken  string `json:"accessToken" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type RefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
	Lang  string `json:"lang" validate:"omitempty,oneof=en sv"`
}

type PasswordUpdateRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}
