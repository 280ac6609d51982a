package handler

import "github.com/techzone/storefront-api/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type avatarRequest struct {
	PublicID string `json:"public_id" validate:"required"`
	URL      string `json:"url"       validate:"required,url"`
}

type registerRequest struct {
	Username string         `json:"username" validate:"required,min=9"`
	Email    string         `json:"email"    validate:"required,email"`
	Phone    string         `json:"phone"    validate:"required,min=10,max=12"`
	DOB      string         `json:"dob"      validate:"required"`
	Password string         `json:"password" validate:"required,min=8,max=72"`
	Avatar   *avatarRequest `json:"avatar"   validate:"omitempty"`
}

type provisionManagerRequest struct {
	registerRequest
	Department string `json:"department" validate:"required"`
}

type loginRequest struct {
	Email           string `json:"email"           validate:"required,email"`
	Password        string `json:"password"        validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	Role            string `json:"role"            validate:"required,oneof=User Manager Admin"`
}

type userResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	User    *domain.User `json:"user"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type usersResponse struct {
	Success bool           `json:"success"`
	Users   []*domain.User `json:"users"`
}
