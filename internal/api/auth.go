package api

import "github.com/distrischool/identity/internal/domain"

// Request DTOs

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=STUDENT TEACHER ADMIN"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Response DTOs

// RegisterResponse is the public identity view, never the stored record.
type RegisterResponse = domain.UserView

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

type MeResponse struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}
