package types

import "github.com/go-playground/validator/v10"

// RegisterRequest represents the request payload for employee registration
type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=80"`
	LastName  string `json:"last_name" validate:"required,min=1,max=80"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

func (req *RegisterRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(req)
}

// LoginRequest represents the request payload for employee login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (req *LoginRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(req)
}
