package forms

import "strings"

type LoginForm struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (f *LoginForm) Validate() FieldErrors {
	f.Email = strings.TrimSpace(f.Email)
	return check(f)
}

type RegisterForm struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,address"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=user host"`
}

func (f *RegisterForm) Validate() FieldErrors {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Role = strings.TrimSpace(f.Role)
	if f.Role == "" {
		f.Role = "user"
	}
	return check(f)
}
