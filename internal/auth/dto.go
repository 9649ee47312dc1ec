package auth

import (
	"strings"

	"github.com/staffsync/staffsync-backend/internal/core/common/validation"
)

type SignupDTO struct {
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	Name       string  `json:"name"`
	Phone      *string `json:"phone"`
	Department *string `json:"department"`
}

func (d *SignupDTO) Normalize() {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Name = strings.TrimSpace(d.Name)
}

func (d SignupDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().MaxLength(255).Email()
	v.Field("password", d.Password).Required().MinLength(8).MaxLength(72).PasswordStrength()
	v.Field("name", d.Name).Required().MaxLength(255)
	v.Field("phone", d.Phone).MaxLength(20).Phone()
	v.Field("department", d.Department).MaxLength(100)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required()
	v.Field("password", d.Password).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (d RefreshTokenDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("refresh_token", d.RefreshToken).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// LogoutDTO optionally carries the refresh token so both halves of the
// pair are revoked.
type LogoutDTO struct {
	RefreshToken string `json:"refresh_token"`
}
