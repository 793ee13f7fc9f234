package auth

import (
	"strings"

	"github.com/frahmantamala/org-admin/internal/core/validation"
	"github.com/frahmantamala/org-admin/internal/user"
)

// LoginDTO accepts either an email or a username as the identifier. Older clients send "email".
type LoginDTO struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email,omitempty"`
	Username   string `json:"username,omitempty"`
	Password   string `json:"password"`
}

func (d LoginDTO) ResolvedIdentifier() string {
	for _, v := range []string{d.Identifier, d.Email, d.Username} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func (d LoginDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("identifier", d.ResolvedIdentifier()).Required().MaxLength(255)
	v.Field("password", d.Password).Required()
	return v.Validate()
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (d RefreshTokenDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("refresh_token", d.RefreshToken).Required()
	return v.Validate()
}

type ChangePasswordDTO struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (d ChangePasswordDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("old_password", d.OldPassword).Required()
	v.Field("new_password", d.NewPassword).Required().MinLength(user.MinPasswordLength).MaxLength(72)
	return v.Validate()
}
