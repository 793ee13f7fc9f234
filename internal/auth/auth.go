package auth

import (
	"context"
	"errors"

	"github.com/frahmantamala/org-admin/internal/user"
	"github.com/golang-jwt/jwt/v5"
)

// Account is a user row together with its password hash. It never leaves this package's API
// boundary: handlers only ever see the embedded user.User.
type Account struct {
	user.User
	PasswordHash string `json:"-" db:"password_hash"`
}

// Claims is the payload of both token kinds. Role is the user's role id.
type Claims struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	Role           *int64 `json:"role"`
	OrganizationID *int64 `json:"organizationId"`
	jwt.RegisteredClaims
}

func claimsFor(u user.User) Claims {
	return Claims{
		ID:             u.ID,
		Email:          u.Email,
		Role:           u.RoleID,
		OrganizationID: u.OrganizationID,
	}
}

type LoginResult struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	User         user.User `json:"user"`
}

type RefreshResult struct {
	AccessToken string `json:"access_token"`
}

// TokenGenerator signs and verifies the two token kinds with independent secrets.
type TokenGenerator interface {
	GenerateAccessToken(claims Claims) (string, error)
	GenerateRefreshToken(claims Claims) (string, error)
	ValidateAccessToken(token string) (*Claims, error)
	ValidateRefreshToken(token string) (*Claims, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

// RepositoryAPI resolves accounts. Lookups return a NotFound AppError when no row matches.
type RepositoryAPI interface {
	FindByIdentifier(ctx context.Context, identifier string) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id int64) (*Account, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
	PermissionTitles(ctx context.Context, roleID int64) ([]string, error)
}

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
