package user

import (
	"context"
	"log/slog"
	"maps"

	"github.com/frahmantamala/org-admin/internal"
	"github.com/frahmantamala/org-admin/internal/core/crud"
)

// PasswordHasher is satisfied by auth.BcryptHasher.
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// Service is the generic CRUD service with password handling on create.
type Service struct {
	*crud.Service[User]
	hasher PasswordHasher
	logger *slog.Logger
}

func NewService(repo crud.ServiceAPI[User], hasher PasswordHasher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Service: crud.NewService(repo, "user", logger),
		hasher:  hasher,
		logger:  logger,
	}
}

// Create takes a plaintext "password" and stores only its hash. A client-supplied hash is refused.
func (s *Service) Create(ctx context.Context, input map[string]any) (*User, error) {
	if _, ok := input[PasswordHashField]; ok {
		return nil, internal.NewValidationFieldError(PasswordHashField, "unknown field: "+PasswordHashField, internal.ErrCodeUnknownField)
	}
	plain, ok := input[PasswordField].(string)
	if !ok || len(plain) < MinPasswordLength {
		return nil, internal.NewValidationFieldError(PasswordField, "password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}

	hash, err := s.hasher.Hash(plain)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	row := maps.Clone(input)
	delete(row, PasswordField)
	row[PasswordHashField] = hash
	if _, ok := row["status"]; !ok {
		row["status"] = StatusActive
	}
	return s.Service.Create(ctx, row)
}
