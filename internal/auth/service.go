package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/org-admin/internal"
	"github.com/frahmantamala/org-admin/internal/user"
)

// Service issues and renews session tokens. Login and Refresh never write to storage.
type Service struct {
	repo   RepositoryAPI
	tokens TokenGenerator
	hasher PasswordHasher
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, tokens TokenGenerator, hasher PasswordHasher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, tokens: tokens, hasher: hasher, logger: logger}
}

func errAccountNotActive(status string) *internal.AppError {
	return internal.NewForbiddenError(fmt.Sprintf("Account is %s", status), internal.ErrCodeAccountNotActive)
}

func (s *Service) Login(ctx context.Context, dto LoginDTO) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	acct, err := s.repo.FindByIdentifier(ctx, dto.ResolvedIdentifier())
	if err != nil {
		if !internal.IsKind(err, internal.ErrorTypeNotFound) {
			s.logger.Error("login lookup failed", "error", err)
		}
		return nil, err
	}

	if !s.hasher.Compare(acct.PasswordHash, dto.Password) {
		s.logger.Warn("login rejected: password mismatch", "user_id", acct.ID)
		return nil, internal.ErrInvalidCredentials
	}
	if !acct.IsActive() {
		s.logger.Warn("login rejected: account not active", "user_id", acct.ID, "status", acct.Status)
		return nil, errAccountNotActive(acct.Status)
	}

	claims := claimsFor(acct.User)
	access, err := s.tokens.GenerateAccessToken(claims)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue access token", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(claims)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue refresh token", err)
	}

	s.logger.Info("user logged in", "user_id", acct.ID)
	return &LoginResult{AccessToken: access, RefreshToken: refresh, User: acct.User}, nil
}

// Refresh verifies the refresh token and issues a new access token. Only the email is taken from
// the old token; id, role and organizationId all come from the freshly read user row.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	old, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		s.logger.Warn("refresh rejected", "error", err)
		return nil, internal.ErrInvalidRefreshToken
	}

	acct, err := s.repo.FindByEmail(ctx, old.Email)
	if err != nil {
		return nil, err
	}
	if !acct.IsActive() {
		return nil, errAccountNotActive(acct.Status)
	}

	access, err := s.tokens.GenerateAccessToken(claimsFor(acct.User))
	if err != nil {
		return nil, internal.NewInternalError("failed to issue access token", err)
	}
	return &RefreshResult{AccessToken: access}, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID int64, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	acct, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Compare(acct.PasswordHash, dto.OldPassword) {
		return internal.NewUnauthorizedError("Old password is incorrect", internal.ErrCodeInvalidCredentials)
	}

	hash, err := s.hasher.Hash(dto.NewPassword)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}
	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		s.logger.Error("failed to update password", "error", err, "user_id", userID)
		return err
	}

	s.logger.Info("password changed", "user_id", userID)
	return nil
}

func (s *Service) ValidateAccessToken(token string) (*Claims, error) {
	claims, err := s.tokens.ValidateAccessToken(token)
	if err != nil {
		return nil, internal.ErrInvalidToken.WithCause(err)
	}
	return claims, nil
}

// PermissionTitles lists the permission titles granted through roleID.
func (s *Service) PermissionTitles(ctx context.Context, roleID int64) ([]string, error) {
	return s.repo.PermissionTitles(ctx, roleID)
}

var _ user.PasswordHasher = (*BcryptHasher)(nil)
