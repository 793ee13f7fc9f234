package role

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/org-admin/internal"
	"github.com/frahmantamala/org-admin/internal/core/store"
)

// Service keeps a role's permission set equal to the list the caller supplied. Join rows are always
// replaced as a whole inside the same transaction as the role row.
//
// Two concurrent permission-set updates for the same role are last-write-wins: the later commit's
// DELETE+INSERT fully replaces the earlier one. No optimistic locking is attempted.
type Service struct {
	db     Store
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(db Store, repo RepositoryAPI, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{db: db, repo: repo, logger: logger}
}

func (s *Service) CreateRoleWithPermissions(ctx context.Context, dto CreateRoleDTO) (*Role, error) {
	if _, _, err := Writable.Values(dto.Values()); err != nil {
		return nil, err
	}
	ids, err := NormalizePermissionIDs(dto.PermissionIDs)
	if err != nil {
		return nil, err
	}

	var roleID int64
	err = s.db.InTx(ctx, func(q store.Querier) error {
		id, err := s.repo.Insert(ctx, q, dto.Values())
		if err != nil {
			return err
		}
		roleID = id
		return s.repo.InsertPermissions(ctx, q, id, ids)
	})
	if err != nil {
		s.logger.Error("failed to create role", "error", err, "title", dto.Title)
		return nil, err
	}

	s.logger.Info("role created", "role_id", roleID, "permissions", len(ids))
	return s.GetRoleWithPermissions(ctx, roleID)
}

func (s *Service) UpdateRoleWithPermissions(ctx context.Context, id int64, patch RolePatch) (*Role, error) {
	if patch.IsEmpty() {
		return nil, internal.NewValidationError("at least one of title, description or permissionIds is required", internal.ErrCodeEmptyUpdate)
	}

	var ids []int64
	if patch.PermissionIDs != nil {
		var err error
		if ids, err = NormalizePermissionIDs(*patch.PermissionIDs); err != nil {
			return nil, err
		}
	}

	err := s.db.InTx(ctx, func(q store.Querier) error {
		if err := s.repo.UpdateFields(ctx, q, id, patch.Values()); err != nil {
			return err
		}
		if patch.PermissionIDs == nil {
			return nil
		}
		return s.repo.ReplacePermissions(ctx, q, id, ids)
	})
	if err != nil {
		s.logger.Error("failed to update role", "error", err, "role_id", id)
		return nil, err
	}

	updated, err := s.repo.FindWithPermissions(ctx, s.db, id)
	if internal.IsKind(err, internal.ErrorTypeNotFound) {
		s.logger.Warn("role disappeared after update", "role_id", id)
		return nil, internal.NewNotFoundError("Role not found after update", internal.ErrCodeRoleNotFound)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("role updated", "role_id", id, "permissions_replaced", patch.PermissionIDs != nil)
	return updated, nil
}

func (s *Service) GetRoleWithPermissions(ctx context.Context, id int64) (*Role, error) {
	r, err := s.repo.FindWithPermissions(ctx, s.db, id)
	if err != nil {
		s.logger.Warn("failed to get role", "error", err, "role_id", id)
		return nil, err
	}
	return r, nil
}

func (s *Service) ListRolesWithPermissions(ctx context.Context) ([]Role, error) {
	roles, err := s.repo.ListWithPermissions(ctx, s.db)
	if err != nil {
		s.logger.Error("failed to list roles", "error", err)
		return nil, err
	}
	return roles, nil
}

// DeleteRole removes the role; its join rows go with it through ON DELETE CASCADE.
func (s *Service) DeleteRole(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, s.db, id); err != nil {
		s.logger.Error("failed to delete role", "error", err, "role_id", id)
		return err
	}
	s.logger.Info("role deleted", "role_id", id)
	return nil
}
