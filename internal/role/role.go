package role

import (
	"context"
	"time"

	"github.com/frahmantamala/org-admin/internal"
	"github.com/frahmantamala/org-admin/internal/core/fields"
	"github.com/frahmantamala/org-admin/internal/core/store"
	"github.com/frahmantamala/org-admin/internal/permission"
)

type Role struct {
	ID          int64                   `json:"id"`
	Title       string                  `json:"title"`
	Description *string                 `json:"description"`
	Permissions []permission.Permission `json:"permissions"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// Writable is the allow-list for the roles row itself; permissions travel separately.
var Writable = fields.Set{
	"title":       {Column: "title", Coerce: fields.String},
	"description": {Column: "description", Coerce: fields.NullableString},
}

type CreateRoleDTO struct {
	Title         string  `json:"title"`
	Description   *string `json:"description"`
	PermissionIDs []int64 `json:"permissionIds"`
}

// Values returns the roles row columns in the shape Writable expects.
func (d CreateRoleDTO) Values() map[string]any {
	out := map[string]any{"title": d.Title}
	if d.Description != nil {
		out["description"] = *d.Description
	}
	return out
}

// RolePatch carries only what the caller supplied. A nil PermissionIDs leaves the permission set
// untouched; a non-nil empty slice clears it.
type RolePatch struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	PermissionIDs *[]int64 `json:"permissionIds"`
}

func (p RolePatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.PermissionIDs == nil
}

func (p RolePatch) Values() map[string]any {
	out := make(map[string]any)
	if p.Title != nil {
		out["title"] = *p.Title
	}
	if p.Description != nil {
		out["description"] = *p.Description
	}
	return out
}

// NormalizePermissionIDs drops repeated ids keeping the first occurrence. Ids must be positive.
func NormalizePermissionIDs(ids []int64) ([]int64, error) {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, internal.NewValidationFieldError("permissionIds", "permission ids must be positive integers", internal.ErrCodeValidationFailed)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

// Store is the storage capability the coordinator needs: plain reads plus a transactional scope.
type Store interface {
	store.Querier
	InTx(ctx context.Context, fn func(q store.Querier) error) error
}

// RepositoryAPI holds the statements of the coordinator. Every method runs on the Querier it is given,
// so the service decides which of them share a transaction.
type RepositoryAPI interface {
	Insert(ctx context.Context, q store.Querier, values map[string]any) (int64, error)
	UpdateFields(ctx context.Context, q store.Querier, id int64, values map[string]any) error
	InsertPermissions(ctx context.Context, q store.Querier, roleID int64, permissionIDs []int64) error
	ReplacePermissions(ctx context.Context, q store.Querier, roleID int64, permissionIDs []int64) error
	FindWithPermissions(ctx context.Context, q store.Querier, id int64) (*Role, error)
	ListWithPermissions(ctx context.Context, q store.Querier) ([]Role, error)
	Delete(ctx context.Context, q store.Querier, id int64) error
}

func ErrRoleNotFound() *internal.AppError {
	return internal.NewNotFoundError("Role not found", internal.ErrCodeRoleNotFound)
}
