package postgres

import (
	"github.com/frahmantamala/org-admin/internal"
	"github.com/frahmantamala/org-admin/internal/core/crud"
	"github.com/frahmantamala/org-admin/internal/core/query"
	"github.com/frahmantamala/org-admin/internal/core/store"
	"github.com/frahmantamala/org-admin/internal/permission"
)

var Table = crud.Table{
	Name:          "permissions",
	Entity:        "Permission",
	NotFoundCode:  internal.ErrCodePermissionNotFound,
	Columns:       []string{"id", "title", "description", "created_at", "updated_at"},
	SearchColumns: []string{"title", "description"},
	Required:      []string{"title"},
	Insertable:    permission.Writable,
	Updatable:     permission.Writable,
	Sortable:      permission.Sortable,
}

func NewPermissionRepository(db *store.DB, builder *query.Builder) *crud.Repository[permission.Permission] {
	return crud.NewRepository[permission.Permission](db, builder, Table)
}
