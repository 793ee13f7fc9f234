package postgres

import (
	"github.com/frahmantamala/org-admin/internal"
	"github.com/frahmantamala/org-admin/internal/core/crud"
	"github.com/frahmantamala/org-admin/internal/core/query"
	"github.com/frahmantamala/org-admin/internal/core/store"
	"github.com/frahmantamala/org-admin/internal/user"
)

// Columns is the profile projection. password_hash is never selected here.
var Columns = []string{
	"id", "name", "email", "username", "status", "organization_id", "role_id",
	"phone", "address", "city", "country", "created_at", "updated_at",
}

var Table = crud.Table{
	Name:          "users",
	Entity:        "User",
	NotFoundCode:  internal.ErrCodeUserNotFound,
	Columns:       Columns,
	SearchColumns: []string{"name", "email", "username"},
	Required:      []string{"name", "email", "username", user.PasswordHashField},
	Insertable:    user.Insertable(),
	Updatable:     user.Profile,
	Sortable:      user.Sortable,
}

func NewUserRepository(db *store.DB, builder *query.Builder) *crud.Repository[user.User] {
	return crud.NewRepository[user.User](db, builder, Table)
}
