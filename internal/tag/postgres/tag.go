package postgres

import (
	"github.com/frahmantamala/org-admin/internal"
	"github.com/frahmantamala/org-admin/internal/core/crud"
	"github.com/frahmantamala/org-admin/internal/core/query"
	"github.com/frahmantamala/org-admin/internal/core/store"
	"github.com/frahmantamala/org-admin/internal/tag"
)

var Table = crud.Table{
	Name:          "tags",
	Entity:        "Tag",
	NotFoundCode:  internal.ErrCodeTagNotFound,
	Columns:       []string{"id", "name", "description", "created_at", "updated_at"},
	SearchColumns: []string{"name", "description"},
	Required:      []string{"name"},
	Insertable:    tag.Writable,
	Updatable:     tag.Writable,
	Sortable:      tag.Sortable,
}

func NewTagRepository(db *store.DB, builder *query.Builder) *crud.Repository[tag.Tag] {
	return crud.NewRepository[tag.Tag](db, builder, Table)
}
