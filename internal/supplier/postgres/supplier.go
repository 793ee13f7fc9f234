package postgres

import (
	"github.com/frahmantamala/org-admin/internal"
	"github.com/frahmantamala/org-admin/internal/core/crud"
	"github.com/frahmantamala/org-admin/internal/core/query"
	"github.com/frahmantamala/org-admin/internal/core/store"
	"github.com/frahmantamala/org-admin/internal/supplier"
)

var Table = crud.Table{
	Name:          "suppliers",
	Entity:        "Supplier",
	NotFoundCode:  internal.ErrCodeSupplierNotFound,
	Columns:       []string{"id", "name", "email", "phone", "address", "contact_person", "created_at", "updated_at"},
	SearchColumns: []string{"name", "email", "contact_person"},
	Required:      []string{"name"},
	Insertable:    supplier.Writable,
	Updatable:     supplier.Writable,
	Sortable:      supplier.Sortable,
}

func NewSupplierRepository(db *store.DB, builder *query.Builder) *crud.Repository[supplier.Supplier] {
	return crud.NewRepository[supplier.Supplier](db, builder, Table)
}
