package supplier

import (
	"log/slog"
	"time"

	"github.com/frahmantamala/org-admin/internal/core/crud"
	"github.com/frahmantamala/org-admin/internal/core/fields"
)

type Supplier struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Email         *string   `json:"email" db:"email"`
	Phone         *string   `json:"phone" db:"phone"`
	Address       *string   `json:"address" db:"address"`
	ContactPerson *string   `json:"contact_person" db:"contact_person"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

var (
	Writable = fields.Set{
		"name":           {Column: "name", Coerce: fields.String},
		"email":          {Column: "email", Coerce: fields.NullableString},
		"phone":          {Column: "phone", Coerce: fields.NullableString},
		"address":        {Column: "address", Coerce: fields.NullableString},
		"contact_person": {Column: "contact_person", Coerce: fields.NullableString},
	}

	Filters = fields.Set{
		"email": {Column: "email", Coerce: fields.String},
		"phone": {Column: "phone", Coerce: fields.String},
	}

	Sortable = fields.Set{
		"id":         {Column: "id"},
		"name":       {Column: "name"},
		"created_at": {Column: "created_at"},
		"updated_at": {Column: "updated_at"},
	}
)

func NewService(repo crud.ServiceAPI[Supplier], logger *slog.Logger) *crud.Service[Supplier] {
	return crud.NewService(repo, "supplier", logger)
}
