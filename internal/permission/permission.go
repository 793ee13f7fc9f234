package permission

import (
	"log/slog"
	"time"

	"github.com/frahmantamala/org-admin/internal/core/crud"
	"github.com/frahmantamala/org-admin/internal/core/fields"
)

type Permission struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

var (
	Writable = fields.Set{
		"title":       {Column: "title", Coerce: fields.String},
		"description": {Column: "description", Coerce: fields.NullableString},
	}

	Filters = fields.Set{
		"title": {Column: "title", Coerce: fields.String},
	}

	Sortable = fields.Set{
		"id":         {Column: "id"},
		"title":      {Column: "title"},
		"created_at": {Column: "created_at"},
		"updated_at": {Column: "updated_at"},
	}
)

func NewService(repo crud.ServiceAPI[Permission], logger *slog.Logger) *crud.Service[Permission] {
	return crud.NewService(repo, "permission", logger)
}
