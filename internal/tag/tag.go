package tag

import (
	"log/slog"
	"time"

	"github.com/frahmantamala/org-admin/internal/core/crud"
	"github.com/frahmantamala/org-admin/internal/core/fields"
)

type Tag struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

var (
	Writable = fields.Set{
		"name":        {Column: "name", Coerce: fields.String},
		"description": {Column: "description", Coerce: fields.NullableString},
	}

	Filters = fields.Set{
		"name": {Column: "name", Coerce: fields.String},
	}

	Sortable = fields.Set{
		"id":         {Column: "id"},
		"name":       {Column: "name"},
		"created_at": {Column: "created_at"},
		"updated_at": {Column: "updated_at"},
	}
)

func NewService(repo crud.ServiceAPI[Tag], logger *slog.Logger) *crud.Service[Tag] {
	return crud.NewService(repo, "tag", logger)
}
