// Package crud implements the single-table CRUD used by permissions, suppliers, tags and users on top
// of the field descriptor tables, the query builder and the transactional scope.
package crud

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/frahmantamala/org-admin/internal"
	"github.com/frahmantamala/org-admin/internal/core/fields"
	"github.com/frahmantamala/org-admin/internal/core/query"
	"github.com/frahmantamala/org-admin/internal/core/sqlbind"
	"github.com/frahmantamala/org-admin/internal/core/store"
	"github.com/jmoiron/sqlx"
)

// Table describes one entity table. Every field set doubles as the allow-list for its purpose.
type Table struct {
	Name          string
	Entity        string
	NotFoundCode  internal.ErrorCode
	Columns       []string
	SearchColumns []string
	Required      []string
	Insertable    fields.Set
	Updatable     fields.Set
	Sortable      fields.Set
}

type ListParams struct {
	Search     string
	Filters    map[string]any
	Pagination query.Pagination
}

type Repository[T any] struct {
	db      *store.DB
	builder *query.Builder
	table   Table
}

func NewRepository[T any](db *store.DB, builder *query.Builder, table Table) *Repository[T] {
	if builder == nil {
		builder = query.NewBuilder(query.DefaultLimit, 0)
	}
	return &Repository[T]{db: db, builder: builder, table: table}
}

func (r *Repository[T]) NotFound() *internal.AppError {
	return internal.NewNotFoundError(r.table.Entity+" not found", r.table.NotFoundCode)
}

func (r *Repository[T]) selectByID() string {
	return "SELECT " + strings.Join(r.table.Columns, ", ") + " FROM " + r.table.Name + " WHERE id = $1"
}

func (r *Repository[T]) get(ctx context.Context, q store.Querier, id int64) (*T, error) {
	var out T
	err := sqlx.GetContext(ctx, q, &out, r.selectByID(), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.NotFound()
	}
	if err != nil {
		return nil, store.TranslateError(err)
	}
	return &out, nil
}

func (r *Repository[T]) Get(ctx context.Context, id int64) (*T, error) {
	return r.get(ctx, r.db, id)
}

func (r *Repository[T]) List(ctx context.Context, params ListParams) (query.Result[T], error) {
	p := params.Pagination
	p.SortBy = r.table.Sortable.Column(p.SortBy, query.DefaultSortBy)

	plan := r.builder.Build(query.Request{
		Table:         r.table.Name,
		Columns:       r.table.Columns,
		SearchColumns: r.table.SearchColumns,
		Search:        params.Search,
		Filters:       params.Filters,
		Pagination:    p,
	})

	res, err := query.Run[T](ctx, r.db, plan)
	if err != nil {
		return query.Result[T]{}, store.TranslateError(err)
	}
	return res, nil
}

// Create inserts the row and reads it back inside one transaction.
func (r *Repository[T]) Create(ctx context.Context, input map[string]any) (*T, error) {
	for _, name := range r.table.Required {
		if v, ok := input[name]; !ok || v == nil {
			return nil, internal.NewValidationFieldError(name, name+" is required", internal.ErrCodeValidationFailed)
		}
	}
	cols, vals, err := r.table.Insertable.Values(input)
	if err != nil {
		return nil, err
	}

	b := sqlbind.New()
	placeholders := b.BindAll(vals...)
	cols = append(cols, "created_at", "updated_at")
	placeholders = append(placeholders, "NOW()", "NOW()")

	stmt := "INSERT INTO " + r.table.Name + " (" + strings.Join(cols, ", ") + ") VALUES (" +
		strings.Join(placeholders, ", ") + ") RETURNING id"

	var created *T
	err = r.db.InTx(ctx, func(q store.Querier) error {
		var id int64
		if err := q.QueryRowxContext(ctx, stmt, b.Args()...).Scan(&id); err != nil {
			return err
		}
		row, err := r.get(ctx, q, id)
		if err != nil {
			return err
		}
		created = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update writes only the supplied fields plus updated_at, then re-reads the row.
func (r *Repository[T]) Update(ctx context.Context, id int64, patch map[string]any) (*T, error) {
	b := sqlbind.New()
	sets, err := r.table.Updatable.Assignments(patch, b)
	if err != nil {
		return nil, err
	}
	sets = append(sets, "updated_at = NOW()")
	stmt := "UPDATE " + r.table.Name + " SET " + strings.Join(sets, ", ") + " WHERE id = " + b.Bind(id)

	res, err := r.db.ExecContext(ctx, stmt, b.Args()...)
	if err != nil {
		return nil, store.TranslateError(err)
	}
	if err := store.ExpectAffected(res, r.NotFound()); err != nil {
		return nil, store.TranslateError(err)
	}
	return r.Get(ctx, id)
}

func (r *Repository[T]) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM "+r.table.Name+" WHERE id = $1", id)
	if err != nil {
		return store.TranslateError(err)
	}
	return store.TranslateError(store.ExpectAffected(res, r.NotFound()))
}
