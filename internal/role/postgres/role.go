package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/frahmantamala/org-admin/internal"
	"github.com/frahmantamala/org-admin/internal/core/sqlbind"
	"github.com/frahmantamala/org-admin/internal/core/store"
	"github.com/frahmantamala/org-admin/internal/permission"
	"github.com/frahmantamala/org-admin/internal/role"
	"github.com/jmoiron/sqlx"
)

const selectWithPermissions = `SELECT r.id, r.title, r.description, r.created_at, r.updated_at,
	json_agg(json_build_object('id', p.id, 'title', p.title, 'description', p.description,
		'created_at', p.created_at, 'updated_at', p.updated_at) ORDER BY p.id) AS permissions
FROM roles r
LEFT JOIN role_permissions rp ON rp.role_id = r.id
LEFT JOIN permissions p ON p.id = rp.permission_id`

const (
	FindWithPermissionsQuery = selectWithPermissions + "\nWHERE r.id = $1\nGROUP BY r.id"
	ListWithPermissionsQuery = selectWithPermissions + "\nGROUP BY r.id\nORDER BY r.created_at DESC"
)

type RoleRepository struct{}

func NewRoleRepository() *RoleRepository {
	return &RoleRepository{}
}

type roleRow struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
	Permissions []byte    `db:"permissions"`
}

// aggregatedPermission mirrors one json_build_object element. A role without join rows still
// produces a single element whose fields are all null.
type aggregatedPermission struct {
	ID          *int64     `json:"id"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

func aggregatePermissions(raw []byte) ([]permission.Permission, error) {
	out := make([]permission.Permission, 0)
	if len(raw) == 0 {
		return out, nil
	}
	var elems []aggregatedPermission
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, err
	}
	for _, e := range elems {
		if e.ID == nil {
			continue
		}
		p := permission.Permission{ID: *e.ID, Description: e.Description}
		if e.Title != nil {
			p.Title = *e.Title
		}
		if e.CreatedAt != nil {
			p.CreatedAt = *e.CreatedAt
		}
		if e.UpdatedAt != nil {
			p.UpdatedAt = *e.UpdatedAt
		}
		out = append(out, p)
	}
	return out, nil
}

func (row roleRow) toRole() (*role.Role, error) {
	perms, err := aggregatePermissions(row.Permissions)
	if err != nil {
		return nil, internal.NewInternalError("failed to decode role permissions", err)
	}
	return &role.Role{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Permissions: perms,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

func (r *RoleRepository) Insert(ctx context.Context, q store.Querier, values map[string]any) (int64, error) {
	cols, vals, err := role.Writable.Values(values)
	if err != nil {
		return 0, err
	}
	b := sqlbind.New()
	placeholders := append(b.BindAll(vals...), "NOW()", "NOW()")
	cols = append(cols, "created_at", "updated_at")

	stmt := "INSERT INTO roles (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(placeholders, ", ") + ") RETURNING id"
	var id int64
	if err := q.QueryRowxContext(ctx, stmt, b.Args()...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateFields always touches updated_at, so it also serves as the existence check for the role.
func (r *RoleRepository) UpdateFields(ctx context.Context, q store.Querier, id int64, values map[string]any) error {
	b := sqlbind.New()
	var sets []string
	if len(values) > 0 {
		var err error
		if sets, err = role.Writable.Assignments(values, b); err != nil {
			return err
		}
	}
	sets = append(sets, "updated_at = NOW()")

	stmt := "UPDATE roles SET " + strings.Join(sets, ", ") + " WHERE id = " + b.Bind(id)
	res, err := q.ExecContext(ctx, stmt, b.Args()...)
	if err != nil {
		return err
	}
	return store.ExpectAffected(res, role.ErrRoleNotFound())
}

// InsertPermissions writes every join row in one statement.
func (r *RoleRepository) InsertPermissions(ctx context.Context, q store.Querier, roleID int64, permissionIDs []int64) error {
	if len(permissionIDs) == 0 {
		return nil
	}
	b := sqlbind.New()
	tuples := make([]string, 0, len(permissionIDs))
	for _, pid := range permissionIDs {
		tuples = append(tuples, b.Tuple(roleID, pid))
	}
	stmt := "INSERT INTO role_permissions (role_id, permission_id) VALUES " + strings.Join(tuples, ", ")
	_, err := q.ExecContext(ctx, stmt, b.Args()...)
	return err
}

// ReplacePermissions removes every join row of the role before inserting the new set.
func (r *RoleRepository) ReplacePermissions(ctx context.Context, q store.Querier, roleID int64, permissionIDs []int64) error {
	if _, err := q.ExecContext(ctx, "DELETE FROM role_permissions WHERE role_id = $1", roleID); err != nil {
		return err
	}
	return r.InsertPermissions(ctx, q, roleID, permissionIDs)
}

func (r *RoleRepository) FindWithPermissions(ctx context.Context, q store.Querier, id int64) (*role.Role, error) {
	var row roleRow
	err := sqlx.GetContext(ctx, q, &row, FindWithPermissionsQuery, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, role.ErrRoleNotFound()
	}
	if err != nil {
		return nil, store.TranslateError(err)
	}
	return row.toRole()
}

func (r *RoleRepository) ListWithPermissions(ctx context.Context, q store.Querier) ([]role.Role, error) {
	var rows []roleRow
	if err := sqlx.SelectContext(ctx, q, &rows, ListWithPermissionsQuery); err != nil {
		return nil, store.TranslateError(err)
	}
	out := make([]role.Role, 0, len(rows))
	for _, row := range rows {
		rl, err := row.toRole()
		if err != nil {
			return nil, err
		}
		out = append(out, *rl)
	}
	return out, nil
}

func (r *RoleRepository) Delete(ctx context.Context, q store.Querier, id int64) error {
	res, err := q.ExecContext(ctx, "DELETE FROM roles WHERE id = $1", id)
	if err != nil {
		return store.TranslateError(err)
	}
	return store.TranslateError(store.ExpectAffected(res, role.ErrRoleNotFound()))
}
