package postgres

import (
	"context"
	"strings"

	"github.com/frahmantamala/org-admin/internal"
	"github.com/frahmantamala/org-admin/internal/auth"
	userPostgres "github.com/frahmantamala/org-admin/internal/user/postgres"
	"gorm.io/gorm"
)

var selectAccount = "SELECT " +
	strings.Join(append(append([]string{}, userPostgres.Columns...), "password_hash"), ", ") +
	" FROM users "

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func errUserNotFound() *internal.AppError {
	return internal.NewNotFoundError("User not found", internal.ErrCodeUserNotFound)
}

func (r *Repository) find(ctx context.Context, query string, args ...any) (*auth.Account, error) {
	var acct auth.Account
	res := r.db.WithContext(ctx).Raw(query, args...).Scan(&acct)
	if res.Error != nil {
		return nil, internal.NewInternalError("failed to load user", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errUserNotFound()
	}
	return &acct, nil
}

// FindByIdentifier matches the email or the username. When one user's email equals another
// user's username, the email match wins.
func (r *Repository) FindByIdentifier(ctx context.Context, identifier string) (*auth.Account, error) {
	return r.find(ctx, selectAccount+`WHERE (email = ? OR username = ?)
	             ORDER BY CASE WHEN email = ? THEN 0 ELSE 1 END
	             LIMIT 1`,
		identifier, identifier, identifier)
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	return r.find(ctx, selectAccount+"WHERE email = ?", email)
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*auth.Account, error) {
	return r.find(ctx, selectAccount+"WHERE id = ?", id)
}

func (r *Repository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	res := r.db.WithContext(ctx).Exec("UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", hash, id)
	if res.Error != nil {
		return internal.NewInternalError("failed to update password", res.Error)
	}
	if res.RowsAffected == 0 {
		return errUserNotFound()
	}
	return nil
}

func (r *Repository) PermissionTitles(ctx context.Context, roleID int64) ([]string, error) {
	titles := make([]string, 0)
	err := r.db.WithContext(ctx).Raw(`SELECT p.title
	             FROM permissions p
	             JOIN role_permissions rp ON p.id = rp.permission_id
	             WHERE rp.role_id = ?
	             ORDER BY p.title`, roleID).Scan(&titles).Error
	if err != nil {
		return nil, internal.NewInternalError("failed to load role permissions", err)
	}
	return titles, nil
}
