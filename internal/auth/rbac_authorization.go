package auth

import (
	"context"
	"net/http"

	"github.com/frahmantamala/org-admin/internal"
	"github.com/frahmantamala/org-admin/internal/transport"
)

// PermissionAdmin grants every permission.
const PermissionAdmin = "admin"

type PermissionLookup interface {
	PermissionTitles(ctx context.Context, roleID int64) ([]string, error)
}

// RBACAuthorization checks the permission titles linked to the caller's role. It runs after
// AuthMiddleware has put the session user in the context.
type RBACAuthorization struct {
	*transport.BaseHandler
	lookup PermissionLookup
}

func NewRBACAuthorization(base *transport.BaseHandler, lookup PermissionLookup) *RBACAuthorization {
	return &RBACAuthorization{BaseHandler: base, lookup: lookup}
}

func HasAnyPermission(granted []string, required ...string) bool {
	for _, g := range granted {
		if g == PermissionAdmin {
			return true
		}
		for _, r := range required {
			if g == r {
				return true
			}
		}
	}
	return false
}

func (ra *RBACAuthorization) Check(next http.HandlerFunc, permission string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := internal.SessionUserFromContext(r.Context())
		if !ok {
			ra.WriteAppError(w, r, internal.ErrInvalidToken)
			return
		}

		var granted []string
		if session.RoleID > 0 {
			titles, err := ra.lookup.PermissionTitles(r.Context(), session.RoleID)
			if err != nil {
				ra.WriteAppError(w, r, err)
				return
			}
			granted = titles
		}

		if !HasAnyPermission(granted, permission) {
			ra.Logger.Warn("access denied: insufficient permissions",
				"user_id", session.ID,
				"role_id", session.RoleID,
				"required_permission", permission)
			ra.WriteAppError(w, r, internal.NewForbiddenError("insufficient permissions", internal.ErrCodeInsufficientAccess))
			return
		}

		next.ServeHTTP(w, r)
	}
}

func (ra *RBACAuthorization) Middleware(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return ra.Check(next.ServeHTTP, permission)
	}
}

// RequireResource demands "<resource>.read" for safe methods and "<resource>.write" otherwise.
func (ra *RBACAuthorization) RequireResource(resource string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		read := ra.Check(next.ServeHTTP, resource+".read")
		write := ra.Check(next.ServeHTTP, resource+".write")
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				read(w, r)
			default:
				write(w, r)
			}
		})
	}
}
