package rest

import (
	"net/http"

	"github.com/frahmantamala/org-admin/internal/auth"
	"github.com/frahmantamala/org-admin/internal/core/crud"
	"github.com/frahmantamala/org-admin/internal/organization"
	"github.com/frahmantamala/org-admin/internal/permission"
	"github.com/frahmantamala/org-admin/internal/role"
	"github.com/frahmantamala/org-admin/internal/supplier"
	"github.com/frahmantamala/org-admin/internal/tag"
	"github.com/frahmantamala/org-admin/internal/transport/middleware"
	"github.com/frahmantamala/org-admin/internal/transport/swagger"
	"github.com/frahmantamala/org-admin/internal/user"
	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups everything RegisterAllRoutes mounts. Nil entries are skipped.
type Handlers struct {
	Health        *HealthHandler
	Auth          *auth.Handler
	RBAC          *auth.RBACAuthorization
	LoginLimiter  *middleware.RateLimiter
	Recovery      func(http.Handler) http.Handler
	Users         *user.Handler
	Roles         *role.Handler
	Permissions   *crud.Handler[permission.Permission]
	Suppliers     *crud.Handler[supplier.Supplier]
	Tags          *crud.Handler[tag.Tag]
	Organizations *organization.Handler
}

type Options struct {
	AllowedOrigins []string
	// MetricsPath is mounted with promhttp when non-empty.
	MetricsPath string
	OpenAPISpec []byte
}

func RegisterAllRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.RequestID)
	if h.Recovery != nil {
		router.Use(h.Recovery)
	}
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.Metrics)

	if len(opts.OpenAPISpec) > 0 {
		router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/yaml")
			_, _ = w.Write(opts.OpenAPISpec)
		})
		router.Handle("/swagger/*", swagger.Handler())
	}
	if opts.MetricsPath != "" {
		router.Handle(opts.MetricsPath, promhttp.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.healthCheckHandler)
			r.Get("/ping", h.Health.pingHandler)
		}

		if h.Organizations != nil {
			r.Get("/organizations/domain/{domain}", h.Organizations.GetByDomain)
		}

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(ar chi.Router) {
			ar.Group(func(pub chi.Router) {
				if h.LoginLimiter != nil {
					pub.Use(h.LoginLimiter.Middleware)
				}
				pub.Post("/login", h.Auth.Login)
				pub.Post("/refresh", h.Auth.RefreshToken)
			})
			ar.With(h.Auth.AuthMiddleware).Post("/change-password", h.Auth.ChangePassword)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.Users != nil {
				// registered before the /users subrouter so "me" is not parsed as an id
				pr.Get("/users/me", h.Users.GetMe)
				pr.With(guard(h.RBAC, "users")).Route("/users", h.Users.Routes)
			}
			if h.Roles != nil {
				pr.With(guard(h.RBAC, "roles")).Route("/roles", h.Roles.Routes)
			}
			if h.Permissions != nil {
				pr.With(guard(h.RBAC, "permissions")).Route("/permissions", h.Permissions.Routes)
			}
			if h.Suppliers != nil {
				pr.With(guard(h.RBAC, "suppliers")).Route("/suppliers", h.Suppliers.Routes)
			}
			if h.Tags != nil {
				pr.With(guard(h.RBAC, "tags")).Route("/tags", h.Tags.Routes)
			}
		})
	})
}

func guard(rbac *auth.RBACAuthorization, resource string) func(http.Handler) http.Handler {
	if rbac == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rbac.RequireResource(resource)
}
