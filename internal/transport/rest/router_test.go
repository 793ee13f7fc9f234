package rest_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/frahmantamala/org-admin/internal"
	"github.com/frahmantamala/org-admin/internal/auth"
	"github.com/frahmantamala/org-admin/internal/core/crud"
	"github.com/frahmantamala/org-admin/internal/core/query"
	"github.com/frahmantamala/org-admin/internal/transport"
	"github.com/frahmantamala/org-admin/internal/transport/rest"
	"github.com/frahmantamala/org-admin/internal/user"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "REST Suite")
}

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

type accounts struct{ titles []string }

func (a *accounts) FindByIdentifier(context.Context, string) (*auth.Account, error) {
	return nil, internal.NewNotFoundError("User not found", internal.ErrCodeUserNotFound)
}
func (a *accounts) FindByEmail(context.Context, string) (*auth.Account, error) {
	return nil, internal.NewNotFoundError("User not found", internal.ErrCodeUserNotFound)
}
func (a *accounts) FindByID(context.Context, int64) (*auth.Account, error) {
	return nil, internal.NewNotFoundError("User not found", internal.ErrCodeUserNotFound)
}
func (a *accounts) UpdatePassword(context.Context, int64, string) error { return nil }
func (a *accounts) PermissionTitles(context.Context, int64) ([]string, error) {
	return a.titles, nil
}

type users struct{ requested []int64 }

func (u *users) List(context.Context, crud.ListParams) (query.Result[user.User], error) {
	return query.Result[user.User]{Items: []user.User{}}, nil
}
func (u *users) Get(_ context.Context, id int64) (*user.User, error) {
	u.requested = append(u.requested, id)
	return &user.User{ID: id, Email: "jane@example.com"}, nil
}
func (u *users) Create(context.Context, map[string]any) (*user.User, error) {
	return &user.User{ID: 10}, nil
}
func (u *users) Update(_ context.Context, id int64, _ map[string]any) (*user.User, error) {
	return &user.User{ID: id}, nil
}
func (u *users) Delete(context.Context, int64) error { return nil }

var _ = Describe("RegisterAllRoutes", func() {
	var (
		router  *chi.Mux
		tokens  *auth.JWTTokenGenerator
		repo    *accounts
		userSvc *users
		ping    *pinger
	)

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		base := transport.NewBaseHandler(slogger)
		tokens = auth.NewJWTTokenGenerator("access", "refresh", time.Minute, time.Hour)
		repo = &accounts{titles: []string{"users.read"}}
		userSvc = &users{}
		ping = &pinger{}

		authSvc := auth.NewService(repo, tokens, auth.NewBcryptHasher(0), slogger)

		router = chi.NewRouter()
		rest.RegisterAllRoutes(router, rest.Handlers{
			Health: rest.NewHealthHandler(map[string]rest.Pinger{"postgres": ping}),
			Auth:   auth.NewHandler(base, authSvc),
			RBAC:   auth.NewRBACAuthorization(base, authSvc),
			Users:  user.NewHandler(base, userSvc),
		}, rest.Options{
			AllowedOrigins: []string{"*"},
			OpenAPISpec:    []byte("openapi: 3.0.3\n"),
		})
	})

	serve := func(method, path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	accessToken := func() string {
		role := int64(2)
		t, err := tokens.GenerateAccessToken(auth.Claims{ID: 7, Email: "jane@example.com", Role: &role})
		Expect(err).NotTo(HaveOccurred())
		return t
	}

	It("serves ping and health", func() {
		Expect(serve(http.MethodGet, "/api/v1/ping", "").Code).To(Equal(http.StatusOK))

		w := serve(http.MethodGet, "/api/v1/health", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"postgres"`))
	})

	It("reports an unhealthy component with 503", func() {
		ping.err = errors.New("connection refused")
		w := serve(http.MethodGet, "/api/v1/health", "")
		Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
		Expect(w.Body.String()).To(ContainSubstring("connection refused"))
	})

	It("serves the embedded OpenAPI document", func() {
		w := serve(http.MethodGet, "/openapi.yml", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(HavePrefix("openapi:"))
	})

	It("tags every response with a trace id", func() {
		Expect(serve(http.MethodGet, "/api/v1/ping", "").Header().Get("X-Trace-ID")).NotTo(BeEmpty())
	})

	It("requires a token for resource routes", func() {
		Expect(serve(http.MethodGet, "/api/v1/users", "").Code).To(Equal(http.StatusUnauthorized))
	})

	It("resolves /users/me to the caller instead of an id", func() {
		w := serve(http.MethodGet, "/api/v1/users/me", accessToken())
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(userSvc.requested).To(Equal([]int64{7}))
	})

	It("enforces resource permissions per method", func() {
		token := accessToken()
		Expect(serve(http.MethodGet, "/api/v1/users/3", token).Code).To(Equal(http.StatusOK))
		Expect(serve(http.MethodDelete, "/api/v1/users/3", token).Code).To(Equal(http.StatusForbidden))

		repo.titles = []string{auth.PermissionAdmin}
		Expect(serve(http.MethodDelete, "/api/v1/users/3", token).Code).To(Equal(http.StatusNoContent))
	})
})
