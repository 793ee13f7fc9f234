package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/frahmantamala/org-admin/internal"
	"github.com/frahmantamala/org-admin/internal/transport"
	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = ginkgo.Describe("Auth Handler", func() {
	var (
		router   chi.Router
		service  *Service
		mockRepo *mockAccountRepository
	)

	ginkgo.BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		hasher := NewBcryptHasher(bcrypt.MinCost)
		mockRepo = newMockAccountRepository(hasher)
		service = NewService(mockRepo, NewJWTTokenGenerator("access", "refresh", time.Minute, time.Hour), hasher, slogger)

		base := transport.NewBaseHandler(slogger)
		handler := NewHandler(base, service)
		rbac := NewRBACAuthorization(base, service)

		router = chi.NewRouter()
		router.Post("/auth/login", handler.Login)
		router.Post("/auth/refresh", handler.RefreshToken)
		router.Group(func(r chi.Router) {
			r.Use(handler.AuthMiddleware)
			r.Post("/auth/change-password", handler.ChangePassword)
			r.With(rbac.RequireResource("users")).Get("/users", func(w http.ResponseWriter, r *http.Request) {
				session, _ := internal.SessionUserFromContext(r.Context())
				w.Header().Set("X-User", session.Email)
				w.WriteHeader(http.StatusOK)
			})
			r.With(rbac.RequireResource("users")).Post("/users", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusCreated)
			})
		})
	})

	do := func(method, path, body, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	login := func() LoginResult {
		w := do(http.MethodPost, "/auth/login", `{"identifier":"user@example.com","password":"correct_password"}`, "")
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
		var res LoginResult
		gomega.Expect(json.NewDecoder(w.Body).Decode(&res)).To(gomega.Succeed())
		return res
	}

	ginkgo.It("should answer 403 for a suspended account", func() {
		w := do(http.MethodPost, "/auth/login", `{"identifier":"suspended","password":"correct_password"}`, "")
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusForbidden))
		gomega.Expect(w.Body.String()).ToNot(gomega.ContainSubstring("access_token"))
	})

	ginkgo.It("should answer 400 for a malformed body", func() {
		w := do(http.MethodPost, "/auth/login", `{"identifier":`, "")
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusBadRequest))
	})

	ginkgo.It("should refresh with the refresh token", func() {
		res := login()
		w := do(http.MethodPost, "/auth/refresh", `{"refresh_token":"`+res.RefreshToken+`"}`, "")
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(w.Body.String()).To(gomega.ContainSubstring("access_token"))
	})

	ginkgo.It("should require a bearer token on protected routes", func() {
		w := do(http.MethodGet, "/users", "", "")
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))

		w = do(http.MethodGet, "/users", "", login().RefreshToken)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
	})

	ginkgo.It("should put the session user in the context and enforce role permissions", func() {
		token := login().AccessToken

		w := do(http.MethodGet, "/users", "", token)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(w.Header().Get("X-User")).To(gomega.Equal("user@example.com"))

		w = do(http.MethodPost, "/users", "{}", token)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusForbidden))
	})

	ginkgo.It("should change the password of the caller", func() {
		token := login().AccessToken

		w := do(http.MethodPost, "/auth/change-password", `{"old_password":"correct_password","new_password":"another-secret"}`, token)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusNoContent))
		gomega.Expect(mockRepo.updatedHash).To(gomega.HaveKey(int64(1)))

		_, err := service.Login(context.Background(), LoginDTO{Identifier: "user", Password: "another-secret"})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
	})
})
