package role_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/org-admin/internal"
	"github.com/frahmantamala/org-admin/internal/role"
	"github.com/frahmantamala/org-admin/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type recordingService struct {
	lastPatch *role.RolePatch
	lastID    int64
	err       error
}

func (s *recordingService) CreateRoleWithPermissions(_ context.Context, dto role.CreateRoleDTO) (*role.Role, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &role.Role{ID: 1, Title: dto.Title}, nil
}

func (s *recordingService) UpdateRoleWithPermissions(_ context.Context, id int64, patch role.RolePatch) (*role.Role, error) {
	s.lastID = id
	s.lastPatch = &patch
	if s.err != nil {
		return nil, s.err
	}
	return &role.Role{ID: id}, nil
}

func (s *recordingService) GetRoleWithPermissions(_ context.Context, id int64) (*role.Role, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &role.Role{ID: id}, nil
}

func (s *recordingService) ListRolesWithPermissions(context.Context) ([]role.Role, error) {
	return []role.Role{}, s.err
}

func (s *recordingService) DeleteRole(context.Context, int64) error {
	return s.err
}

var _ = Describe("Role Handler", func() {
	var (
		svc    *recordingService
		router chi.Router
	)

	BeforeEach(func() {
		svc = &recordingService{}
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		router = chi.NewRouter()
		router.Route("/roles", role.NewHandler(transport.NewBaseHandler(slogger), svc).Routes)
	})

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("distinguishes an explicit empty permission list from an absent one", func() {
		w := serve(http.MethodPatch, "/roles/4", `{"permissionIds": []}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(svc.lastID).To(Equal(int64(4)))
		Expect(svc.lastPatch.PermissionIDs).NotTo(BeNil())
		Expect(*svc.lastPatch.PermissionIDs).To(BeEmpty())

		w = serve(http.MethodPatch, "/roles/4", `{"title": "Ops"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(svc.lastPatch.PermissionIDs).To(BeNil())
		Expect(*svc.lastPatch.Title).To(Equal("Ops"))
	})

	It("creates roles with 201", func() {
		w := serve(http.MethodPost, "/roles", `{"title": "Ops", "permissionIds": [1, 2]}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Body.String()).To(ContainSubstring(`"title":"Ops"`))
	})

	It("renders service errors with their status", func() {
		svc.err = internal.NewNotFoundError("Role not found", internal.ErrCodeRoleNotFound)
		w := serve(http.MethodGet, "/roles/9", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(w.Body.String()).To(ContainSubstring("ROLE_NOT_FOUND"))
	})

	It("rejects a non-numeric id", func() {
		w := serve(http.MethodDelete, "/roles/abc", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
