package role

import (
	"context"
	"net/http"

	"github.com/frahmantamala/org-admin/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateRoleWithPermissions(ctx context.Context, dto CreateRoleDTO) (*Role, error)
	UpdateRoleWithPermissions(ctx context.Context, id int64, patch RolePatch) (*Role, error)
	GetRoleWithPermissions(ctx context.Context, id int64) (*Role, error)
	ListRolesWithPermissions(ctx context.Context) ([]Role, error)
	DeleteRole(ctx context.Context, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

type RolesResponse struct {
	Data []Role `json:"data"`
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Service.ListRolesWithPermissions(r.Context())
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, RolesResponse{Data: roles})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	role, err := h.Service.GetRoleWithPermissions(r.Context(), id)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, role)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateRoleDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	role, err := h.Service.CreateRoleWithPermissions(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, role)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	var patch RolePatch
	if err := h.DecodeJSON(r, &patch); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	role, err := h.Service.UpdateRoleWithPermissions(r.Context(), id, patch)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, role)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	if err := h.Service.DeleteRole(r.Context(), id); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
