package crud

import (
	"context"
	"net/http"

	"github.com/frahmantamala/org-admin/internal/core/fields"
	"github.com/frahmantamala/org-admin/internal/core/query"
	"github.com/frahmantamala/org-admin/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI[T any] interface {
	List(ctx context.Context, params ListParams) (query.Result[T], error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, input map[string]any) (*T, error)
	Update(ctx context.Context, id int64, patch map[string]any) (*T, error)
	Delete(ctx context.Context, id int64) error
}

// Handler exposes a ServiceAPI as GET/POST on "/" and GET/PATCH/DELETE on "/{id}".
type Handler[T any] struct {
	*transport.BaseHandler
	Service ServiceAPI[T]
	filters fields.Set
}

// NewHandler wires svc; filters is the allow-list of query-string filters accepted by List.
func NewHandler[T any](base *transport.BaseHandler, svc ServiceAPI[T], filters fields.Set) *Handler[T] {
	return &Handler[T]{BaseHandler: base, Service: svc, filters: filters}
}

func (h *Handler[T]) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *Handler[T]) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters, err := h.filters.Filters(q.Get)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	res, err := h.Service.List(r.Context(), ListParams{
		Search:     q.Get("search"),
		Filters:    filters,
		Pagination: query.ParsePagination(q.Get),
	})
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler[T]) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	item, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler[T]) Create(w http.ResponseWriter, r *http.Request) {
	var input map[string]any
	if err := h.DecodeJSON(r, &input); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	item, err := h.Service.Create(r.Context(), input)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	var patch map[string]any
	if err := h.DecodeJSON(r, &patch); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	item, err := h.Service.Update(r.Context(), id, patch)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.IDParam(r)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
