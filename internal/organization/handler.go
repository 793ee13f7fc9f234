package organization

import (
	"context"
	"net/http"

	"github.com/frahmantamala/org-admin/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GetByDomain(ctx context.Context, domain string) (*Organization, error)
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

func (h *Handler) GetByDomain(w http.ResponseWriter, r *http.Request) {
	org, err := h.Service.GetByDomain(r.Context(), chi.URLParam(r, "domain"))
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, org)
}
