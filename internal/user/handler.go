package user

import (
	"net/http"

	"github.com/frahmantamala/org-admin/internal"
	"github.com/frahmantamala/org-admin/internal/core/crud"
	"github.com/frahmantamala/org-admin/internal/transport"
)

type Handler struct {
	*crud.Handler[User]
}

func NewHandler(baseHandler *transport.BaseHandler, service crud.ServiceAPI[User]) *Handler {
	return &Handler{Handler: crud.NewHandler(baseHandler, service, Filters)}
}

// GetMe returns the profile of the authenticated caller.
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	session, ok := internal.SessionUserFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, r, internal.ErrInvalidToken)
		return
	}

	u, err := h.Service.Get(r.Context(), session.ID)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}
