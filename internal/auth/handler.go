package auth

import (
	"context"
	"net/http"

	"github.com/frahmantamala/org-admin/internal"
	"github.com/frahmantamala/org-admin/internal/transport"
	"github.com/frahmantamala/org-admin/pkg/logger"
)

type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error)
	ChangePassword(ctx context.Context, userID int64, dto ChangePasswordDTO) error
	ValidateAccessToken(token string) (*Claims, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	res, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	res, err := h.Service.Refresh(r.Context(), dto.RefreshToken)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	session, ok := internal.SessionUserFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, r, internal.ErrInvalidToken)
		return
	}

	var dto ChangePasswordDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	if err := h.Service.ChangePassword(r.Context(), session.ID, dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteAppError(w, r, internal.NewUnauthorizedError("missing authorization token", internal.ErrCodeInvalidToken))
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.WriteAppError(w, r, err)
			return
		}

		session := internal.SessionUser{ID: claims.ID, Email: claims.Email}
		if claims.Role != nil {
			session.RoleID = *claims.Role
		}
		if claims.OrganizationID != nil {
			session.OrganizationID = *claims.OrganizationID
		}

		ctx := internal.ContextWithSessionUser(r.Context(), session)
		ctx = logger.With(ctx, "user_id", session.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
