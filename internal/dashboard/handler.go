package dashboard

import (
	"context"
	"net/http"

	"github.com/frahmantamala/office-management/internal"
	"github.com/frahmantamala/office-management/internal/auth"
	"github.com/frahmantamala/office-management/internal/core/user"
	"github.com/frahmantamala/office-management/internal/transport"
)

type ServiceAPI interface {
	Today() string
	Admin(ctx context.Context, viewer *user.User, date string) (Dashboard, error)
	Leader(ctx context.Context, viewer *user.User, date string) (Dashboard, error)
	Member(ctx context.Context, viewer *user.User, date string) (Dashboard, error)
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

type builder func(ctx context.Context, viewer *user.User, date string) (Dashboard, error)

// GetAdmin handles GET /admin
func (h *Handler) GetAdmin(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "GetAdmin", h.Service.Admin)
}

// GetLeader handles GET /leader
func (h *Handler) GetLeader(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "GetLeader", h.Service.Leader)
}

// GetMember handles GET /member
func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "GetMember", h.Service.Member)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, op string, build builder) {
	viewer, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	date := h.SelectedDate(r, h.Service.Today())
	d, err := build(r.Context(), viewer, date)
	if err != nil {
		h.Logger.Error(op+": failed to build dashboard", "username", viewer.Username, "error", err)
		h.WriteAppError(w, internal.NewStoreError(err))
		return
	}
	h.WriteJSON(w, http.StatusOK, d)
}
