package notice

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/frahmantamala/office-management/internal"
	"github.com/frahmantamala/office-management/internal/auth"
	"github.com/frahmantamala/office-management/internal/core/user"
	"github.com/frahmantamala/office-management/internal/transport"
)

type ServiceAPI interface {
	Today() string
	Send(ctx context.Context, sender string, dto SendNoticeDTO) (Notice, error)
	Delete(ctx context.Context, actor, id string) error
	List(ctx context.Context, viewer *user.User, date string) (NoticesView, error)
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

// GetNotices handles GET /notices
func (h *Handler) GetNotices(w http.ResponseWriter, r *http.Request) {
	viewer, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	view, err := h.Service.List(r.Context(), viewer, h.SelectedDate(r, h.Service.Today()))
	if err != nil {
		h.Logger.Error("GetNotices: failed to list notices", "error", err)
		h.WriteAppError(w, internal.NewStoreError(err))
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}

// PostNotices handles POST /notices. The route is admin-only.
func (h *Handler) PostNotices(w http.ResponseWriter, r *http.Request) {
	if err := h.ParseForm(r); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	actor := internal.UsernameFromContext(r.Context())

	var err error
	action := h.Action(r)
	switch action {
	case "send":
		_, err = h.Service.Send(r.Context(), actor, SendNoticeFromForm(r))
	case "delete":
		err = h.Service.Delete(r.Context(), actor, strings.TrimSpace(r.PostFormValue("id")))
	default:
		h.Logger.Warn("PostNotices: unknown action", "action", action)
	}

	if errors.Is(err, ErrNoticeNotFound) {
		h.Logger.Info("PostNotices: request ignored", "action", action, "reason", err)
		err = nil
	}
	if err != nil {
		h.Logger.Error("PostNotices: mutation failed", "action", action, "error", err)
		h.WriteAppError(w, internal.NewStoreError(err))
		return
	}
	h.Redirect(w, r, "/notices")
}
