package task

import (
	"context"
	"net/http"
	"strings"

	"github.com/frahmantamala/office-management/internal"
	"github.com/frahmantamala/office-management/internal/auth"
	"github.com/frahmantamala/office-management/internal/core/user"
	"github.com/frahmantamala/office-management/internal/transport"
	"github.com/frahmantamala/office-management/internal/visibility"
)

type ServiceAPI interface {
	Today() string
	Add(ctx context.Context, actor *user.User, dto AddTaskDTO) (Task, error)
	UpdateStatus(ctx context.Context, actor *user.User, dto UpdateTaskDTO) error
	Delete(ctx context.Context, actor *user.User, id string) error
	List(ctx context.Context, viewer *user.User, f visibility.Filter) (TasksView, error)
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

// GetTasks handles GET /tasks
func (h *Handler) GetTasks(w http.ResponseWriter, r *http.Request) {
	viewer, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	f := visibility.FilterFromQuery(r.URL.Query(), h.Service.Today())
	view, err := h.Service.List(r.Context(), viewer, f)
	if err != nil {
		h.Logger.Error("GetTasks: failed to list tasks", "error", err)
		h.WriteAppError(w, internal.NewStoreError(err))
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}

// PostTasks handles POST /tasks with action add, update or delete.
func (h *Handler) PostTasks(w http.ResponseWriter, r *http.Request) {
	viewer, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.ParseForm(r); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	var err error
	action := h.Action(r)
	switch action {
	case "add":
		_, err = h.Service.Add(r.Context(), viewer, AddTaskFromForm(r))
	case "update":
		err = h.Service.UpdateStatus(r.Context(), viewer, UpdateTaskFromForm(r))
	case "delete":
		err = h.Service.Delete(r.Context(), viewer, strings.TrimSpace(r.PostFormValue("id")))
	default:
		h.Logger.Warn("PostTasks: unknown action", "action", action)
	}

	if err != nil && !IsIgnored(err) {
		h.Logger.Error("PostTasks: mutation failed", "action", action, "error", err)
		h.WriteAppError(w, internal.NewStoreError(err))
		return
	}
	h.Redirect(w, r, "/tasks")
}
