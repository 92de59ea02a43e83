package department

import (
	"context"
	"net/http"
	"strings"

	"github.com/frahmantamala/office-management/internal"
	"github.com/frahmantamala/office-management/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]string, error)
	Overview(ctx context.Context) ([]DepartmentView, error)
	Add(ctx context.Context, name string) error
	Delete(ctx context.Context, name string) error
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

func (h *Handler) GetDepartments(w http.ResponseWriter, r *http.Request) {
	views, err := h.Service.Overview(r.Context())
	if err != nil {
		h.Logger.Error("GetDepartments: failed to load departments", "error", err)
		h.WriteAppError(w, internal.NewStoreError(err))
		return
	}
	h.WriteJSON(w, http.StatusOK, DepartmentsResponse{Departments: views})
}

func (h *Handler) PostDepartments(w http.ResponseWriter, r *http.Request) {
	if err := h.ParseForm(r); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	form := DepartmentForm{Action: h.Action(r), Name: strings.TrimSpace(r.PostFormValue("name"))}

	var err error
	switch form.Action {
	case "add":
		err = h.Service.Add(r.Context(), form.Name)
	case "delete":
		err = h.Service.Delete(r.Context(), form.Name)
	default:
		h.Logger.Warn("PostDepartments: unknown action", "action", form.Action)
	}

	if err != nil && !IsSkip(err) {
		h.Logger.Error("PostDepartments: mutation failed", "action", form.Action, "error", err)
		h.WriteAppError(w, internal.NewStoreError(err))
		return
	}
	if err != nil {
		h.Logger.Info("PostDepartments: request ignored", "action", form.Action, "name", form.Name, "reason", err)
	}
	h.Redirect(w, r, "/departments")
}
