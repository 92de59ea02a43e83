package attendance

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/frahmantamala/office-management/internal"
	"github.com/frahmantamala/office-management/internal/auth"
	"github.com/frahmantamala/office-management/internal/core/user"
	"github.com/frahmantamala/office-management/internal/transport"
	"github.com/frahmantamala/office-management/internal/visibility"
)

type ServiceAPI interface {
	Today() string
	CheckIn(ctx context.Context, username string) (bool, error)
	CheckOut(ctx context.Context, username string) (bool, error)
	List(ctx context.Context, viewer *user.User, f visibility.Filter) (AttendanceView, error)
	Export(ctx context.Context, viewer *user.User, f visibility.Filter, w io.Writer) (int, error)
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

// GetAttendance handles GET /attendance
func (h *Handler) GetAttendance(w http.ResponseWriter, r *http.Request) {
	viewer, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	f := visibility.FilterFromQuery(r.URL.Query(), h.Service.Today())
	view, err := h.Service.List(r.Context(), viewer, f)
	if err != nil {
		h.Logger.Error("GetAttendance: failed to list records", "error", err)
		h.WriteAppError(w, internal.NewStoreError(err))
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}

// PostAttendance handles POST /attendance with action check_in or check_out.
func (h *Handler) PostAttendance(w http.ResponseWriter, r *http.Request) {
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
	switch action := h.Action(r); action {
	case "check_in":
		_, err = h.Service.CheckIn(r.Context(), viewer.Username)
	case "check_out":
		_, err = h.Service.CheckOut(r.Context(), viewer.Username)
	default:
		h.Logger.Warn("PostAttendance: unknown action", "action", action)
	}
	if err != nil {
		h.Logger.Error("PostAttendance: mutation failed", "username", viewer.Username, "error", err)
		h.WriteAppError(w, internal.NewStoreError(err))
		return
	}
	h.Redirect(w, r, "/attendance")
}

// ExportAttendance handles GET /attendance/export
func (h *Handler) ExportAttendance(w http.ResponseWriter, r *http.Request) {
	viewer, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	f := visibility.FilterFromQuery(r.URL.Query(), h.Service.Today())
	var buf bytes.Buffer
	if _, err := h.Service.Export(r.Context(), viewer, f, &buf); err != nil {
		h.Logger.Error("ExportAttendance: failed to build workbook", "error", err)
		h.WriteAppError(w, internal.NewInternalError("failed to export attendance", err))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="attendance-%s.xlsx"`, f.Date))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.Error("ExportAttendance: failed to stream workbook", "error", err)
	}
}
