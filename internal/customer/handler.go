package customer

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
	List(ctx context.Context, viewer *user.User) (CustomersView, error)
	Add(ctx context.Context, actor string, dto AddCustomerDTO) (Customer, error)
	UpdatePayment(ctx context.Context, actor string, dto WeekUpdateDTO) error
	UpdateInvoice(ctx context.Context, actor string, dto WeekUpdateDTO) error
	Delete(ctx context.Context, actor, id string) error
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

// GetCustomers handles GET /customers
func (h *Handler) GetCustomers(w http.ResponseWriter, r *http.Request) {
	viewer, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	view, err := h.Service.List(r.Context(), viewer)
	if err != nil {
		h.Logger.Error("GetCustomers: failed to list customers", "error", err)
		h.WriteAppError(w, internal.NewStoreError(err))
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}

// PostCustomers handles POST /customers. The route is admin-only.
func (h *Handler) PostCustomers(w http.ResponseWriter, r *http.Request) {
	if err := h.ParseForm(r); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	actor := internal.UsernameFromContext(r.Context())

	var err error
	action := h.Action(r)
	switch action {
	case "add":
		_, err = h.Service.Add(r.Context(), actor, AddCustomerFromForm(r))
	case "update_payment":
		err = h.Service.UpdatePayment(r.Context(), actor, WeekUpdateFromForm(r))
	case "update_invoice":
		err = h.Service.UpdateInvoice(r.Context(), actor, WeekUpdateFromForm(r))
	case "delete":
		err = h.Service.Delete(r.Context(), actor, strings.TrimSpace(r.PostFormValue("id")))
	default:
		h.Logger.Warn("PostCustomers: unknown action", "action", action)
	}

	if errors.Is(err, ErrCustomerNotFound) {
		h.Logger.Info("PostCustomers: request ignored", "action", action, "reason", err)
		err = nil
	}
	if err != nil {
		h.Logger.Error("PostCustomers: mutation failed", "action", action, "error", err)
		h.WriteAppError(w, internal.NewStoreError(err))
		return
	}
	h.Redirect(w, r, "/customers")
}
