package user

import (
	"context"
	"net/http"
	"strings"

	"github.com/frahmantamala/office-management/internal"
	"github.com/frahmantamala/office-management/internal/auth"
	coreuser "github.com/frahmantamala/office-management/internal/core/user"
	"github.com/frahmantamala/office-management/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context) (UsersView, error)
	Add(ctx context.Context, actor string, dto AddUserDTO) error
	Delete(ctx context.Context, actor, username string) error
	ResetPassword(ctx context.Context, actor string, dto ResetPasswordDTO) error
	UpdatePermissions(ctx context.Context, actor string, dto UpdatePermissionsDTO) error
	Profile(ctx context.Context, username string) (coreuser.Profile, error)
	UpdateProfile(ctx context.Context, username string, dto ProfileDTO) error
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

// GetUsers handles GET /users
func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.List(r.Context())
	if err != nil {
		h.Logger.Error("GetUsers: failed to list users", "error", err)
		h.WriteAppError(w, internal.NewStoreError(err))
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}

// PostUsers handles POST /users
func (h *Handler) PostUsers(w http.ResponseWriter, r *http.Request) {
	if err := h.ParseForm(r); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	actor := internal.UsernameFromContext(r.Context())
	action := h.Action(r)
	username := strings.TrimSpace(r.PostFormValue("username"))

	var err error
	switch action {
	case "add":
		err = h.Service.Add(r.Context(), actor, AddUserFromForm(r))
	case "delete":
		err = h.Service.Delete(r.Context(), actor, username)
	case "reset_password":
		err = h.Service.ResetPassword(r.Context(), actor, ResetPasswordDTO{
			Username: username,
			Password: r.PostFormValue("password"),
		})
	case "update_permissions":
		err = h.Service.UpdatePermissions(r.Context(), actor, UpdatePermissionsDTO{
			Username: username,
			Grants:   GrantsFromForm(r.PostForm),
		})
	default:
		h.Logger.Warn("PostUsers: unknown action", "action", action)
	}

	if !h.handleMutationError(w, "PostUsers", action, err) {
		return
	}
	h.Redirect(w, r, "/users")
}

// GetProfile handles GET /profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := h.Service.Profile(r.Context(), current.Username)
	if err != nil {
		h.Logger.Error("GetProfile: failed to load profile", "username", current.Username, "error", err)
		h.WriteAppError(w, internal.NewStoreError(err))
		return
	}
	h.WriteJSON(w, http.StatusOK, ProfileView{Profile: profile})
}

// PostProfile handles POST /profile
func (h *Handler) PostProfile(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.ParseForm(r); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	err := h.Service.UpdateProfile(r.Context(), current.Username, ProfileFromForm(r))
	if !h.handleMutationError(w, "PostProfile", "update", err) {
		return
	}
	h.Redirect(w, r, "/profile")
}

// handleMutationError writes a response for real failures and reports
// whether the caller should continue with its redirect.
func (h *Handler) handleMutationError(w http.ResponseWriter, op, action string, err error) bool {
	if err == nil {
		return true
	}
	if IsIgnored(err) {
		h.Logger.Info(op+": request ignored", "action", action, "reason", err)
		return true
	}
	if appErr, ok := internal.IsAppError(err); ok {
		h.WriteAppError(w, appErr)
		return false
	}
	h.Logger.Error(op+": mutation failed", "action", action, "error", err)
	h.WriteAppError(w, internal.NewStoreError(err))
	return false
}
