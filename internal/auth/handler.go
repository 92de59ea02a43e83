package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/office-management/internal"
	"github.com/frahmantamala/office-management/internal/core/user"
	"github.com/frahmantamala/office-management/internal/transport"
	"github.com/frahmantamala/office-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Cookie  SessionCookie
}

func NewHandler(svc ServiceAPI, cookie SessionCookie, lg *slog.Logger) *Handler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		Cookie:      cookie,
	}
}

// Index sends the visitor to the page matching their state.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	required, err := h.Service.SetupRequired(r.Context())
	if err != nil {
		h.WriteAppError(w, internal.NewStoreError(err))
		return
	}
	if required {
		h.Redirect(w, r, "/setup")
		return
	}

	id := IdentityFromContext(r.Context())
	if !id.Authenticated() {
		if id.Stale() {
			h.Cookie.Clear(w)
		}
		h.Redirect(w, r, "/login")
		return
	}

	switch id.User.Role {
	case user.RoleAdmin:
		h.Redirect(w, r, "/admin")
	case user.RoleLeader:
		h.Redirect(w, r, "/leader")
	default:
		h.Redirect(w, r, "/member")
	}
}

func (h *Handler) SetupPage(w http.ResponseWriter, r *http.Request) {
	if !h.setupOpen(w, r) {
		return
	}
	h.WriteJSON(w, http.StatusOK, SetupView{Page: "setup"})
}

func (h *Handler) Setup(w http.ResponseWriter, r *http.Request) {
	if !h.setupOpen(w, r) {
		return
	}
	if err := h.ParseForm(r); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	err := h.Service.Setup(r.Context(), SetupFromForm(r))
	if err != nil {
		if errors.Is(err, ErrSetupClosed) {
			h.Redirect(w, r, "/login")
			return
		}
		if _, ok := internal.IsAppError(err); ok {
			h.WriteAppError(w, err)
			return
		}
		h.Logger.Error("Handler: setup failed", "error", err)
		h.WriteAppError(w, internal.NewStoreError(err))
		return
	}

	h.Redirect(w, r, "/login")
}

// setupOpen redirects to /login once any account exists.
func (h *Handler) setupOpen(w http.ResponseWriter, r *http.Request) bool {
	required, err := h.Service.SetupRequired(r.Context())
	if err != nil {
		h.WriteAppError(w, internal.NewStoreError(err))
		return false
	}
	if !required {
		h.Redirect(w, r, "/login")
		return false
	}
	return true
}

// setupPending redirects to /setup while no account exists.
func (h *Handler) setupPending(w http.ResponseWriter, r *http.Request) bool {
	required, err := h.Service.SetupRequired(r.Context())
	if err != nil {
		h.WriteAppError(w, internal.NewStoreError(err))
		return true
	}
	if required {
		h.Redirect(w, r, "/setup")
		return true
	}
	return false
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.setupPending(w, r) {
		return
	}
	h.WriteJSON(w, http.StatusOK, LoginView{Page: "login"})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.setupPending(w, r) {
		return
	}
	if err := h.ParseForm(r); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	dto := LoginFromForm(r)
	session, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			h.Logger.Warn("Handler: login rejected", "username", dto.Username)
			h.WriteJSON(w, http.StatusUnauthorized, LoginView{Page: "login", Flash: "Invalid credentials"})
			return
		}
		h.Logger.Error("Handler: login failed", "error", err)
		h.WriteAppError(w, internal.NewStoreError(err))
		return
	}

	h.Cookie.Write(w, session)
	h.Redirect(w, r, "/")
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Cookie.Clear(w)
	h.Redirect(w, r, "/login")
}

// IdentityMiddleware resolves the session cookie into an Identity on the
// request context. It never writes to the store.
func (h *Handler) IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := h.Service.ResolveSession(r.Context(), h.Cookie.Read(r))
		if err != nil {
			h.Logger.Error("identity middleware: failed to resolve session", "error", err)
			h.WriteAppError(w, internal.NewStoreError(err))
			return
		}

		ctx := ContextWithIdentity(r.Context(), id)
		if id.Username != "" {
			ctx = internal.ContextWithUsername(ctx, id.Username)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
