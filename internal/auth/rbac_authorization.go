package auth

import (
	"log/slog"
	"net/http"
)

// Decision is the outcome of a route guard.
type Decision int

const (
	Allowed Decision = iota
	Unauthenticated
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Authorize requires a live identity and, when roles are given, one of them.
func Authorize(id Identity, roles ...string) Decision {
	if !id.Authenticated() {
		return Unauthenticated
	}
	if len(roles) == 0 {
		return Allowed
	}
	for _, role := range roles {
		if id.User.Role == role {
			return Allowed
		}
	}
	return Forbidden
}

type RBACAuthorization struct {
	cookie    SessionCookie
	loginPath string
	logger    *slog.Logger
}

func NewRBACAuthorization(cookie SessionCookie, logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{
		cookie:    cookie,
		loginPath: "/login",
		logger:    logger,
	}
}

func (ra *RBACAuthorization) Check(next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := IdentityFromContext(r.Context())

		switch Authorize(id, roles...) {
		case Allowed:
			next.ServeHTTP(w, r)
		case Unauthenticated:
			if id.Stale() {
				ra.logger.WarnContext(r.Context(), "session names a deleted user, forcing logout", "username", id.Username)
				ra.cookie.Clear(w)
			}
			http.Redirect(w, r, ra.loginPath, http.StatusSeeOther)
		default:
			ra.logger.WarnContext(r.Context(), "access denied: role not permitted",
				"username", id.Username,
				"role", id.User.Role,
				"required_roles", roles)
			http.Error(w, "Unauthorized", http.StatusForbidden)
		}
	}
}

// RequireLogin lets through any live session.
func (ra *RBACAuthorization) RequireLogin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return ra.Check(next.ServeHTTP)
	}
}

// RequireRole lets through live sessions whose role is one of roles.
func (ra *RBACAuthorization) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return ra.Check(next.ServeHTTP, roles...)
	}
}
