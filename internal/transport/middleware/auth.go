package middleware

import (
	"net/http"

	"github.com/frahmantamala/office-management/internal"
	"github.com/frahmantamala/office-management/pkg/logger"
)

// UserContext tags the request logger with the resolved username. It runs
// after the identity middleware; anonymous requests are left untagged.
func UserContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username := internal.UsernameFromContext(r.Context())
		if username == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := logger.With(r.Context(), "username", username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
