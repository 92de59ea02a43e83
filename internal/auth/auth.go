package auth

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/office-management/internal/core/user"
)

type ctxKey string

const ContextIdentityKey ctxKey = "identity"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrSetupClosed        = errors.New("setup already completed")
)

// Identity is who a request claims to be. Username without User means the
// session names an account that no longer exists.
type Identity struct {
	Username string
	User     *user.User
}

func (i Identity) Authenticated() bool {
	return i.User != nil
}

func (i Identity) Stale() bool {
	return i.Username != "" && i.User == nil
}

// Session is an issued login.
type Session struct {
	Username  string
	Token     string
	ExpiresAt time.Time
}

func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ContextIdentityKey, id)
}

func IdentityFromContext(ctx context.Context) Identity {
	if ctx == nil {
		return Identity{}
	}
	id, _ := ctx.Value(ContextIdentityKey).(Identity)
	return id
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*user.User, bool) {
	id := IdentityFromContext(ctx)
	return id.User, id.Authenticated()
}
