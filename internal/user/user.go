package user

import (
	"errors"
	"strings"
)

var (
	ErrNotFound          = errors.New("user not found")
	ErrExists            = errors.New("user already exists")
	ErrCannotDeleteAdmin = errors.New("admins cannot be deleted")
)

// PermissionFieldPrefix prefixes the multi-valued form field that carries
// the selected actions for one department, e.g. "perm_Finance".
const PermissionFieldPrefix = "perm_"

// IsIgnored reports whether err is a refused mutation the page silently skips.
func IsIgnored(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrExists) || errors.Is(err, ErrCannotDeleteAdmin)
}

// GrantsFromForm collects perm_<department> fields into a department -> actions map.
func GrantsFromForm(form map[string][]string) map[string][]string {
	grants := make(map[string][]string)
	for key, values := range form {
		if !strings.HasPrefix(key, PermissionFieldPrefix) {
			continue
		}
		dept := strings.TrimPrefix(key, PermissionFieldPrefix)
		if dept == "" {
			continue
		}
		grants[dept] = values
	}
	return grants
}
