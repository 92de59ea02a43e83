// Package visibility decides which records a viewer may see and narrows
// them by the page's query filters.
package visibility

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/frahmantamala/office-management/internal/auth"
	"github.com/frahmantamala/office-management/internal/core/user"
)

// ErrDepartmentNotPermitted is returned when a leader filters by a
// department they hold no view grant on.
var ErrDepartmentNotPermitted = errors.New("department not permitted for viewer")

// Filter is the query narrowing shared by every list page.
type Filter struct {
	Date       string `json:"date"`
	Member     string `json:"member,omitempty"`
	Department string `json:"department,omitempty"`
	Status     string `json:"status,omitempty"`
}

// FilterFromQuery reads date, member, department and status. The date falls
// back to global_date and then to today.
func FilterFromQuery(q url.Values, today string) Filter {
	date := strings.TrimSpace(q.Get("date"))
	if date == "" {
		date = strings.TrimSpace(q.Get("global_date"))
	}
	if date == "" {
		date = today
	}
	return Filter{
		Date:       date,
		Member:     strings.TrimSpace(q.Get("member")),
		Department: strings.TrimSpace(q.Get("department")),
		Status:     strings.TrimSpace(q.Get("status")),
	}
}

// Scope is the set of record owners a viewer may see after filtering.
// A nil owners set means "everyone".
type Scope struct {
	owners map[string]struct{}
}

func (s Scope) Contains(username string) bool {
	if s.owners == nil {
		return true
	}
	_, ok := s.owners[username]
	return ok
}

// Everyone reports whether the scope is unrestricted.
func (s Scope) Everyone() bool {
	return s.owners == nil
}

func (s Scope) Empty() bool {
	return s.owners != nil && len(s.owners) == 0
}

func only(names ...string) Scope {
	owners := make(map[string]struct{}, len(names))
	for _, n := range names {
		owners[n] = struct{}{}
	}
	return Scope{owners: owners}
}

// Resolve computes the record owners viewer may see under f.
//
// Members see only themselves. Admins see everyone, narrowed by the member
// and department filters. Leaders see users whose current department they
// may view; an explicit department filter outside that set yields an empty
// scope and ErrDepartmentNotPermitted.
func Resolve(viewer *user.User, users user.Directory, f Filter) (Scope, error) {
	if viewer == nil {
		return only(), nil
	}

	switch {
	case viewer.IsAdmin():
		return resolveAdmin(users, f), nil
	case viewer.IsLeader():
		return resolveLeader(viewer, users, f)
	default:
		return only(viewer.Username), nil
	}
}

// ResolveOrEmpty is Resolve for list pages: a refused department filter is
// logged and shown as an empty page.
func ResolveOrEmpty(ctx context.Context, logger *slog.Logger, viewer *user.User, users user.Directory, f Filter) Scope {
	scope, err := Resolve(viewer, users, f)
	if err != nil {
		logger.WarnContext(ctx, "department filter refused",
			"viewer", viewer.Username,
			"department", f.Department,
			"error", err)
	}
	return scope
}

func resolveAdmin(users user.Directory, f Filter) Scope {
	if f.Member == "" && f.Department == "" {
		return Scope{}
	}
	var names []string
	if f.Department != "" {
		names = users.InDepartment(f.Department)
	}
	if f.Member != "" {
		if f.Department != "" && !contains(names, f.Member) {
			return only()
		}
		names = []string{f.Member}
	}
	return only(names...)
}

func resolveLeader(viewer *user.User, users user.Directory, f Filter) (Scope, error) {
	if f.Department != "" && !auth.HasPermission(viewer, f.Department, user.ActionView) {
		return only(), ErrDepartmentNotPermitted
	}

	var names []string
	for _, u := range users.Sorted() {
		if f.Department != "" && u.Department != f.Department {
			continue
		}
		if !auth.HasPermission(viewer, u.Department, user.ActionView) {
			continue
		}
		if f.Member != "" && u.Username != f.Member {
			continue
		}
		names = append(names, u.Username)
	}
	return only(names...), nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// Apply keeps the items whose owner is in scope and that pass keep.
func Apply[T any](items []T, scope Scope, owner func(T) string, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if !scope.Contains(owner(item)) {
			continue
		}
		if keep != nil && !keep(item) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// MatchDate compares a stored date exactly. An empty want matches anything.
func MatchDate(stored, want string) bool {
	return want == "" || stored == want
}

// MatchDatePrefix matches timestamps such as "2024-03-01 09:30" against a day.
func MatchDatePrefix(stored, want string) bool {
	return want == "" || strings.HasPrefix(stored, want)
}
