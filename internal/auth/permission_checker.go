package auth

import "github.com/frahmantamala/office-management/internal/core/user"

// HasPermission decides whether u may perform action on records of
// department. Admins always may; leaders may within their own department;
// anyone else needs an explicit grant of action or "all".
func HasPermission(u *user.User, department, action string) bool {
	if u == nil {
		return false
	}
	if u.IsAdmin() {
		return true
	}
	if u.IsLeader() && u.Department == department {
		return true
	}
	for _, granted := range u.Actions(department) {
		if granted == action || granted == user.ActionAll {
			return true
		}
	}
	return false
}

// PermittedDepartments filters departments down to those where u holds action.
func PermittedDepartments(u *user.User, departments []string, action string) []string {
	out := make([]string, 0, len(departments))
	for _, d := range departments {
		if HasPermission(u, d, action) {
			out = append(out, d)
		}
	}
	return out
}

// CanAssignTo reports whether actor may hand a task to assignee.
func CanAssignTo(actor, assignee *user.User) bool {
	if actor == nil || assignee == nil {
		return false
	}
	if actor.Username == assignee.Username || actor.IsAdmin() {
		return true
	}
	return actor.IsLeader() && HasPermission(actor, assignee.Department, user.ActionAssign)
}
