package user

import (
	"sort"
	"strings"
)

const (
	RoleAdmin  = "admin"
	RoleLeader = "leader"
	RoleMember = "member"
)

// Permission actions a leader can be granted on a department. Other strings
// are stored verbatim but grant nothing beyond the wildcard.
const (
	ActionView   = "view"
	ActionAssign = "assign"
	ActionAll    = "all"
)

// AdminDepartment is the department given to the bootstrap admin.
const AdminDepartment = "Admin"

// User is the stored identity and authorization root. PasswordHash is
// persisted under "password" and must never be rendered.
type User struct {
	Username     string              `json:"username"`
	PasswordHash string              `json:"password"`
	Role         string              `json:"role"`
	Department   string              `json:"department"`
	Contact      string              `json:"contact"`
	ProfileImage string              `json:"profile_image"`
	Permissions  map[string][]string `json:"permissions,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) IsLeader() bool {
	return u != nil && u.Role == RoleLeader
}

func (u *User) IsMember() bool {
	return u != nil && !u.IsAdmin() && !u.IsLeader()
}

// Actions returns the explicit grants for department, empty when none.
func (u *User) Actions(department string) []string {
	if u == nil || u.Permissions == nil {
		return nil
	}
	return u.Permissions[department]
}

// SetActions replaces the grant for department. An empty selection removes
// the department entirely so no empty grant is ever stored.
func (u *User) SetActions(department string, actions []string) {
	cleaned := make([]string, 0, len(actions))
	seen := make(map[string]struct{}, len(actions))
	for _, a := range actions {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		cleaned = append(cleaned, a)
	}

	if len(cleaned) == 0 {
		if u.Permissions != nil {
			delete(u.Permissions, department)
		}
		return
	}
	if u.Permissions == nil {
		u.Permissions = make(map[string][]string)
	}
	u.Permissions[department] = cleaned
}

// Profile is the renderable view of a user.
type Profile struct {
	Username     string              `json:"username"`
	Role         string              `json:"role"`
	Department   string              `json:"department"`
	Contact      string              `json:"contact"`
	ProfileImage string              `json:"profile_image"`
	Permissions  map[string][]string `json:"permissions,omitempty"`
}

func (u *User) ToProfile() Profile {
	return Profile{
		Username:     u.Username,
		Role:         u.Role,
		Department:   u.Department,
		Contact:      u.Contact,
		ProfileImage: u.ProfileImage,
		Permissions:  u.Permissions,
	}
}

// NormalizeRole maps free-form input onto a known role; anything unknown is a member.
func NormalizeRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleAdmin:
		return RoleAdmin
	case RoleLeader:
		return RoleLeader
	default:
		return RoleMember
	}
}

// Directory is the users collection keyed by username.
type Directory map[string]*User

func (d Directory) Get(username string) (*User, bool) {
	u, ok := d[username]
	return u, ok && u != nil
}

// InDepartment returns the usernames currently assigned to department.
func (d Directory) InDepartment(department string) []string {
	var names []string
	for name, u := range d {
		if u != nil && u.Department == department {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Sorted returns the users ordered by username.
func (d Directory) Sorted() []*User {
	out := make([]*User, 0, len(d))
	for _, u := range d {
		if u != nil {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func (d Directory) Profiles() []Profile {
	users := d.Sorted()
	out := make([]Profile, len(users))
	for i, u := range users {
		out[i] = u.ToProfile()
	}
	return out
}
