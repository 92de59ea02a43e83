package user

import (
	"net/http"
	"strings"

	coreuser "github.com/frahmantamala/office-management/internal/core/user"
)

// AddUserDTO is the admin "add" form.
type AddUserDTO struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Contact    string `json:"contact"`
}

type ResetPasswordDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UpdatePermissionsDTO struct {
	Username string              `json:"username"`
	Grants   map[string][]string `json:"grants"`
}

// ProfileDTO is the self-service profile form.
type ProfileDTO struct {
	Contact      string `json:"contact"`
	ProfileImage string `json:"profile_image"`
}

func AddUserFromForm(r *http.Request) AddUserDTO {
	return AddUserDTO{
		Username:   strings.TrimSpace(r.PostFormValue("username")),
		Password:   r.PostFormValue("password"),
		Role:       strings.TrimSpace(r.PostFormValue("role")),
		Department: strings.TrimSpace(r.PostFormValue("department")),
		Contact:    strings.TrimSpace(r.PostFormValue("contact")),
	}
}

func ProfileFromForm(r *http.Request) ProfileDTO {
	return ProfileDTO{
		Contact:      strings.TrimSpace(r.PostFormValue("contact")),
		ProfileImage: strings.TrimSpace(r.PostFormValue("profile_image")),
	}
}

// UsersView is the admin users page.
type UsersView struct {
	Users       []coreuser.Profile `json:"users"`
	Departments []string           `json:"departments"`
	Actions     []string           `json:"actions"`
}

type ProfileView struct {
	Profile coreuser.Profile `json:"profile"`
}
