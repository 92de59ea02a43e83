package auth

import (
	"net/http"
	"strings"
)

// LoginDTO is the login form.
type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SetupDTO is the one-time bootstrap form that creates the first admin.
type SetupDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func LoginFromForm(r *http.Request) LoginDTO {
	return LoginDTO{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
}

func SetupFromForm(r *http.Request) SetupDTO {
	return SetupDTO{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
}

// LoginView is rendered by GET /login and after a failed attempt.
type LoginView struct {
	Page  string `json:"page"`
	Flash string `json:"flash,omitempty"`
}

type SetupView struct {
	Page string `json:"page"`
}
