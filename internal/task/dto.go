package task

import (
	"net/http"
	"strings"

	"github.com/frahmantamala/office-management/internal/visibility"
)

// AddTaskDTO is the "add" form. Username is the requested assignee and may
// be empty.
type AddTaskDTO struct {
	Username    string `json:"username"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type UpdateTaskDTO struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func AddTaskFromForm(r *http.Request) AddTaskDTO {
	return AddTaskDTO{
		Username:    strings.TrimSpace(r.PostFormValue("username")),
		Title:       strings.TrimSpace(r.PostFormValue("title")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
	}
}

func UpdateTaskFromForm(r *http.Request) UpdateTaskDTO {
	return UpdateTaskDTO{
		ID:     strings.TrimSpace(r.PostFormValue("id")),
		Status: strings.TrimSpace(r.PostFormValue("status")),
	}
}

// TasksView is the GET /tasks page. Assignable lists who the viewer may
// hand a new task to.
type TasksView struct {
	Filter     visibility.Filter `json:"filter"`
	Tasks      []Task            `json:"tasks"`
	Members    []string          `json:"members"`
	Assignable []string          `json:"assignable"`
}

type Summary struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
}
