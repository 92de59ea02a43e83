package task

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/office-management/internal"
	"github.com/frahmantamala/office-management/internal/core/user"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrAssigneeNotFound = errors.New("assignee not found")
	ErrForbidden        = errors.New("not allowed to change this task")
)

const (
	StatusPending = "Pending"
	DefaultTitle  = "Untitled"
)

type Task struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	AssignedBy  string `json:"assigned_by"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Date        string `json:"date"`
}

func NewTask(assignee, assigner string, dto AddTaskDTO, now time.Time) Task {
	title := strings.TrimSpace(dto.Title)
	if title == "" {
		title = DefaultTitle
	}
	return Task{
		ID:          uuid.NewString(),
		Username:    assignee,
		AssignedBy:  assigner,
		Title:       title,
		Description: dto.Description,
		Status:      StatusPending,
		Date:        internal.FormatStamp(now),
	}
}

func (t Task) IsPending() bool {
	return t.Status == StatusPending
}

// CanBeUpdatedBy allows admins, leaders and the assignee.
func (t Task) CanBeUpdatedBy(u *user.User) bool {
	if u == nil {
		return false
	}
	return u.IsAdmin() || u.IsLeader() || t.Username == u.Username
}

// CanBeDeletedBy allows admins and the assignee only.
func (t Task) CanBeDeletedBy(u *user.User) bool {
	if u == nil {
		return false
	}
	return u.IsAdmin() || t.Username == u.Username
}

// IsIgnored reports whether err is a refused mutation the page silently skips.
func IsIgnored(err error) bool {
	return errors.Is(err, ErrTaskNotFound) || errors.Is(err, ErrAssigneeNotFound) || errors.Is(err, ErrForbidden)
}

func owner(t Task) string { return t.Username }

func indexOf(tasks []Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
