package notice

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/office-management/internal"
	"github.com/frahmantamala/office-management/internal/core/user"
)

var ErrNoticeNotFound = errors.New("notice not found")

const (
	TargetAll    = "all"
	DefaultTitle = "Untitled"
)

type Notice struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Target  string `json:"target"`
	Date    string `json:"date"`
	Sender  string `json:"sender"`
}

func NewNotice(sender string, dto SendNoticeDTO, now time.Time) Notice {
	title := strings.TrimSpace(dto.Title)
	if title == "" {
		title = DefaultTitle
	}
	target := strings.TrimSpace(dto.Target)
	if target == "" {
		target = TargetAll
	}
	return Notice{
		ID:      uuid.NewString(),
		Title:   title,
		Message: dto.Message,
		Target:  target,
		Date:    internal.FormatStamp(now),
		Sender:  sender,
	}
}

// VisibleTo reports whether u may read n regardless of date.
func (n Notice) VisibleTo(u *user.User) bool {
	if u == nil {
		return false
	}
	return n.Target == TargetAll || n.Target == u.Username || u.IsAdmin()
}
