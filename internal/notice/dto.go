package notice

import (
	"net/http"
	"strings"
)

// SendNoticeDTO is the admin "send" form. An empty target broadcasts.
type SendNoticeDTO struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Target  string `json:"target"`
}

func SendNoticeFromForm(r *http.Request) SendNoticeDTO {
	return SendNoticeDTO{
		Title:   strings.TrimSpace(r.PostFormValue("title")),
		Message: strings.TrimSpace(r.PostFormValue("message")),
		Target:  strings.TrimSpace(r.PostFormValue("target")),
	}
}

type NoticesView struct {
	Date    string   `json:"date"`
	Notices []Notice `json:"notices"`
	Targets []string `json:"targets,omitempty"`
}
