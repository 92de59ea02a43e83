package attendance

import "github.com/frahmantamala/office-management/internal/visibility"

// AttendanceView is the GET /attendance page.
type AttendanceView struct {
	Filter  visibility.Filter `json:"filter"`
	Today   *Record           `json:"today,omitempty"`
	Records []Record          `json:"records"`
	Members []string          `json:"members"`
}

// Summary counts the visible records of one day.
type Summary struct {
	Present    int `json:"present"`
	CheckedOut int `json:"checked_out"`
}
