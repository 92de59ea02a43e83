// Package dashboard aggregates the per-role landing pages.
package dashboard

import (
	"github.com/frahmantamala/office-management/internal/attendance"
	"github.com/frahmantamala/office-management/internal/task"
)

// Dashboard holds the counts shown for one day. Fields a role does not see
// are left empty.
type Dashboard struct {
	Role        string             `json:"role"`
	Username    string             `json:"username"`
	Date        string             `json:"date"`
	Users       int                `json:"users,omitempty"`
	Departments int                `json:"departments,omitempty"`
	Viewable    []string           `json:"viewable_departments,omitempty"`
	Attendance  attendance.Summary `json:"attendance"`
	Tasks       task.Summary       `json:"tasks"`
	Notices     int                `json:"notices"`
	Customers   *int               `json:"customers,omitempty"`
	Today       *attendance.Record `json:"today,omitempty"`
}

// CheckedIn reports whether the member dashboard's own record exists.
func (d Dashboard) CheckedIn() bool {
	return d.Today != nil
}
