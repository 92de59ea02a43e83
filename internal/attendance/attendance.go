package attendance

import (
	"fmt"
	"math"
	"time"

	"github.com/frahmantamala/office-management/internal"
)

// Record is one user's attendance for one day. TimeOut stays empty until
// the user checks out.
type Record struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	Date       string  `json:"date"`
	TimeIn     string  `json:"time_in"`
	TimeOut    string  `json:"time_out"`
	TotalHours float64 `json:"total_hours"`
}

func (r Record) CheckedOut() bool {
	return r.TimeOut != ""
}

func owner(r Record) string { return r.Username }

// Hours is the wall-clock span between two HH:MM times, rounded to two
// decimals. Only the time of day is compared, so a check-out earlier than
// the check-in yields a negative span.
func Hours(timeIn, timeOut string) (float64, error) {
	in, err := time.Parse(internal.TimeLayout, timeIn)
	if err != nil {
		return 0, fmt.Errorf("parse time_in %q: %w", timeIn, err)
	}
	out, err := time.Parse(internal.TimeLayout, timeOut)
	if err != nil {
		return 0, fmt.Errorf("parse time_out %q: %w", timeOut, err)
	}
	return math.Round(out.Sub(in).Hours()*100) / 100, nil
}

func findFor(records []Record, username, date string) int {
	for i, r := range records {
		if r.Username == username && r.Date == date {
			return i
		}
	}
	return -1
}
