package internal

import "time"

// Wall-clock layouts used by every stored record.
const (
	DateLayout  = "2006-01-02"
	TimeLayout  = "15:04"
	StampLayout = "2006-01-02 15:04"
)

// Clock returns the current time. Services take one so tests can pin "today".
type Clock func() time.Time

// NewClock returns a clock reporting time in loc.
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return func() time.Time { return time.Now().In(loc) }
}

// FixedClock always reports t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func FormatDate(t time.Time) string  { return t.Format(DateLayout) }
func FormatTime(t time.Time) string  { return t.Format(TimeLayout) }
func FormatStamp(t time.Time) string { return t.Format(StampLayout) }
