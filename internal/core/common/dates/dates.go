// Package dates holds the calendar-date and wall-clock helpers shared by the
// attendance, leave and analytics packages. Calendar dates are represented as
// midnight UTC so they compare and persist identically on every store.
package dates

import (
	"net/http"
	"time"

	"github.com/staffsync/staffsync-backend/internal"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04:05"
)

var (
	ErrInvalidDate = internal.NewValidationError("Invalid date, expected YYYY-MM-DD", internal.ErrCodeInvalidDate)
	ErrInvalidTime = internal.NewValidationError("Invalid time, expected HH:MM or HH:MM:SS", internal.ErrCodeInvalidTime)
)

// DateOf returns the calendar date of t (in t's location) as midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts YYYY-MM-DD or an RFC3339 timestamp.
func ParseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return DateOf(t), nil
	}
	return time.Time{}, ErrInvalidDate
}

// ParseClock parses a wall-clock value and returns it as an offset from midnight.
func ParseClock(raw string) (time.Duration, error) {
	for _, layout := range []string{ClockLayout, "15:04"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, nil
		}
	}
	return 0, ErrInvalidTime
}

// At combines a calendar date with a wall-clock offset in loc.
func At(date time.Time, clock time.Duration, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc).Add(clock)
}

// ClockOf returns the wall-clock offset of t since its local midnight.
func ClockOf(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
}

// FormatClock renders t's wall clock as HH:MM:SS.
func FormatClock(t time.Time) string {
	return t.Format(ClockLayout)
}

// DaysInclusive counts calendar days in [start, end].
func DaysInclusive(start, end time.Time) int {
	return int(DateOf(end).Sub(DateOf(start)).Hours()/24) + 1
}

// Range is an inclusive calendar-date window.
type Range struct {
	Start time.Time
	End   time.Time
}

func (r Range) Contains(d time.Time) bool {
	d = DateOf(d)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days lists every date in the range in ascending order.
func (r Range) Days() []time.Time {
	var out []time.Time
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// ParseRange reads start_date/end_date query parameters. Missing values are
// filled by defaults, which receives the resolved end date.
func ParseRange(r *http.Request, today time.Time, defaults func(end time.Time) time.Time) (Range, error) {
	end := DateOf(today)
	if raw := r.URL.Query().Get("end_date"); raw != "" {
		d, err := ParseDate(raw)
		if err != nil {
			return Range{}, err
		}
		end = d
	}
	start := defaults(end)
	if raw := r.URL.Query().Get("start_date"); raw != "" {
		d, err := ParseDate(raw)
		if err != nil {
			return Range{}, err
		}
		start = d
	}
	if end.Before(start) {
		return Range{}, internal.ErrInvalidDateRange
	}
	return Range{Start: start, End: end}, nil
}

// LastDays is a ParseRange default: the window of n days ending at end.
func LastDays(n int) func(time.Time) time.Time {
	return func(end time.Time) time.Time { return end.AddDate(0, 0, -n) }
}

// MonthStart is a ParseRange default: the first day of end's month.
func MonthStart(end time.Time) time.Time {
	return time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
}
