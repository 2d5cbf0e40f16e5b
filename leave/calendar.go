package leave

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Calendar date, no time-of-day component
// =============================================================================

// Date is a day-granular calendar date. All dates cross the API boundary as
// ISO "YYYY-MM-DD" strings and are normalized to UTC midnight internally so
// comparisons never depend on a time zone.
type Date struct {
	Time time.Time
}

const dateLayout = "2006-01-02"

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return Date{Time: t.UTC()}, nil
}

func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), now.Month(), now.Day())
}

func (d Date) IsZero() bool { return d.Time.IsZero() }

// Comparison
func (d Date) Before(other Date) bool { return d.normalize().Before(other.normalize()) }
func (d Date) After(other Date) bool  { return d.normalize().After(other.normalize()) }
func (d Date) Equal(other Date) bool  { return d.normalize().Equal(other.normalize()) }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{Time: d.Time.AddDate(0, 0, n)} }

// IsWorkday reports whether the date falls on a weekday.
func (d Date) IsWorkday() bool {
	wd := d.Time.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

func (d Date) String() string { return d.normalize().Format(dateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		*d = Date{}
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	// Tolerate full timestamps from older clients; only the day matters.
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// BUSINESS-DAY COUNTING
// =============================================================================

// BusinessDaysBetween counts the weekdays after from, up to and including
// returnDate. A Monday-to-Friday span therefore costs 4 days: the departure
// day is not counted, the return day is.
func BusinessDaysBetween(from, returnDate Date) int {
	if !returnDate.After(from) {
		return 0
	}
	count := 0
	for d := from.AddDays(1); !d.After(returnDate); d = d.AddDays(1) {
		if d.IsWorkday() {
			count++
		}
	}
	return count
}
