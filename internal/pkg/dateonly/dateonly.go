package dateonly

import (
	"encoding/json"
	"fmt"
	"time"
)

// Layout is the wire format for calendar dates.
const Layout = "2006-01-02"

// Date is a calendar day with no time-of-day component.
// It is always anchored at UTC midnight so comparisons and day arithmetic
// cannot drift across timezones.
type Date struct {
	t time.Time
}

// New creates a Date for the given calendar day.
func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates t to its UTC calendar day.
func FromTime(t time.Time) Date {
	u := t.UTC()
	return New(u.Year(), u.Month(), u.Day())
}

// Today returns the current UTC calendar day.
func Today() Date {
	return FromTime(time.Now())
}

// Parse parses a "YYYY-MM-DD" string. As a fallback it also accepts RFC3339
// timestamps, truncating them to their UTC day.
func Parse(s string) (Date, error) {
	if t, err := time.Parse(Layout, s); err == nil {
		return FromTime(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected %s", s, Layout)
	}
	return FromTime(t), nil
}

// Time returns the UTC midnight instant of the day.
func (d Date) Time() time.Time {
	if d.t.IsZero() {
		return time.Time{}
	}
	return d.t
}

func (d Date) IsZero() bool {
	return d.t.IsZero()
}

func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return FromTime(d.t.AddDate(0, 0, n))
}

// DaysUntil returns the number of whole days from d to o.
// Negative when o is before d.
func (d Date) DaysUntil(o Date) int {
	return int(o.t.Sub(d.t) / (24 * time.Hour))
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(Layout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
