package booking

import (
	"time"

	"github.com/renttogether/renttogether-backend/internal/pkg/dateonly"
)

// Overlaps reports whether two inclusive date ranges intersect. Each range's
// start must not be after the other's end; a single shared day counts.
func Overlaps(aStart, aEnd, bStart, bEnd dateonly.Date) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// FindConflicts returns the bookings whose range intersects [start, end] and
// whose status is in the given blocking set.
func FindConflicts(bookings []*Booking, start, end dateonly.Date, blocking []Status) []*Booking {
	var conflicts []*Booking
	for _, b := range bookings {
		if !statusIn(b.Status, blocking) {
			continue
		}
		if Overlaps(start, end, b.StartDate, b.EndDate) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts
}

// BlockedDays projects bookings onto the days of one month: a day is blocked
// when it falls inside a booking whose status is in the calendar-display set.
// Days strictly before today are suppressed; historical bookings are
// irrelevant to future availability and only clutter the picker.
func BlockedDays(bookings []*Booking, year int, month time.Month, today dateonly.Date) []dateonly.Date {
	first := dateonly.New(year, month, 1)
	// Day zero of the next month is the last day of this one.
	last := dateonly.New(year, month+1, 0)

	var blocked []dateonly.Date
	for day := first; !day.After(last); day = day.AddDays(1) {
		if day.Before(today) {
			continue
		}
		for _, b := range bookings {
			if !statusIn(b.Status, CalendarBlockedStatuses) {
				continue
			}
			if !day.Before(b.StartDate) && !day.After(b.EndDate) {
				blocked = append(blocked, day)
				break
			}
		}
	}
	return blocked
}

// DayClass is the visual class of one calendar day.
type DayClass string

const (
	DayPast      DayClass = "past"
	DayBlocked   DayClass = "blocked"
	DayAvailable DayClass = "available"
)

// ClassifyDay resolves a day against the blocked set for rendering. Past wins
// over blocked; selection logic treats both as unselectable.
func ClassifyDay(day, today dateonly.Date, blocked []dateonly.Date) DayClass {
	if day.Before(today) {
		return DayPast
	}
	for _, d := range blocked {
		if day.Equal(d) {
			return DayBlocked
		}
	}
	return DayAvailable
}

func statusIn(s Status, set []Status) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}
