// Package dates is the single source of truth for "what day is it" in a
// venue's civil timezone. All today/next-event bucketing goes through it so
// that daylight-saving transitions land on the timezone's rules, never on
// the host clock.
package dates

import "time"

const msPerDay = 86_400_000

// CalendarDate returns the calendar date of t under the wall-clock rules of
// loc.
func CalendarDate(t time.Time, loc *time.Location) (year int, month time.Month, day int) {
	return t.In(loc).Date()
}

// DayKey returns the local calendar date of t as "YYYY-MM-DD". The key is
// what extractors dedup on and what snapshots compare against "today".
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// SameDay reports whether a and b fall on the same local calendar date.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := CalendarDate(a, loc)
	by, bm, bd := CalendarDate(b, loc)
	return ay == by && am == bm && ad == bd
}

// HumanTime renders t as a short local clock time, e.g. "7:05 PM".
// A zero t yields "".
func HumanTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format("3:04 PM")
}

// HumanDate renders t as a short local date, e.g. "Oct 25".
// A zero t yields "".
func HumanDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format("Jan 2")
}

// DaysBetween returns the whole-day difference between the local calendar
// dates of a and b (positive when b is later). Both instants are first
// truncated to the midnight-UTC equivalent of their local date; subtracting
// the instants directly would drift by an hour across daylight-saving
// transitions and round to the wrong day.
func DaysBetween(a, b time.Time, loc *time.Location) int {
	ua := midnightUTC(a, loc)
	ub := midnightUTC(b, loc)
	diff := ub.Sub(ua).Milliseconds()
	if diff >= 0 {
		return int((diff + msPerDay/2) / msPerDay)
	}
	return int((diff - msPerDay/2) / msPerDay)
}

func midnightUTC(t time.Time, loc *time.Location) time.Time {
	y, m, d := CalendarDate(t, loc)
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
