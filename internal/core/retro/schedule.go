package retro

import "time"

// NextDate returns the date of the retro following one held on last.
//
// The candidate is last plus one cadence. If that is already behind now, the
// schedule re-anchors on now (keeping one cadence less so the weekday shift
// lands inside the current window). The candidate then moves forward to the
// requested weekday. Time of day is carried over from whichever anchor was used.
func NextDate(last time.Time, weekday time.Weekday, cadenceWeeks int, now time.Time) time.Time {
	date := last.AddDate(0, 0, cadenceWeeks*7)
	if date.Before(now) {
		date = now.AddDate(0, 0, (cadenceWeeks-1)*7)
	}

	daysToAdd := (7 + int(weekday) - int(date.Weekday())) % 7
	return date.AddDate(0, 0, daysToAdd)
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ReadableDate formats t as MM/DD/YYYY.
func ReadableDate(t time.Time) string {
	return t.Format("01/02/2006")
}
