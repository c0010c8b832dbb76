package finance

import "time"

// CalendarDate truncates t to midnight UTC of its calendar day.
// Due dates and payment dates carry no time-of-day component.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
