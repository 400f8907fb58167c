package domain

import "time"

// DateOnly truncates t to UTC midnight. All plan/completion dates are
// stored in this form so equality and range queries behave as calendar
// dates.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekWindow returns the Monday on/before date and the Sunday six days
// later, both at UTC midnight. Every plan covers exactly one such window.
func WeekWindow(date time.Time) (start, end time.Time) {
	d := DateOnly(date)
	// time.Weekday has Sunday == 0; shift so Monday == 0.
	offset := (int(d.Weekday()) + 6) % 7
	start = d.AddDate(0, 0, -offset)
	end = start.AddDate(0, 0, 6)
	return start, end
}

// WeekdayOf maps a date to its DayOfWeek name.
func WeekdayOf(date time.Time) DayOfWeek {
	start, _ := WeekWindow(date)
	idx := int(DateOnly(date).Sub(start).Hours() / 24)
	return WeekDays[idx]
}
