package calendar

import (
	"time"

	"github.com/javiermolinar/weekslot/internal/task"
)

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekRange returns midnight of the Monday starting the week containing t,
// and midnight of the following Monday.
func WeekRange(t time.Time) (start, end time.Time) {
	day := TruncateToDay(t)
	start = day.AddDate(0, 0, -FromWeekday(day.Weekday()).Index())
	return start, start.AddDate(0, 0, task.DaysPerWeek)
}

// FromWeekday converts a time.Weekday to a task.Day.
func FromWeekday(w time.Weekday) task.Day {
	// time.Weekday counts from Sunday.
	return task.Week[(int(w)+task.DaysPerWeek-1)%task.DaysPerWeek]
}

// ToWeekday converts a task.Day to a time.Weekday.
func ToWeekday(d task.Day) time.Weekday {
	return time.Weekday((d.Index() + 1) % task.DaysPerWeek)
}

// daysUntil returns how many days ahead target is from from, 0 to 6.
func daysUntil(from, target task.Day) int {
	return (target.Index() - from.Index() + task.DaysPerWeek) % task.DaysPerWeek
}
