package task

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidDay is returned when a weekday name cannot be parsed.
var ErrInvalidDay = errors.New("day must be a weekday name (monday..sunday)")

// Day is a weekday in the scheduling week, Monday first.
// The zero value is not a day, so an unset field fails validation.
type Day int

const (
	Monday Day = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// DaysPerWeek is the number of days in the scheduling week.
const DaysPerWeek = 7

// Week lists the days in canonical order.
var Week = [DaysPerWeek]Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var dayNames = [DaysPerWeek]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// ParseDay parses a weekday name. Full names and three-letter
// abbreviations are accepted, case-insensitively.
func ParseDay(s string) (Day, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 3 {
		return 0, ErrInvalidDay
	}
	for i, name := range dayNames {
		lower := strings.ToLower(name)
		if s == lower || s == lower[:3] {
			return Week[i], nil
		}
	}
	return 0, ErrInvalidDay
}

// Valid returns true if d is one of the seven weekdays.
func (d Day) Valid() bool {
	return d >= Monday && d <= Sunday
}

// Index returns the position of d in the canonical order, 0 for Monday.
func (d Day) Index() int {
	return int(d - Monday)
}

// Next returns the day after d, wrapping Sunday to Monday.
func (d Day) Next() Day {
	return d.Add(1)
}

// Prev returns the day before d, wrapping Monday to Sunday.
func (d Day) Prev() Day {
	return d.Add(-1)
}

// Add moves n days around the week. n may be negative.
func (d Day) Add(n int) Day {
	i := (d.Index() + n) % DaysPerWeek
	if i < 0 {
		i += DaysPerWeek
	}
	return Week[i]
}

// String returns the English weekday name.
func (d Day) String() string {
	if !d.Valid() {
		return "Day(" + strconv.Itoa(int(d)) + ")"
	}
	return dayNames[d.Index()]
}

// Short returns the three-letter abbreviation.
func (d Day) Short() string {
	return d.String()[:3]
}

// DaysBetween returns the days from start through end inclusive,
// following the circular order. At most seven days are returned.
func DaysBetween(start, end Day) []Day {
	n := end.Index() - start.Index()
	if n < 0 {
		n += DaysPerWeek
	}
	days := make([]Day, 0, n+1)
	for i := 0; i <= n; i++ {
		days = append(days, start.Add(i))
	}
	return days
}
