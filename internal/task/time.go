package task

import "fmt"

// HoursPerDay is the number of hourly slots in a day.
const HoursPerDay = 24

// ParseClock parses "HH:MM" into hour and minute.
// Returns ErrInvalidTimeFormat if the string is malformed or out of range.
func ParseClock(s string) (hour, minute int, err error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, ErrInvalidTimeFormat
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, 0, ErrInvalidTimeFormat
		}
	}
	hour = int(s[0]-'0')*10 + int(s[1]-'0')
	minute = int(s[3]-'0')*10 + int(s[4]-'0')
	if hour >= HoursPerDay || minute >= 60 {
		return 0, 0, ErrInvalidTimeFormat
	}
	return hour, minute, nil
}

// ParseHour parses "HH:MM" and returns the hour slot it falls in.
func ParseHour(s string) (int, error) {
	hour, _, err := ParseClock(s)
	return hour, err
}

// FormatHour renders an hour slot as "HH:00".
func FormatHour(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// ValidHour returns true if h is a valid hour slot.
func ValidHour(h int) bool {
	return h >= 0 && h < HoursPerDay
}
