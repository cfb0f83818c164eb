// Package task defines the core domain types for weekslot.
package task

import (
	"errors"
	"strings"
	"time"
)

// Validation errors.
var (
	ErrEmptyTitle        = errors.New("title cannot be empty")
	ErrInvalidPriority   = errors.New("priority must be 'high', 'medium' or 'low'")
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM format")
	ErrInvalidDuration   = errors.New("duration must be between 1 and 24 hours")
)

// Domain errors.
var (
	ErrTaskNotFound = errors.New("task not found")
)

// MaxDuration is the longest task, in hours, the engine accepts.
const MaxDuration = HoursPerDay

// Priority ranks how urgent a task is.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// ParsePriority parses a priority name, case-insensitively.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return PriorityHigh, nil
	case "medium":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	default:
		return "", ErrInvalidPriority
	}
}

// Valid returns true if the priority is a known value.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Task is a committed block of whole hours on one weekday.
type Task struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	Priority    Priority
	Day         Day
	Hour        int // start hour slot, 0-23
	Duration    int // whole hours
	CreatedAt   time.Time
}

// Slot identifies one hourly unit of the week.
type Slot struct {
	Day  Day
	Hour int
}

// String renders the slot as "Monday 09:00".
func (s Slot) String() string {
	return s.Day.String() + " " + FormatHour(s.Hour)
}

// Start returns the slot the task starts in.
func (t *Task) Start() Slot {
	return Slot{Day: t.Day, Hour: t.Hour}
}

// Span returns every slot the task occupies, in order.
// Hours past 23 continue on the next day.
func (t *Task) Span() []Slot {
	return SpanOf(t.Day, t.Hour, t.Duration)
}

// SpanOf returns the duration consecutive slots starting at day and hour.
func SpanOf(day Day, hour, duration int) []Slot {
	if duration <= 0 {
		return nil
	}
	slots := make([]Slot, 0, duration)
	for offset := range duration {
		h := hour + offset
		slots = append(slots, Slot{
			Day:  day.Add(h / HoursPerDay),
			Hour: h % HoursPerDay,
		})
	}
	return slots
}

// CrossesMidnight returns true if the task runs past hour 23.
func (t *Task) CrossesMidnight() bool {
	return t.Hour+t.Duration > HoursPerDay
}

// Validate checks the fields the scheduling engine relies on.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if !t.Priority.Valid() {
		return ErrInvalidPriority
	}
	if !t.Day.Valid() {
		return ErrInvalidDay
	}
	if !ValidHour(t.Hour) {
		return ErrInvalidTimeFormat
	}
	if t.Duration < 1 || t.Duration > MaxDuration {
		return ErrInvalidDuration
	}
	return nil
}
