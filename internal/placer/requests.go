package placer

import (
	"strings"

	"github.com/javiermolinar/weekslot/internal/task"
)

// ManualRequest places a task at a caller-chosen day and hour.
type ManualRequest struct {
	UserID      int64
	Title       string
	Description string
	Priority    task.Priority
	Day         task.Day
	Time        string // "HH:MM", minutes are dropped
	Duration    int
}

// Validate checks every field and reports all problems at once.
func (r ManualRequest) Validate() error {
	v := &ValidationError{}
	validateCommon(v, r.UserID, r.Title, r.Priority, r.Duration)
	if !r.Day.Valid() {
		v.add("day", "must be a weekday")
	}
	if _, _, err := task.ParseClock(r.Time); err != nil {
		v.add("time", err.Error())
	}
	if v.HasErrors() {
		return v
	}
	return nil
}

// hour returns the start hour. Call only after Validate.
func (r ManualRequest) hour() int {
	h, _, _ := task.ParseClock(r.Time)
	return h
}

// AutoRequest asks the placer to find the earliest slot before a deadline.
type AutoRequest struct {
	UserID       int64
	Title        string
	Description  string
	Priority     task.Priority
	Duration     int
	DeadlineDay  task.Day
	DeadlineTime string // "HH:MM"
}

// Validate checks every field and reports all problems at once.
// The Monday 00:00 deadline is not a field error; PlaceAutomatic rejects it
// with ErrInvalidDeadline.
func (r AutoRequest) Validate() error {
	v := &ValidationError{}
	validateCommon(v, r.UserID, r.Title, r.Priority, r.Duration)
	if !r.DeadlineDay.Valid() {
		v.add("deadline_day", "must be a weekday")
	}
	if _, _, err := task.ParseClock(r.DeadlineTime); err != nil {
		v.add("deadline_time", err.Error())
	}
	if v.HasErrors() {
		return v
	}
	return nil
}

// weekStart reports whether the deadline is the first instant of the week.
func (r AutoRequest) weekStart() bool {
	return r.DeadlineDay == task.Monday && r.DeadlineTime == "00:00"
}

func validateCommon(v *ValidationError, userID int64, title string, priority task.Priority, duration int) {
	if userID <= 0 {
		v.add("user_id", "must be positive")
	}
	if strings.TrimSpace(title) == "" {
		v.add("title", task.ErrEmptyTitle.Error())
	}
	if !priority.Valid() {
		v.add("priority", task.ErrInvalidPriority.Error())
	}
	if duration < 1 || duration > task.MaxDuration {
		v.add("duration", task.ErrInvalidDuration.Error())
	}
}
