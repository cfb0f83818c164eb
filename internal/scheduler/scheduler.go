// Package scheduler finds free hourly slots in a user's week before a deadline.
package scheduler

import (
	"errors"
	"fmt"

	"github.com/javiermolinar/weekslot/internal/availability"
	"github.com/javiermolinar/weekslot/internal/task"
)

// ErrInvalidDeadline is returned when a deadline cannot be parsed.
var ErrInvalidDeadline = errors.New("deadline must be a weekday and an HH:MM time")

// lastHour is the hour slot a midnight deadline moves to on the previous day.
const lastHour = task.HoursPerDay - 1

// HourRange is an inclusive range of hour slots.
type HourRange struct {
	From int
	To   int
}

// Hours returns the hours in the range in ascending order.
func (r HourRange) Hours() []int {
	if r.To < r.From {
		return nil
	}
	hours := make([]int, 0, r.To-r.From+1)
	for h := r.From; h <= r.To; h++ {
		hours = append(hours, h)
	}
	return hours
}

// Contains reports whether h falls in the range.
func (r HourRange) Contains(h int) bool {
	return h >= r.From && h <= r.To
}

// String renders the range as "08:00-12:00".
func (r HourRange) String() string {
	return task.FormatHour(r.From) + "-" + task.FormatHour(r.To)
}

// preferredHours maps each priority to the band it is placed in first.
var preferredHours = map[task.Priority]HourRange{
	task.PriorityHigh:   {From: 8, To: 12},
	task.PriorityMedium: {From: 12, To: 16},
	task.PriorityLow:    {From: 16, To: 22},
}

// defaultHours is used for a priority missing from the table.
var defaultHours = HourRange{From: 8, To: 21}

// PreferredHours returns the band tried first for the given priority.
func PreferredHours(p task.Priority) HourRange {
	if r, ok := preferredHours[p]; ok {
		return r
	}
	return defaultHours
}

// Deadline is the point a task must finish by: the start of Hour on Day.
type Deadline struct {
	Day  task.Day
	Hour int
}

// ParseDeadline builds a deadline from a weekday and an "HH:MM" time.
// Minutes are dropped. A deadline of "00:00" means the task must finish
// before the day begins, so it becomes the last hour of the previous day.
func ParseDeadline(day task.Day, clock string) (Deadline, error) {
	if !day.Valid() {
		return Deadline{}, fmt.Errorf("%w: %w", ErrInvalidDeadline, task.ErrInvalidDay)
	}
	hour, minute, err := task.ParseClock(clock)
	if err != nil {
		return Deadline{}, fmt.Errorf("%w: %w", ErrInvalidDeadline, err)
	}
	if hour == 0 && minute == 0 {
		return Deadline{Day: day.Prev(), Hour: lastHour}, nil
	}
	return Deadline{Day: day, Hour: hour}, nil
}

// String renders the deadline as "Friday 17:00".
func (d Deadline) String() string {
	return task.Slot{Day: d.Day, Hour: d.Hour}.String()
}

// Match is a legal start slot found by the search.
type Match struct {
	task.Slot
	// Fallback is true when the slot came from the all-hours pass
	// rather than the priority's preferred band.
	Fallback bool
}

// Finder searches a week for the earliest legal slot.
// It holds no per-user state and is safe for concurrent use.
type Finder struct {
	anchor task.Day
}

// New creates a Finder whose scan starts on the anchor day.
func New(anchor task.Day) *Finder {
	if !anchor.Valid() {
		anchor = task.Monday
	}
	return &Finder{anchor: anchor}
}

// Anchor returns the day every scan starts on.
func (f *Finder) Anchor() task.Day {
	return f.anchor
}

// FindSlot returns the earliest legal start for a task of duration hours
// that must finish by the deadline, given the user's committed tasks.
//
// Days are scanned from the anchor through the deadline day. The first
// pass only tries the priority's preferred hours, the second tries all
// hours. The bool is false when no legal slot exists.
func (f *Finder) FindSlot(duration int, deadlineDay task.Day, deadlineTime string, tasks []*task.Task, priority task.Priority) (Match, bool, error) {
	deadline, err := ParseDeadline(deadlineDay, deadlineTime)
	if err != nil {
		return Match{}, false, err
	}
	m, ok := f.Find(duration, deadline, tasks, priority)
	return m, ok, nil
}

// Find is FindSlot with an already parsed deadline.
func (f *Finder) Find(duration int, deadline Deadline, tasks []*task.Task, priority task.Priority) (Match, bool) {
	matches := f.search(duration, deadline, tasks, priority, 1)
	if len(matches) == 0 {
		return Match{}, false
	}
	return matches[0], true
}

// Candidates returns up to limit legal slots in search order: preferred
// hours first, then the remaining hours. A limit <= 0 returns all of them.
func (f *Finder) Candidates(duration int, deadline Deadline, tasks []*task.Task, priority task.Priority, limit int) []Match {
	return f.search(duration, deadline, tasks, priority, limit)
}

func (f *Finder) search(duration int, deadline Deadline, tasks []*task.Task, priority task.Priority, limit int) []Match {
	if duration < 1 || duration > task.HoursPerDay {
		return nil
	}

	// Built from the task list on every call so the result never depends
	// on a cached grid that may have drifted.
	grid := availability.FromTasks(tasks)
	days := task.DaysBetween(f.anchor, deadline.Day)
	preferred := PreferredHours(priority)

	var (
		out  []Match
		seen = make(map[task.Slot]bool)
	)
	collect := func(day task.Day, hour int, fallback bool) bool {
		s := task.Slot{Day: day, Hour: hour}
		if seen[s] || !legal(&grid, deadline, day, hour, duration) {
			return false
		}
		seen[s] = true
		out = append(out, Match{Slot: s, Fallback: fallback})
		return limit > 0 && len(out) >= limit
	}

	for _, day := range days {
		for _, h := range preferred.Hours() {
			if collect(day, h, false) {
				return out
			}
		}
	}
	for _, day := range days {
		for h := range task.HoursPerDay {
			if collect(day, h, true) {
				return out
			}
		}
	}
	return out
}

// legal reports whether a task may start at day and hour. Automatic
// placements never cross midnight, so a late slot on an earlier day can lose
// to the next day's 00:00.
func legal(grid *availability.Grid, deadline Deadline, day task.Day, hour, duration int) bool {
	if day == deadline.Day {
		if hour >= deadline.Hour || hour+duration > deadline.Hour {
			return false
		}
	}
	// Automatic placements stay within their start day.
	if hour+duration > task.HoursPerDay {
		return false
	}
	return grid.IsFree(day, hour, duration)
}
