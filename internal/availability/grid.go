// Package availability tracks which hours of a user's week are free or busy.
package availability

import (
	"strings"

	"github.com/javiermolinar/weekslot/internal/task"
)

// Grid is a 7x24 busy map of one user's week, indexed by day then hour.
// The zero value has every slot free.
//
// A Grid carries no state of its own: it is always the result of replaying
// a user's committed tasks onto a free week. MarkBusy never reports a
// conflict; overlapping tasks simply overwrite the same slots.
type Grid struct {
	busy [task.DaysPerWeek][task.HoursPerDay]bool
}

// Free returns a grid with all 168 slots free.
func Free() Grid {
	return Grid{}
}

// FromTasks replays tasks onto a free grid.
func FromTasks(tasks []*task.Task) Grid {
	g := Free()
	for _, t := range tasks {
		if t == nil {
			continue
		}
		g.MarkBusy(t.Day, t.Hour, t.Duration)
	}
	return g
}

// MarkBusy marks duration consecutive slots busy starting at day and hour.
// Hours past 23 continue on the next day.
func (g *Grid) MarkBusy(day task.Day, hour, duration int) {
	g.set(day, hour, duration, true)
}

// MarkFree marks duration consecutive slots free starting at day and hour.
func (g *Grid) MarkFree(day task.Day, hour, duration int) {
	g.set(day, hour, duration, false)
}

func (g *Grid) set(day task.Day, hour, duration int, busy bool) {
	if !day.Valid() || !task.ValidHour(hour) {
		return
	}
	for _, s := range task.SpanOf(day, hour, duration) {
		g.busy[s.Day.Index()][s.Hour] = busy
	}
}

// IsFree returns true if every one of the duration slots starting at day
// and hour is free.
func (g *Grid) IsFree(day task.Day, hour, duration int) bool {
	if !day.Valid() || !task.ValidHour(hour) {
		return false
	}
	for _, s := range task.SpanOf(day, hour, duration) {
		if g.busy[s.Day.Index()][s.Hour] {
			return false
		}
	}
	return true
}

// Busy reports whether a single slot is busy.
func (g *Grid) Busy(day task.Day, hour int) bool {
	if !day.Valid() || !task.ValidHour(hour) {
		return false
	}
	return g.busy[day.Index()][hour]
}

// BusyHours returns the number of busy slots in the week.
func (g *Grid) BusyHours() int {
	n := 0
	for _, day := range g.busy {
		for _, b := range day {
			if b {
				n++
			}
		}
	}
	return n
}

// Diff returns the slots whose state differs between g and other.
func (g *Grid) Diff(other Grid) []task.Slot {
	var out []task.Slot
	for _, day := range task.Week {
		for h := range task.HoursPerDay {
			if g.busy[day.Index()][h] != other.busy[day.Index()][h] {
				out = append(out, task.Slot{Day: day, Hour: h})
			}
		}
	}
	return out
}

// String renders the grid one line per day, '#' busy and '.' free.
func (g *Grid) String() string {
	var b strings.Builder
	for _, day := range task.Week {
		b.WriteString(day.Short())
		b.WriteByte(' ')
		for h := range task.HoursPerDay {
			if g.busy[day.Index()][h] {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
