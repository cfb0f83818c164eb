// Package summary provides shared week summary utilities.
package summary

import (
	"context"
	"fmt"

	"github.com/javiermolinar/weekslot/internal/availability"
	"github.com/javiermolinar/weekslot/internal/scheduler"
	"github.com/javiermolinar/weekslot/internal/task"
)

// Stats holds aggregated statistics for a user's week.
type Stats struct {
	Tasks          int
	BusyHours      int // distinct busy slots
	TaskHours      int // sum of task durations, overlaps counted twice
	PreferredHours int // task hours inside the task priority's preferred range
	PerDay         [task.DaysPerWeek]int
	PerPriority    map[task.Priority]int
}

// FreeHours returns the hours of the week nobody has taken.
func (s Stats) FreeHours() int {
	return task.DaysPerWeek*task.HoursPerDay - s.BusyHours
}

// Overlap returns how many task hours share a slot with another task.
func (s Stats) Overlap() int {
	return s.TaskHours - s.BusyHours
}

// PreferredPercent returns the share of task hours in preferred ranges.
func (s Stats) PreferredPercent() int {
	if s.TaskHours == 0 {
		return 0
	}
	return (s.PreferredHours * 100) / s.TaskHours
}

// BusiestDay returns the day with the most busy hours.
// Ties go to the earlier day.
func (s Stats) BusiestDay() (day task.Day, hours int) {
	day = task.Monday
	for _, d := range task.Week {
		if s.PerDay[d.Index()] > hours {
			day, hours = d, s.PerDay[d.Index()]
		}
	}
	return day, hours
}

// WeekSummary holds a user's tasks, the grid they produce, and stats.
type WeekSummary struct {
	UserID int64
	Tasks  []*task.Task
	Grid   availability.Grid
	Stats  Stats
}

// SummarizeWeek builds week summary data from a user's tasks.
func SummarizeWeek(userID int64, tasks []*task.Task) *WeekSummary {
	grid := availability.FromTasks(tasks)

	stats := Stats{
		Tasks:       len(tasks),
		BusyHours:   grid.BusyHours(),
		PerPriority: make(map[task.Priority]int),
	}
	for _, day := range task.Week {
		for h := range task.HoursPerDay {
			if grid.Busy(day, h) {
				stats.PerDay[day.Index()]++
			}
		}
	}
	for _, t := range tasks {
		stats.TaskHours += t.Duration
		stats.PerPriority[t.Priority] += t.Duration
		preferred := scheduler.PreferredHours(t.Priority)
		for _, s := range t.Span() {
			if preferred.Contains(s.Hour) {
				stats.PreferredHours++
			}
		}
	}

	return &WeekSummary{
		UserID: userID,
		Tasks:  tasks,
		Grid:   grid,
		Stats:  stats,
	}
}

// BuildWeekSummary loads the user's tasks and summarizes them.
func BuildWeekSummary(ctx context.Context, repo task.Repository, userID int64) (*WeekSummary, error) {
	tasks, err := repo.ListTasks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching tasks: %w", err)
	}
	return SummarizeWeek(userID, tasks), nil
}
