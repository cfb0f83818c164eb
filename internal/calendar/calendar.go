// Package calendar converts between weekly tasks and dated calendar events.
//
// A task lives on a weekday, an event on a date. Export projects each task
// onto its next occurrence; import turns each event back into a manual
// placement on the weekday it starts.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/javiermolinar/weekslot/internal/placer"
	"github.com/javiermolinar/weekslot/internal/task"
)

// untitled is used for events without a summary.
const untitled = "No Title"

// Event is a dated calendar entry.
type Event struct {
	Summary     string    `yaml:"summary"`
	Description string    `yaml:"description,omitempty"`
	Start       time.Time `yaml:"start"`
	End         time.Time `yaml:"end"`
}

// Hours returns the event length rounded to whole hours, at least 1 and at
// most one day. Half hours round to even.
func (e Event) Hours() int {
	h := int(math.RoundToEven(e.End.Sub(e.Start).Hours()))
	return max(1, min(h, task.MaxDuration))
}

// Window returns when a task next happens on or after now, in loc.
// A task on today's weekday is placed today even if its hour has passed.
func Window(t *task.Task, now time.Time, loc *time.Location) (start, end time.Time) {
	now = now.In(loc)
	ahead := daysUntil(FromWeekday(now.Weekday()), t.Day)
	start = time.Date(now.Year(), now.Month(), now.Day()+ahead, t.Hour, 0, 0, 0, loc)
	return start, start.Add(time.Duration(t.Duration) * time.Hour)
}

// Export converts tasks into events for their next occurrence.
func Export(tasks []*task.Task, now time.Time, loc *time.Location) []Event {
	events := make([]Event, 0, len(tasks))
	for _, t := range tasks {
		start, end := Window(t, now, loc)
		events = append(events, Event{
			Summary:     t.Title,
			Description: t.Description,
			Start:       start,
			End:         end,
		})
	}
	return events
}

// ToManualRequest converts an event into a manual placement for userID.
// The bool is false for events without both a start and an end.
func ToManualRequest(userID int64, ev Event, loc *time.Location) (placer.ManualRequest, bool) {
	if ev.Start.IsZero() || ev.End.IsZero() {
		return placer.ManualRequest{}, false
	}
	start := ev.Start.In(loc)

	title := strings.TrimSpace(ev.Summary)
	if title == "" {
		title = untitled
	}

	return placer.ManualRequest{
		UserID:      userID,
		Title:       title,
		Description: ev.Description,
		Priority:    task.PriorityMedium,
		Day:         FromWeekday(start.Weekday()),
		Time:        task.FormatHour(start.Hour()),
		Duration:    ev.Hours(),
	}, true
}

// InWeek returns the events starting in the week containing now.
func InWeek(events []Event, now time.Time, loc *time.Location) []Event {
	from, to := WeekRange(now.In(loc))
	var out []Event
	for _, ev := range events {
		if !ev.Start.Before(from) && ev.Start.Before(to) {
			out = append(out, ev)
		}
	}
	return out
}

// Placer commits manual placements.
type Placer interface {
	PlaceManual(ctx context.Context, req placer.ManualRequest) (placer.Placement, error)
}

// TaskFinder looks up the tasks starting at a slot.
type TaskFinder interface {
	FindTasksAt(ctx context.Context, userID int64, day task.Day, hour int) ([]*task.Task, error)
}

// ImportResult summarizes an import.
type ImportResult struct {
	Imported   int
	Duplicates int
	Skipped    int // events without times, or rejected as invalid
	Placements []placer.Placement
}

// Importer places calendar events as tasks, skipping ones already imported.
type Importer struct {
	placer Placer
	tasks  TaskFinder
	loc    *time.Location
	log    zerolog.Logger
}

// NewImporter creates an Importer that reads event times in loc.
func NewImporter(p Placer, tasks TaskFinder, loc *time.Location, log zerolog.Logger) *Importer {
	return &Importer{placer: p, tasks: tasks, loc: loc, log: log}
}

// Import places every new event for userID through the placer, so imported
// tasks go through the same split and availability path as any other.
// An event whose title already exists at the same day and hour is a
// duplicate. A store failure stops the import and returns what was done.
func (im *Importer) Import(ctx context.Context, userID int64, events []Event) (ImportResult, error) {
	var res ImportResult
	for _, ev := range events {
		req, ok := ToManualRequest(userID, ev, im.loc)
		if !ok {
			res.Skipped++
			continue
		}

		dup, err := im.exists(ctx, req)
		if err != nil {
			return res, err
		}
		if dup {
			res.Duplicates++
			continue
		}

		placement, err := im.placer.PlaceManual(ctx, req)
		if err != nil {
			if errors.Is(err, placer.ErrInvalidInput) || errors.Is(err, placer.ErrSlotTaken) {
				im.log.Warn().Err(err).Str("event", req.Title).Msg("event skipped")
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("importing %q: %w", req.Title, err)
		}
		res.Imported++
		res.Placements = append(res.Placements, placement)
	}

	im.log.Info().
		Int64("user", userID).
		Int("imported", res.Imported).
		Int("duplicates", res.Duplicates).
		Int("skipped", res.Skipped).
		Msg("calendar import finished")
	return res, nil
}

func (im *Importer) exists(ctx context.Context, req placer.ManualRequest) (bool, error) {
	hour, err := task.ParseHour(req.Time)
	if err != nil {
		return false, err
	}
	existing, err := im.tasks.FindTasksAt(ctx, req.UserID, req.Day, hour)
	if err != nil {
		return false, fmt.Errorf("checking duplicates: %w", err)
	}
	for _, t := range existing {
		if t.Title == req.Title {
			return true, nil
		}
	}
	return false, nil
}
