// Package placer commits tasks to a user's week and keeps the cached
// availability grid in step with the durable task store.
//
// Every operation holds the user's operation lock from the first durable
// read to the last grid update, and the grid is only touched after the
// durable write it reflects has committed.
package placer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/javiermolinar/weekslot/internal/availability"
	"github.com/javiermolinar/weekslot/internal/scheduler"
	"github.com/javiermolinar/weekslot/internal/task"
)

// rebuildConcurrency bounds how many users RebuildAll resyncs at once.
const rebuildConcurrency = 4

// Options tunes placer behaviour.
type Options struct {
	// Strict rejects manual placements over busy hours with ErrSlotTaken.
	Strict bool
	// Now overrides the clock used for CreatedAt. Defaults to time.Now.
	Now func() time.Time
}

// Placer places, deletes and re-derives tasks for many users.
type Placer struct {
	repo   task.Repository
	store  *availability.Store
	finder *scheduler.Finder
	log    zerolog.Logger
	strict bool
	now    func() time.Time
}

// New creates a Placer. The store is owned by the caller and may be shared
// with readers such as the CLI week view.
func New(repo task.Repository, store *availability.Store, finder *scheduler.Finder, log zerolog.Logger, opts Options) *Placer {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Placer{
		repo:   repo,
		store:  store,
		finder: finder,
		log:    log,
		strict: opts.Strict,
		now:    now,
	}
}

// Placement describes a committed task.
type Placement struct {
	// TaskID is the ID of the first committed part.
	TaskID int64
	task.Slot
	Duration int
	// Fallback is true when an automatic placement fell outside the
	// priority's preferred hours.
	Fallback bool
	// Parts lists every committed task. A manual placement past midnight
	// has two parts, everything else has one.
	Parts []*task.Task
}

// Split reports whether the placement was split at midnight.
func (p Placement) Split() bool {
	return len(p.Parts) > 1
}

// PlaceManual commits a task at the requested day and hour. A task running
// past midnight is stored as two tasks, the second starting at 00:00 on
// the next day.
func (p *Placer) PlaceManual(ctx context.Context, req ManualRequest) (Placement, error) {
	log := p.opLogger("manual", req.UserID)

	if err := req.Validate(); err != nil {
		return Placement{}, p.fail(log, "rejected manual request", err)
	}
	hour := req.hour()

	unlock := p.store.Lock(req.UserID)
	defer unlock()

	if err := p.seed(ctx, req.UserID); err != nil {
		return Placement{}, p.fail(log, "loading availability", err)
	}

	if p.strict && !p.store.IsFree(req.UserID, req.Day, hour, req.Duration) {
		err := fmt.Errorf("%w: %s for %dh", ErrSlotTaken, task.Slot{Day: req.Day, Hour: hour}, req.Duration)
		return Placement{}, p.fail(log, "manual slot busy", err)
	}

	parts := splitAtMidnight(task.Task{
		UserID:      req.UserID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Day:         req.Day,
		Hour:        hour,
		Duration:    req.Duration,
		CreatedAt:   p.now(),
	})

	if err := p.repo.CreateTasks(ctx, parts); err != nil {
		return Placement{}, p.fail(log, "storing manual task", storeErr("create tasks", err))
	}

	for _, part := range parts {
		p.store.MarkBusy(req.UserID, part.Day, part.Hour, part.Duration)
	}

	first := parts[0]
	log.Info().
		Int64("task", first.ID).
		Str("slot", first.Start().String()).
		Int("duration", req.Duration).
		Int("parts", len(parts)).
		Msg("task placed")

	return Placement{
		TaskID:   first.ID,
		Slot:     first.Start(),
		Duration: req.Duration,
		Parts:    parts,
	}, nil
}

// splitAtMidnight returns t as one task, or as two when it runs past hour 23.
func splitAtMidnight(t task.Task) []*task.Task {
	if !t.CrossesMidnight() {
		return []*task.Task{&t}
	}
	first := t
	first.Duration = task.HoursPerDay - t.Hour

	second := t
	second.Day = t.Day.Next()
	second.Hour = 0
	second.Duration = t.Duration - first.Duration

	return []*task.Task{&first, &second}
}

// PlaceAutomatic commits a task at the earliest legal slot before the
// deadline. It returns ErrCapacityExhausted, and changes nothing, when no
// such slot exists.
func (p *Placer) PlaceAutomatic(ctx context.Context, req AutoRequest) (Placement, error) {
	log := p.opLogger("auto", req.UserID)

	if req.weekStart() {
		err := fmt.Errorf("%w: Monday 00:00 is the start of the week", ErrInvalidDeadline)
		return Placement{}, p.fail(log, "rejected automatic request", err)
	}
	if err := req.Validate(); err != nil {
		return Placement{}, p.fail(log, "rejected automatic request", err)
	}
	deadline, err := scheduler.ParseDeadline(req.DeadlineDay, req.DeadlineTime)
	if err != nil {
		return Placement{}, p.fail(log, "rejected automatic request", fmt.Errorf("%w: %w", ErrInvalidInput, err))
	}

	unlock := p.store.Lock(req.UserID)
	defer unlock()

	tasks, err := p.repo.ListTasks(ctx, req.UserID)
	if err != nil {
		return Placement{}, p.fail(log, "listing tasks", storeErr("list tasks", err))
	}
	p.seedFrom(req.UserID, tasks)

	match, ok := p.finder.Find(req.Duration, deadline, tasks, req.Priority)
	log.Debug().
		Str("deadline", deadline.String()).
		Str("anchor", p.finder.Anchor().String()).
		Str("preferred", scheduler.PreferredHours(req.Priority).String()).
		Bool("found", ok).
		Msg("slot search")
	if !ok {
		err := fmt.Errorf("%w: %dh before %s", ErrCapacityExhausted, req.Duration, deadline)
		return Placement{}, p.fail(log, "no slot", err)
	}

	t := &task.Task{
		UserID:      req.UserID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Day:         match.Day,
		Hour:        match.Hour,
		Duration:    req.Duration,
		CreatedAt:   p.now(),
	}
	if err := p.repo.CreateTask(ctx, t); err != nil {
		return Placement{}, p.fail(log, "storing automatic task", storeErr("create task", err))
	}

	p.store.MarkBusy(req.UserID, t.Day, t.Hour, t.Duration)

	log.Info().
		Int64("task", t.ID).
		Str("slot", match.String()).
		Int("duration", t.Duration).
		Bool("fallback", match.Fallback).
		Msg("task scheduled")

	return Placement{
		TaskID:   t.ID,
		Slot:     match.Slot,
		Duration: t.Duration,
		Fallback: match.Fallback,
		Parts:    []*task.Task{t},
	}, nil
}

// Suggest returns up to limit legal slots for req without committing
// anything.
func (p *Placer) Suggest(ctx context.Context, req AutoRequest, limit int) ([]scheduler.Match, error) {
	if req.weekStart() {
		return nil, fmt.Errorf("%w: Monday 00:00 is the start of the week", ErrInvalidDeadline)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	deadline, err := scheduler.ParseDeadline(req.DeadlineDay, req.DeadlineTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	tasks, err := p.repo.ListTasks(ctx, req.UserID)
	if err != nil {
		return nil, storeErr("list tasks", err)
	}
	return p.finder.Candidates(req.Duration, deadline, tasks, req.Priority, limit), nil
}

// DeleteTask removes one of the user's tasks and frees the hours it held.
func (p *Placer) DeleteTask(ctx context.Context, userID, taskID int64) error {
	log := p.opLogger("delete", userID).With().Int64("task", taskID).Logger()

	unlock := p.store.Lock(userID)
	defer unlock()

	t, err := p.repo.GetTask(ctx, userID, taskID)
	if err != nil {
		return p.fail(log, "loading task", storeErr("get task", err))
	}
	if t == nil {
		return p.fail(log, "task missing", fmt.Errorf("%w: %d", ErrNotFound, taskID))
	}

	if err := p.seed(ctx, userID); err != nil {
		return p.fail(log, "loading availability", err)
	}

	if err := p.repo.DeleteTask(ctx, userID, taskID); err != nil {
		if errors.Is(err, task.ErrTaskNotFound) {
			return p.fail(log, "task missing", fmt.Errorf("%w: %d", ErrNotFound, taskID))
		}
		return p.fail(log, "deleting task", storeErr("delete task", err))
	}

	p.store.MarkFree(userID, t.Day, t.Hour, t.Duration)

	log.Info().Str("slot", t.Start().String()).Int("duration", t.Duration).Msg("task deleted")
	return nil
}

// RebuildAvailability replaces the user's grid with one derived from tasks.
func (p *Placer) RebuildAvailability(ctx context.Context, userID int64, tasks []*task.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	unlock := p.store.Lock(userID)
	defer unlock()

	p.store.RebuildFromTasks(userID, tasks)
	p.log.Debug().Int64("user", userID).Int("tasks", len(tasks)).Msg("availability rebuilt")
	return nil
}

// Resync reloads the user's tasks from the durable store and rebuilds the grid.
func (p *Placer) Resync(ctx context.Context, userID int64) error {
	unlock := p.store.Lock(userID)
	defer unlock()
	return p.resyncLocked(ctx, userID)
}

func (p *Placer) resyncLocked(ctx context.Context, userID int64) error {
	tasks, err := p.repo.ListTasks(ctx, userID)
	if err != nil {
		return storeErr("list tasks", err)
	}
	p.store.RebuildFromTasks(userID, tasks)
	p.log.Debug().Int64("user", userID).Int("tasks", len(tasks)).Msg("availability resynced")
	return nil
}

// RebuildAll resyncs every user known to the durable store. It is meant to
// run once at startup, before any placement.
func (p *Placer) RebuildAll(ctx context.Context) error {
	ids, err := p.repo.ListUserIDs(ctx)
	if err != nil {
		return storeErr("list users", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rebuildConcurrency)
	for _, id := range ids {
		g.Go(func() error {
			if err := p.Resync(gctx, id); err != nil {
				return fmt.Errorf("user %d: %w", id, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		p.log.Error().Err(err).Str("kind", ErrorKind(err)).Msg("startup rebuild failed")
		return err
	}

	p.log.Info().Int("users", len(ids)).Msg("availability rebuilt for all users")
	return nil
}

// Drift compares a user's cached grid with the durable store.
type Drift struct {
	UserID int64
	// Cached is false when the user had no grid in memory.
	Cached bool
	// Slots lists every slot whose busy flag differs.
	Slots []task.Slot
}

// Clean reports whether the cached grid matches the durable store.
func (d Drift) Clean() bool {
	return len(d.Slots) == 0
}

// CheckDrift reports where the user's cached grid disagrees with the
// durable store. It does not repair anything.
func (p *Placer) CheckDrift(ctx context.Context, userID int64) (Drift, error) {
	unlock := p.store.Lock(userID)
	defer unlock()

	tasks, err := p.repo.ListTasks(ctx, userID)
	if err != nil {
		return Drift{}, storeErr("list tasks", err)
	}
	derived := availability.FromTasks(tasks)
	cached, ok := p.store.Snapshot(userID)

	return Drift{
		UserID: userID,
		Cached: ok,
		Slots:  cached.Diff(derived),
	}, nil
}

// Availability returns the user's grid, loading it from the durable store
// the first time the user is seen.
func (p *Placer) Availability(ctx context.Context, userID int64) (availability.Grid, error) {
	unlock := p.store.Lock(userID)
	defer unlock()

	if err := p.seed(ctx, userID); err != nil {
		return availability.Grid{}, err
	}
	grid, _ := p.store.Snapshot(userID)
	return grid, nil
}

// seed loads the user's grid from the durable store if it is not cached.
// The caller must hold the user's operation lock.
func (p *Placer) seed(ctx context.Context, userID int64) error {
	if _, ok := p.store.Snapshot(userID); ok {
		return nil
	}
	tasks, err := p.repo.ListTasks(ctx, userID)
	if err != nil {
		return storeErr("list tasks", err)
	}
	p.seedFrom(userID, tasks)
	return nil
}

// seedFrom is seed with the task list already in hand. A user with no
// tasks starts a new session on an all-free grid.
func (p *Placer) seedFrom(userID int64, tasks []*task.Task) {
	if _, ok := p.store.Snapshot(userID); ok {
		return
	}
	if len(tasks) == 0 {
		p.store.EnsureInitialized(userID)
		return
	}
	p.store.RebuildFromTasks(userID, tasks)
}

func (p *Placer) opLogger(mode string, userID int64) zerolog.Logger {
	return p.log.With().
		Str("op", uuid.NewString()).
		Str("mode", mode).
		Int64("user", userID).
		Logger()
}

// fail logs err at a level matching its kind and returns it unchanged.
func (p *Placer) fail(log zerolog.Logger, msg string, err error) error {
	kind := ErrorKind(err)
	ev := log.Warn()
	if kind == "store_unavailable" || kind == "unexpected" {
		ev = log.Error()
	}
	ev.Err(err).Str("kind", kind).Msg(msg)
	return err
}
