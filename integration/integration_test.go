package integration

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/javiermolinar/weekslot/internal/availability"
	"github.com/javiermolinar/weekslot/internal/db"
	"github.com/javiermolinar/weekslot/internal/logging"
	"github.com/javiermolinar/weekslot/internal/placer"
	"github.com/javiermolinar/weekslot/internal/scheduler"
	"github.com/javiermolinar/weekslot/internal/task"
)

// openRepo opens the database at path with automatic cleanup.
func openRepo(t *testing.T, path string) *db.SQLite {
	t.Helper()
	repo, err := db.New(path)
	if err != nil {
		t.Fatalf("failed to open repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

// boot wires a placer the way the CLI does and rebuilds every user.
func boot(t *testing.T, repo task.Repository) (*placer.Placer, *availability.Store) {
	t.Helper()
	store := availability.NewStore()
	p := placer.New(repo, store, scheduler.New(task.Monday), logging.Nop(), placer.Options{})
	if err := p.RebuildAll(context.Background()); err != nil {
		t.Fatalf("RebuildAll failed: %v", err)
	}
	return p, store
}

func TestRestartRebuildsSameGrid(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "weekslot.db")

	repo := openRepo(t, path)
	p, store := boot(t, repo)

	if _, err := p.PlaceManual(ctx, placer.ManualRequest{
		UserID: 1, Title: "Night shift", Priority: task.PriorityLow,
		Day: task.Sunday, Time: "22:00", Duration: 5,
	}); err != nil {
		t.Fatalf("PlaceManual failed: %v", err)
	}
	for range 3 {
		if _, err := p.PlaceAutomatic(ctx, placer.AutoRequest{
			UserID: 1, Title: "Focus", Priority: task.PriorityHigh,
			Duration: 3, DeadlineDay: task.Wednesday, DeadlineTime: "12:00",
		}); err != nil {
			t.Fatalf("PlaceAutomatic failed: %v", err)
		}
	}
	before, _ := store.Snapshot(1)

	// A new process sees the same week.
	_, restarted := boot(t, openRepo(t, path))
	after, ok := restarted.Snapshot(1)
	if !ok {
		t.Fatal("expected user 1 to be rebuilt at startup")
	}
	if after != before {
		t.Errorf("grid after restart differs:\n%s\nbefore:\n%s", after.String(), before.String())
	}
}

func TestUsersAreIsolated(t *testing.T) {
	ctx := context.Background()
	repo := openRepo(t, filepath.Join(t.TempDir(), "weekslot.db"))
	p, store := boot(t, repo)

	req := placer.AutoRequest{
		Title: "Focus", Priority: task.PriorityHigh,
		Duration: 2, DeadlineDay: task.Friday, DeadlineTime: "17:00",
	}

	var wg sync.WaitGroup
	results := make(map[int64]placer.Placement)
	var mu sync.Mutex
	for _, user := range []int64{1, 2, 3} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := req
			r.UserID = user
			got, err := p.PlaceAutomatic(ctx, r)
			if err != nil {
				t.Errorf("user %d: %v", user, err)
				return
			}
			mu.Lock()
			results[user] = got
			mu.Unlock()
		}()
	}
	wg.Wait()

	// Every user gets the same first slot, since their weeks are independent.
	for user, got := range results {
		if got.Slot != (task.Slot{Day: task.Monday, Hour: 8}) {
			t.Errorf("user %d placed at %s, want Monday 08:00", user, got.Slot)
		}
		g, _ := store.Snapshot(user)
		if g.BusyHours() != 2 {
			t.Errorf("user %d has %d busy hours, want 2", user, g.BusyHours())
		}
	}
}

func TestSplitTaskDeletedHalfByHalf(t *testing.T) {
	ctx := context.Background()
	repo := openRepo(t, filepath.Join(t.TempDir(), "weekslot.db"))
	p, store := boot(t, repo)

	placed, err := p.PlaceManual(ctx, placer.ManualRequest{
		UserID: 1, Title: "Night shift", Priority: task.PriorityMedium,
		Day: task.Tuesday, Time: "22:00", Duration: 4,
	})
	if err != nil {
		t.Fatalf("PlaceManual failed: %v", err)
	}

	if err := p.DeleteTask(ctx, 1, placed.Parts[0].ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	g, _ := store.Snapshot(1)
	if !g.IsFree(task.Tuesday, 22, 2) || g.IsFree(task.Wednesday, 0, 2) {
		t.Errorf("expected only the Wednesday half busy:\n%s", g.String())
	}

	if err := p.DeleteTask(ctx, 1, placed.Parts[1].ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	g, _ = store.Snapshot(1)
	if g != availability.Free() {
		t.Errorf("expected a free week:\n%s", g.String())
	}

	if err := p.DeleteTask(ctx, 1, placed.Parts[1].ID); !errors.Is(err, placer.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestManualOverlapThenRebuild(t *testing.T) {
	ctx := context.Background()
	repo := openRepo(t, filepath.Join(t.TempDir(), "weekslot.db"))
	p, store := boot(t, repo)

	a, err := p.PlaceManual(ctx, placer.ManualRequest{
		UserID: 1, Title: "A", Priority: task.PriorityMedium,
		Day: task.Thursday, Time: "09:00", Duration: 3,
	})
	if err != nil {
		t.Fatalf("PlaceManual failed: %v", err)
	}
	if _, err := p.PlaceManual(ctx, placer.ManualRequest{
		UserID: 1, Title: "B", Priority: task.PriorityMedium,
		Day: task.Thursday, Time: "10:00", Duration: 1,
	}); err != nil {
		t.Fatalf("PlaceManual failed: %v", err)
	}

	// Freeing A's exact span also frees the hour B overlaps.
	if err := p.DeleteTask(ctx, 1, a.TaskID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	drift, err := p.CheckDrift(ctx, 1)
	if err != nil {
		t.Fatalf("CheckDrift failed: %v", err)
	}
	if drift.Clean() {
		t.Fatal("expected drift after deleting an overlapped task")
	}

	if err := p.Resync(ctx, 1); err != nil {
		t.Fatalf("Resync failed: %v", err)
	}
	g, _ := store.Snapshot(1)
	if g.IsFree(task.Thursday, 10, 1) {
		t.Error("expected Thursday 10:00 busy after resync")
	}
}
