package db

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/javiermolinar/weekslot/internal/task"
)

func newTask(userID int64, title string, day task.Day, hour, duration int) *task.Task {
	return &task.Task{
		UserID:      userID,
		Title:       title,
		Description: title + " notes",
		Priority:    task.PriorityMedium,
		Day:         day,
		Hour:        hour,
		Duration:    duration,
		CreatedAt:   time.Now().Truncate(time.Second),
	}
}

func TestCreateTask(t *testing.T) {
	repo := newTestRepo(t)

	tsk := newTask(1, "Write unit tests", task.Wednesday, 14, 2)
	if err := repo.CreateTask(context.Background(), tsk); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if tsk.ID == 0 {
		t.Error("expected ID to be set after insert")
	}
}

func TestCreateTask_DefaultsCreatedAt(t *testing.T) {
	repo := newTestRepo(t)

	tsk := newTask(1, "No timestamp", task.Monday, 9, 1)
	tsk.CreatedAt = time.Time{}
	if err := repo.CreateTask(context.Background(), tsk); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if tsk.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestCreateTask_RejectsInvalidRow(t *testing.T) {
	tests := []struct {
		name string
		tsk  *task.Task
		want error
	}{
		{"hour out of range", newTask(1, "Bad hour", task.Monday, 30, 1), task.ErrInvalidTimeFormat},
		{"unset day", newTask(1, "No day", 0, 9, 1), task.ErrInvalidDay},
		{"zero duration", newTask(1, "Empty", task.Monday, 9, 0), task.ErrInvalidDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newTestRepo(t)
			ctx := context.Background()

			if err := repo.CreateTask(ctx, tt.tsk); !errors.Is(err, tt.want) {
				t.Errorf("CreateTask: expected %v, got %v", tt.want, err)
			}
			if err := repo.CreateTasks(ctx, []*task.Task{tt.tsk}); !errors.Is(err, tt.want) {
				t.Errorf("CreateTasks: expected %v, got %v", tt.want, err)
			}
			tasks, err := repo.ListTasks(ctx, 1)
			if err != nil {
				t.Fatalf("ListTasks failed: %v", err)
			}
			if len(tasks) != 0 {
				t.Errorf("expected nothing stored, got %d tasks", len(tasks))
			}
		})
	}
}

func TestGetTask(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	original := newTask(1, "Deep work session", task.Friday, 8, 3)
	original.Priority = task.PriorityHigh
	if err := repo.CreateTask(ctx, original); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	got, err := repo.GetTask(ctx, 1, original.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected task, got nil")
	}

	if got.Title != original.Title {
		t.Errorf("Title: got %q, want %q", got.Title, original.Title)
	}
	if got.Description != original.Description {
		t.Errorf("Description: got %q, want %q", got.Description, original.Description)
	}
	if got.Priority != task.PriorityHigh {
		t.Errorf("Priority: got %q, want High", got.Priority)
	}
	if got.Day != task.Friday || got.Hour != 8 || got.Duration != 3 {
		t.Errorf("slot: got %s for %dh, want Friday 08:00 for 3h", got.Start(), got.Duration)
	}
	if got.UserID != 1 {
		t.Errorf("UserID: got %d, want 1", got.UserID)
	}
	if !got.CreatedAt.Equal(original.CreatedAt) {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, original.CreatedAt)
	}
}

func TestGetTask_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.GetTask(context.Background(), 1, 999)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing task, got %+v", got)
	}
}

func TestGetTask_OtherOwner(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tsk := newTask(1, "Private", task.Monday, 9, 1)
	if err := repo.CreateTask(ctx, tsk); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	got, err := repo.GetTask(ctx, 2, tsk.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got != nil {
		t.Error("expected another user's task to be invisible")
	}
}

func TestDeleteTask(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tsk := newTask(1, "To delete", task.Tuesday, 10, 1)
	if err := repo.CreateTask(ctx, tsk); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if err := repo.DeleteTask(ctx, 2, tsk.ID); !errors.Is(err, task.ErrTaskNotFound) {
		t.Errorf("delete by non-owner: expected ErrTaskNotFound, got %v", err)
	}

	if err := repo.DeleteTask(ctx, 1, tsk.ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}

	got, err := repo.GetTask(ctx, 1, tsk.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got != nil {
		t.Error("expected task to be gone")
	}

	if err := repo.DeleteTask(ctx, 1, tsk.ID); !errors.Is(err, task.ErrTaskNotFound) {
		t.Errorf("second delete: expected ErrTaskNotFound, got %v", err)
	}
}

func TestCreateTasks(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tasks := []*task.Task{
		newTask(1, "Night shift", task.Tuesday, 22, 2),
		newTask(1, "Night shift", task.Wednesday, 0, 2),
	}
	if err := repo.CreateTasks(ctx, tasks); err != nil {
		t.Fatalf("CreateTasks failed: %v", err)
	}

	if tasks[0].ID == 0 || tasks[1].ID == 0 || tasks[0].ID == tasks[1].ID {
		t.Errorf("expected distinct IDs, got %d and %d", tasks[0].ID, tasks[1].ID)
	}

	list, err := repo.ListTasks(ctx, 1)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 tasks, got %d", len(list))
	}
}

func TestCreateTasks_Atomic(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tasks := []*task.Task{
		newTask(1, "Good", task.Monday, 9, 1),
		newTask(1, "Bad", task.Monday, 99, 1),
	}
	if err := repo.CreateTasks(ctx, tasks); err == nil {
		t.Fatal("expected batch to fail")
	}

	if tasks[0].ID != 0 {
		t.Error("expected no ID assigned after a failed batch")
	}

	list, err := repo.ListTasks(ctx, 1)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected no tasks after rollback, got %d", len(list))
	}
}

func TestCreateTasks_Empty(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.CreateTasks(context.Background(), nil); err != nil {
		t.Errorf("expected nil error for empty batch, got %v", err)
	}
}

func TestListTasks_WeekOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, tsk := range []*task.Task{
		newTask(1, "sunday", task.Sunday, 8, 1),
		newTask(1, "monday late", task.Monday, 15, 1),
		newTask(1, "wednesday", task.Wednesday, 9, 1),
		newTask(1, "monday early", task.Monday, 7, 1),
		newTask(2, "other user", task.Monday, 1, 1),
	} {
		if err := repo.CreateTask(ctx, tsk); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
	}

	list, err := repo.ListTasks(ctx, 1)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}

	var titles []string
	for _, tsk := range list {
		titles = append(titles, tsk.Title)
	}
	want := []string{"monday early", "monday late", "wednesday", "sunday"}
	if !slices.Equal(titles, want) {
		t.Errorf("ListTasks order = %v, want %v", titles, want)
	}
}

func TestFindTasksAt(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, tsk := range []*task.Task{
		newTask(1, "standup", task.Thursday, 9, 1),
		newTask(1, "review", task.Thursday, 9, 2),
		newTask(1, "lunch", task.Thursday, 12, 1),
		newTask(2, "standup", task.Thursday, 9, 1),
	} {
		if err := repo.CreateTask(ctx, tsk); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
	}

	got, err := repo.FindTasksAt(ctx, 1, task.Thursday, 9)
	if err != nil {
		t.Fatalf("FindTasksAt failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 tasks at Thursday 09:00, got %d", len(got))
	}
}

func TestListUserIDs(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, uid := range []int64{3, 1, 3, 2} {
		if err := repo.CreateTask(ctx, newTask(uid, "x", task.Monday, 9, 1)); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
	}

	ids, err := repo.ListUserIDs(ctx)
	if err != nil {
		t.Fatalf("ListUserIDs failed: %v", err)
	}
	if !slices.Equal(ids, []int64{1, 2, 3}) {
		t.Errorf("ListUserIDs = %v, want [1 2 3]", ids)
	}
}

func TestNew_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "weekslot.db")
	repo, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	_ = repo.Close()
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{input: "2025-01-15T09:30:00Z"},
		{input: "2025-01-15T09:30:00+02:00"},
		{input: "2025-01-15 09:30:00"},
		{input: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := parseTimestamp(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseTimestamp(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func newTestRepo(t *testing.T) *SQLite {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create test repo: %v", err)
	}

	t.Cleanup(func() {
		_ = repo.Close()
	})

	return repo
}
