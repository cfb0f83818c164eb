// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/weekslot/internal/task"
)

// SQLite implements task.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

// New creates a new SQLite repository and runs migrations.
// The parent directory of path is created if missing.
func New(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// SQLite prefers a single writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	_, _ = db.Exec("PRAGMA busy_timeout = 5000")
	_, _ = db.Exec("PRAGMA journal_mode = WAL")

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

const insertTask = `
	INSERT INTO tasks (user_id, title, description, priority, day, hour, duration, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

const selectTask = `
	SELECT id, user_id, title, description, priority, day, hour, duration, created_at
	FROM tasks
`

// CreateTask adds a new task to the repository.
func (s *SQLite) CreateTask(ctx context.Context, t *task.Task) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid task %q: %w", t.Title, err)
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	result, err := s.db.ExecContext(ctx, insertTask,
		t.UserID,
		t.Title,
		t.Description,
		t.Priority,
		t.Day.String(),
		t.Hour,
		t.Duration,
		t.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	t.ID = id

	return nil
}

// CreateTasks adds multiple tasks in a batch using a transaction.
// Either every task is stored or none is.
func (s *SQLite) CreateTasks(ctx context.Context, tasks []*task.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	for _, t := range tasks {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("invalid task %q: %w", t.Title, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, insertTask)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	ids := make([]int64, len(tasks))
	for i, t := range tasks {
		createdAt := t.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		result, err := stmt.ExecContext(ctx,
			t.UserID,
			t.Title,
			t.Description,
			t.Priority,
			t.Day.String(),
			t.Hour,
			t.Duration,
			createdAt.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("inserting task %q: %w", t.Title, err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting last insert id: %w", err)
		}
		ids[i] = id
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	// IDs are only handed out once the batch is durable.
	for i, t := range tasks {
		t.ID = ids[i]
		if t.CreatedAt.IsZero() {
			t.CreatedAt = time.Now()
		}
	}

	return nil
}

// GetTask retrieves a task by ID, scoped to its owner.
// Returns nil, nil if the task does not exist or belongs to another user.
func (s *SQLite) GetTask(ctx context.Context, userID, id int64) (*task.Task, error) {
	row := s.db.QueryRowContext(ctx, selectTask+` WHERE id = ? AND user_id = ?`, id, userID)

	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying task: %w", err)
	}
	return t, nil
}

// DeleteTask removes a task owned by userID.
func (s *SQLite) DeleteTask(ctx context.Context, userID, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("task %d: %w", id, task.ErrTaskNotFound)
	}

	return nil
}

// ListTasks returns all of a user's tasks ordered by day, hour and ID.
func (s *SQLite) ListTasks(ctx context.Context, userID int64) ([]*task.Task, error) {
	return s.queryTasks(ctx, selectTask+` WHERE user_id = ? ORDER BY id`, userID)
}

// FindTasksAt returns a user's tasks starting at the given day and hour.
func (s *SQLite) FindTasksAt(ctx context.Context, userID int64, day task.Day, hour int) ([]*task.Task, error) {
	return s.queryTasks(ctx, selectTask+` WHERE user_id = ? AND day = ? AND hour = ? ORDER BY id`,
		userID, day.String(), hour)
}

// ListUserIDs returns every user that owns at least one task.
func (s *SQLite) ListUserIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT user_id FROM tasks ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}

	return ids, nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) queryTasks(ctx context.Context, query string, args ...any) ([]*task.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}

	// Days are stored by name, so week order is applied here.
	slices.SortStableFunc(tasks, func(a, b *task.Task) int {
		if a.Day != b.Day {
			return a.Day.Index() - b.Day.Index()
		}
		if a.Hour != b.Hour {
			return a.Hour - b.Hour
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})

	return tasks, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*task.Task, error) {
	var (
		t         task.Task
		day       string
		priority  string
		createdAt sql.NullString
	)

	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Description,
		&priority,
		&day,
		&t.Hour,
		&t.Duration,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	t.Day, err = task.ParseDay(day)
	if err != nil {
		return nil, fmt.Errorf("parsing day %q: %w", day, err)
	}
	t.Priority = task.Priority(priority)

	if createdAt.Valid {
		t.CreatedAt, err = parseTimestamp(createdAt.String)
		if err != nil {
			return nil, fmt.Errorf("parsing created at: %w", err)
		}
	}

	return &t, nil
}

// parseTimestamp parses a timestamp in the formats SQLite might return.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse timestamp: %s", s)
}
