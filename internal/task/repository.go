package task

import "context"

// Repository defines the durable storage interface for tasks.
// It is the source of truth for every user's committed tasks.
type Repository interface {
	// CreateTask adds a new task and sets its ID.
	CreateTask(ctx context.Context, task *Task) error

	// CreateTasks adds multiple tasks atomically and sets their IDs.
	CreateTasks(ctx context.Context, tasks []*Task) error

	// GetTask retrieves a task owned by userID.
	// Returns nil, nil if no such task exists for that user.
	GetTask(ctx context.Context, userID, id int64) (*Task, error)

	// DeleteTask removes a task owned by userID.
	// Returns ErrTaskNotFound if nothing was deleted.
	DeleteTask(ctx context.Context, userID, id int64) error

	// ListTasks returns all of a user's tasks ordered by day, hour and ID.
	ListTasks(ctx context.Context, userID int64) ([]*Task, error)

	// FindTasksAt returns a user's tasks starting at the given day and hour.
	FindTasksAt(ctx context.Context, userID int64, day Day, hour int) ([]*Task, error)

	// ListUserIDs returns every user that owns at least one task.
	ListUserIDs(ctx context.Context) ([]int64, error)

	// Close releases any resources held by the repository.
	Close() error
}
