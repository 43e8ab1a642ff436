package driving

import (
	"context"

	"github.com/edutech/edutech-core/internal/core/domain"
)

// ListTasksRequest pages through a user's background tasks
type ListTasksRequest struct {
	Status domain.TaskStatus
	Limit  int
	Offset int
}

// TaskService exposes a user's background conversion tasks
type TaskService interface {
	// Get retrieves a task owned by the user
	Get(ctx context.Context, userID int64, id string) (*domain.Task, error)

	// List retrieves the user's tasks, newest first
	List(ctx context.Context, userID int64, req ListTasksRequest) ([]*domain.Task, error)

	// Cancel stops a task that has not been picked up yet
	Cancel(ctx context.Context, userID int64, id string) (*domain.Task, error)
}
