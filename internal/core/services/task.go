package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/edutech/edutech-core/internal/core/domain"
	"github.com/edutech/edutech-core/internal/core/ports/driven"
	"github.com/edutech/edutech-core/internal/core/ports/driving"
)

// Ensure taskService implements TaskService
var _ driving.TaskService = (*taskService)(nil)

const (
	defaultTaskPageSize = 20
	maxTaskPageSize     = 100
)

// taskService implements the TaskService interface.
// Tasks of other users are reported as not found.
type taskService struct {
	queue  driven.TaskQueue
	logger *slog.Logger
}

// NewTaskService creates a new TaskService. A nil queue makes every
// operation report ErrServiceUnavailable.
func NewTaskService(queue driven.TaskQueue, logger *slog.Logger) driving.TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &taskService{queue: queue, logger: logger}
}

// Get retrieves a task owned by the user
func (s *taskService) Get(ctx context.Context, userID int64, id string) (*domain.Task, error) {
	if s.queue == nil {
		return nil, domain.ErrServiceUnavailable
	}
	if id == "" {
		return nil, domain.ErrNotFound
	}

	task, err := s.queue.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil || task.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return task, nil
}

// List retrieves the user's tasks, newest first
func (s *taskService) List(ctx context.Context, userID int64, req driving.ListTasksRequest) ([]*domain.Task, error) {
	if s.queue == nil {
		return nil, domain.ErrServiceUnavailable
	}

	switch req.Status {
	case "", domain.TaskStatusPending, domain.TaskStatusProcessing,
		domain.TaskStatusCompleted, domain.TaskStatusFailed:
	default:
		return nil, fmt.Errorf("%w: unknown task status %q", domain.ErrInvalidInput, req.Status)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultTaskPageSize
	}
	if limit > maxTaskPageSize {
		limit = maxTaskPageSize
	}
	offset := max(req.Offset, 0)

	tasks, err := s.queue.ListTasks(ctx, driven.TaskFilter{
		UserID: userID,
		Status: req.Status,
		Type:   domain.TaskTypeConvertDocument,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, nil
}

// Cancel stops a pending task. Tasks a worker already claimed cannot be cancelled.
func (s *taskService) Cancel(ctx context.Context, userID int64, id string) (*domain.Task, error) {
	task, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if task.Status != domain.TaskStatusPending {
		return nil, domain.ErrTaskNotPending
	}

	if err := s.queue.CancelTask(ctx, id); err != nil {
		// The task was claimed between the read and the update
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrTaskNotPending) {
			return nil, domain.ErrTaskNotPending
		}
		return nil, fmt.Errorf("failed to cancel task: %w", err)
	}

	s.logger.Info("task cancelled", "task_id", id, "user_id", userID)
	return s.queue.GetTask(ctx, id)
}
