package mocks

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/edutech/edutech-core/internal/core/domain"
	"github.com/edutech/edutech-core/internal/core/ports/driven"
)

var _ driven.TaskQueue = (*MockTaskQueue)(nil)

// MockTaskQueue is an in-memory FIFO TaskQueue for testing.
type MockTaskQueue struct {
	mu      sync.Mutex
	pending []*domain.Task
	all     map[string]*domain.Task
	acked   []string
	nacked  []string
	purges  []int

	// DequeueDelay simulates a blocking dequeue
	DequeueDelay time.Duration

	EnqueueFn func(task *domain.Task) error
	AckFn     func(taskID string) error
	NackFn    func(taskID, reason string) error
	PingFn    func() error
	PurgeFn   func(olderThan int) (int, error)
	CancelFn  func(taskID string) error
}

// NewMockTaskQueue creates a new MockTaskQueue
func NewMockTaskQueue() *MockTaskQueue {
	return &MockTaskQueue{
		all: make(map[string]*domain.Task),
	}
}

func (m *MockTaskQueue) Enqueue(ctx context.Context, task *domain.Task) error {
	if m.EnqueueFn != nil {
		if err := m.EnqueueFn(task); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, task)
	m.all[task.ID] = task
	return nil
}

func (m *MockTaskQueue) EnqueueBatch(ctx context.Context, tasks []*domain.Task) error {
	for _, t := range tasks {
		if err := m.Enqueue(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockTaskQueue) Dequeue(ctx context.Context) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.pending) == 0 {
		return nil, nil
	}
	task := m.pending[0]
	m.pending = m.pending[1:]
	task.MarkProcessing()
	return task, nil
}

func (m *MockTaskQueue) DequeueWithTimeout(ctx context.Context, timeout int) (*domain.Task, error) {
	if m.DequeueDelay > 0 {
		select {
		case <-time.After(m.DequeueDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return m.Dequeue(ctx)
}

func (m *MockTaskQueue) Ack(ctx context.Context, taskID string) error {
	if m.AckFn != nil {
		if err := m.AckFn(taskID); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acked = append(m.acked, taskID)
	if t, ok := m.all[taskID]; ok {
		t.MarkCompleted()
	}
	return nil
}

func (m *MockTaskQueue) Nack(ctx context.Context, taskID string, reason string) error {
	if m.NackFn != nil {
		if err := m.NackFn(taskID, reason); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nacked = append(m.nacked, taskID)
	if t, ok := m.all[taskID]; ok {
		t.MarkFailed(reason)
	}
	return nil
}

func (m *MockTaskQueue) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.all[taskID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (m *MockTaskQueue) ListTasks(ctx context.Context, filter driven.TaskFilter) ([]*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Task
	for _, t := range m.all {
		if filter.UserID != 0 && t.UserID != filter.UserID {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b *domain.Task) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if filter.Offset > 0 {
		out = out[min(filter.Offset, len(out)):]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *MockTaskQueue) CancelTask(ctx context.Context, taskID string) error {
	if m.CancelFn != nil {
		if err := m.CancelFn(taskID); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.pending {
		if t.ID == taskID {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			t.MarkFailed("cancelled")
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *MockTaskQueue) PurgeTasks(ctx context.Context, olderThan int) (int, error) {
	m.mu.Lock()
	m.purges = append(m.purges, olderThan)
	m.mu.Unlock()
	if m.PurgeFn != nil {
		return m.PurgeFn(olderThan)
	}
	return 0, nil
}

func (m *MockTaskQueue) Stats(ctx context.Context) (*driven.QueueStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &driven.QueueStats{PendingCount: int64(len(m.pending))}, nil
}

func (m *MockTaskQueue) Ping(ctx context.Context) error {
	if m.PingFn != nil {
		return m.PingFn()
	}
	return nil
}

func (m *MockTaskQueue) Close() error {
	return nil
}

// Pending returns the tasks waiting to be dequeued
func (m *MockTaskQueue) Pending() []*domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Task, len(m.pending))
	copy(out, m.pending)
	return out
}

// Acked returns the IDs of acknowledged tasks
func (m *MockTaskQueue) Acked() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.acked...)
}

// Nacked returns the IDs of negatively acknowledged tasks
func (m *MockTaskQueue) Nacked() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.nacked...)
}

// Purges returns the ages passed to PurgeTasks
func (m *MockTaskQueue) Purges() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.purges...)
}
