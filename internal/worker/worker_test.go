package worker

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/edutech/edutech-core/internal/core/domain"
	"github.com/edutech/edutech-core/internal/core/ports/driven/mocks"
	"github.com/edutech/edutech-core/internal/core/ports/driving"
)

// mockConverter implements driving.ConversionService for testing
type mockConverter struct {
	convertFn func(ctx context.Context, req domain.ConvertRequest) *domain.ConversionResult
	calls     []domain.ConvertRequest
}

var _ driving.ConversionService = (*mockConverter)(nil)

func (m *mockConverter) Convert(ctx context.Context, req domain.ConvertRequest) *domain.ConversionResult {
	m.calls = append(m.calls, req)
	if m.convertFn != nil {
		return m.convertFn(ctx, req)
	}
	return domain.ConversionSucceeded(42)
}

func (m *mockConverter) Enqueue(ctx context.Context, req domain.ConvertRequest) (*domain.Task, error) {
	return domain.NewConvertDocumentTask(req), nil
}

func (m *mockConverter) EnqueueLesson(ctx context.Context, req domain.ConvertLessonRequest) ([]*domain.Task, error) {
	return nil, nil
}

func convertTask() *domain.Task {
	return domain.NewConvertDocumentTask(domain.ConvertRequest{
		DocumentID:      100,
		UserID:          1,
		GenerateSummary: true,
	})
}

func TestNewWorker(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	logger := slog.Default()

	w := NewWorker(WorkerConfig{
		TaskQueue:      queue,
		Converter:      &mockConverter{},
		Logger:         logger,
		Concurrency:    2,
		DequeueTimeout: 5,
	})

	if w == nil {
		t.Fatal("expected non-nil worker")
	}
	if w.concurrency != 2 {
		t.Errorf("expected concurrency 2, got %d", w.concurrency)
	}
	if w.dequeueTimeout != 5 {
		t.Errorf("expected dequeue timeout 5, got %d", w.dequeueTimeout)
	}
}

func TestNewWorker_Defaults(t *testing.T) {
	queue := mocks.NewMockTaskQueue()

	w := NewWorker(WorkerConfig{
		TaskQueue:      queue,
		Concurrency:    0, // Should default to 1
		DequeueTimeout: 0, // Should default to 5
	})

	if w.concurrency != 1 {
		t.Errorf("expected default concurrency 1, got %d", w.concurrency)
	}
	if w.dequeueTimeout != 5 {
		t.Errorf("expected default dequeue timeout 5, got %d", w.dequeueTimeout)
	}
	if w.logger == nil {
		t.Error("expected default logger")
	}
}

func TestWorker_StartStop(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	// Add delay so workers don't spin too fast
	queue.DequeueDelay = 100 * time.Millisecond

	w := NewWorker(WorkerConfig{
		TaskQueue:      queue,
		Concurrency:    1,
		DequeueTimeout: 1,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := w.Start(ctx)
	if err != nil {
		t.Fatalf("failed to start worker: %v", err)
	}

	health := w.Health(ctx)
	if !health.Running {
		t.Error("expected worker to be running")
	}

	// Start again should be no-op
	err = w.Start(ctx)
	if err != nil {
		t.Errorf("second start should not error: %v", err)
	}

	w.Stop()

	health = w.Health(ctx)
	if health.Running {
		t.Error("expected worker to be stopped")
	}

	// Stop again should be no-op
	w.Stop()
}

func TestWorker_PurgesFinishedTasks(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	queue.DequeueDelay = 10 * time.Millisecond
	purged := make(chan int, 8)
	queue.PurgeFn = func(olderThan int) (int, error) {
		select {
		case purged <- olderThan:
		default:
		}
		return 3, nil
	}

	w := NewWorker(WorkerConfig{
		TaskQueue:     queue,
		Concurrency:   1,
		PurgeInterval: 20 * time.Millisecond,
		TaskRetention: 2 * time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("failed to start worker: %v", err)
	}
	defer w.Stop()

	select {
	case olderThan := <-purged:
		if olderThan != 7200 {
			t.Errorf("expected retention of 7200 seconds, got %d", olderThan)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected finished tasks to be purged")
	}
}

func TestWorker_PurgeDisabledByDefault(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	queue.DequeueDelay = 10 * time.Millisecond

	w := NewWorker(WorkerConfig{TaskQueue: queue})
	if w.taskRetention != 7*24*time.Hour {
		t.Errorf("expected default retention of 7 days, got %v", w.taskRetention)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("failed to start worker: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	w.Stop()

	if got := queue.Purges(); len(got) != 0 {
		t.Errorf("expected no purges without an interval, got %v", got)
	}
}

func TestWorker_Purge_Error(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	queue.PurgeFn = func(olderThan int) (int, error) {
		return 0, errors.New("database unavailable")
	}
	w := NewWorker(WorkerConfig{TaskQueue: queue, TaskRetention: time.Hour})

	w.purge(context.Background())

	if got := queue.Purges(); len(got) != 1 || got[0] != 3600 {
		t.Errorf("expected one purge of 3600 seconds, got %v", got)
	}
}

func TestWorker_ProcessesQueuedConversion(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	queue.DequeueDelay = 10 * time.Millisecond
	converter := &mockConverter{}

	task := convertTask()
	if err := queue.Enqueue(context.Background(), task); err != nil {
		t.Fatalf("failed to enqueue: %v", err)
	}

	w := NewWorker(WorkerConfig{
		TaskQueue:      queue,
		Converter:      converter,
		Concurrency:    1,
		DequeueTimeout: 1,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("failed to start worker: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(queue.Acked()) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	w.Stop()

	acked := queue.Acked()
	if len(acked) != 1 || acked[0] != task.ID {
		t.Fatalf("expected task %s to be acked, got %v", task.ID, acked)
	}
	stored, _ := queue.GetTask(context.Background(), task.ID)
	if stored.Status != domain.TaskStatusCompleted {
		t.Errorf("expected completed task, got %s", stored.Status)
	}
}

func TestWorker_Health(t *testing.T) {
	queue := mocks.NewMockTaskQueue()

	w := NewWorker(WorkerConfig{
		TaskQueue:   queue,
		Concurrency: 1,
	})

	health := w.Health(context.Background())
	if health.Running {
		t.Error("expected not running")
	}
	if !health.QueueHealth {
		t.Error("expected queue to be healthy")
	}
}

func TestWorker_Health_QueueError(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	queue.PingFn = func() error {
		return errors.New("connection failed")
	}

	w := NewWorker(WorkerConfig{
		TaskQueue:   queue,
		Concurrency: 1,
	})

	health := w.Health(context.Background())
	if health.QueueHealth {
		t.Error("expected queue to be unhealthy")
	}
	if health.Error != "connection failed" {
		t.Errorf("expected error message, got %q", health.Error)
	}
}

func TestWorker_ProcessTask_UnknownType(t *testing.T) {
	queue := mocks.NewMockTaskQueue()

	task := &domain.Task{
		ID:     "task-123",
		Type:   domain.TaskType("unknown_type"),
		UserID: 1,
	}

	w := NewWorker(WorkerConfig{
		TaskQueue:   queue,
		Converter:   &mockConverter{},
		Concurrency: 1,
	})

	w.processTask(context.Background(), task, slog.Default())

	if len(queue.Nacked()) != 1 {
		t.Errorf("expected 1 nack for unknown type, got %d", len(queue.Nacked()))
	}
}

func TestWorker_ProcessTask_InvalidPayload(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	converter := &mockConverter{}

	task := &domain.Task{
		ID:      "task-123",
		Type:    domain.TaskTypeConvertDocument,
		UserID:  1,
		Payload: map[string]string{"document_id": "not-a-number"},
	}

	w := NewWorker(WorkerConfig{
		TaskQueue:   queue,
		Converter:   converter,
		Concurrency: 1,
	})

	w.processTask(context.Background(), task, slog.Default())

	if len(queue.Nacked()) != 1 {
		t.Errorf("expected 1 nack for invalid payload, got %d", len(queue.Nacked()))
	}
	if len(converter.calls) != 0 {
		t.Error("converter must not run for invalid payloads")
	}
}

func TestWorker_ProcessTask_NoConverter(t *testing.T) {
	queue := mocks.NewMockTaskQueue()

	w := NewWorker(WorkerConfig{TaskQueue: queue, Concurrency: 1})
	w.processTask(context.Background(), convertTask(), slog.Default())

	if len(queue.Nacked()) != 1 {
		t.Errorf("expected 1 nack without converter, got %d", len(queue.Nacked()))
	}
}

func TestWorker_HandleConvertDocument(t *testing.T) {
	tests := []struct {
		name     string
		result   *domain.ConversionResult
		wantAck  bool
		wantNack bool
	}{
		{
			name:    "success is acked",
			result:  domain.ConversionSucceeded(42),
			wantAck: true,
		},
		{
			name:    "parse failure is acked",
			result:  domain.ConversionFailedWith(domain.CodeParseFailed, "Failed to parse document: Document content is empty"),
			wantAck: true,
		},
		{
			name:    "already converted is acked",
			result:  domain.ConversionFailedWith(domain.CodeAlreadyConverted, domain.MsgAlreadyConverted),
			wantAck: true,
		},
		{
			name:    "access denied is acked",
			result:  domain.ConversionFailedWith(domain.CodeAccessDenied, domain.MsgAccessDenied),
			wantAck: true,
		},
		{
			name:     "storage failure is retried",
			result:   domain.ConversionFailedWith(domain.CodeStorageFailure, "Unexpected error during conversion: connection reset"),
			wantNack: true,
		},
		{
			name:     "lock contention is retried",
			result:   domain.ConversionFailedWith(domain.CodeInProgress, domain.MsgConversionInProgress),
			wantNack: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := mocks.NewMockTaskQueue()
			converter := &mockConverter{
				convertFn: func(ctx context.Context, req domain.ConvertRequest) *domain.ConversionResult {
					return tt.result
				},
			}

			w := NewWorker(WorkerConfig{
				TaskQueue:   queue,
				Converter:   converter,
				Concurrency: 1,
			})

			task := convertTask()
			w.processTask(context.Background(), task, slog.Default())

			if got := len(queue.Acked()) == 1; got != tt.wantAck {
				t.Errorf("expected ack=%v, got acked %v", tt.wantAck, queue.Acked())
			}
			if got := len(queue.Nacked()) == 1; got != tt.wantNack {
				t.Errorf("expected nack=%v, got nacked %v", tt.wantNack, queue.Nacked())
			}
			if len(converter.calls) != 1 {
				t.Fatalf("expected 1 conversion, got %d", len(converter.calls))
			}
			if converter.calls[0].DocumentID != 100 || converter.calls[0].UserID != 1 {
				t.Errorf("unexpected request %+v", converter.calls[0])
			}
		})
	}
}

func TestWorker_ContextCancellation(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	// Slow dequeue so we can cancel
	queue.DequeueDelay = 500 * time.Millisecond

	w := NewWorker(WorkerConfig{
		TaskQueue:      queue,
		Concurrency:    1,
		DequeueTimeout: 10,
	})

	ctx, cancel := context.WithCancel(context.Background())

	err := w.Start(ctx)
	if err != nil {
		t.Fatalf("failed to start worker: %v", err)
	}

	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	done := make(chan struct{})
	go func() {
		w.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Error("worker did not stop after context cancellation")
		w.Stop()
	}
}
