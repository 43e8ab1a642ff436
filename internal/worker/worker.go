package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/edutech/edutech-core/internal/core/domain"
	"github.com/edutech/edutech-core/internal/core/ports/driven"
	"github.com/edutech/edutech-core/internal/core/ports/driving"
)

// Worker processes tasks from the task queue.
// It runs the conversion service for each convert_document task.
type Worker struct {
	taskQueue driven.TaskQueue
	converter driving.ConversionService
	logger    *slog.Logger

	// Configuration
	concurrency    int
	dequeueTimeout int // seconds
	purgeInterval  time.Duration
	taskRetention  time.Duration

	// Internal state
	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// WorkerConfig holds configuration for the worker.
type WorkerConfig struct {
	TaskQueue      driven.TaskQueue
	Converter      driving.ConversionService
	Logger         *slog.Logger
	Concurrency    int // Number of concurrent task processors
	DequeueTimeout int // Seconds to wait for a task before checking again

	// PurgeInterval is how often finished tasks are purged (0 disables purging)
	PurgeInterval time.Duration
	// TaskRetention is how long finished tasks are kept (default: 7 days)
	TaskRetention time.Duration
}

// NewWorker creates a new task worker.
func NewWorker(cfg WorkerConfig) *Worker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	dequeueTimeout := cfg.DequeueTimeout
	if dequeueTimeout <= 0 {
		dequeueTimeout = 5
	}

	taskRetention := cfg.TaskRetention
	if taskRetention <= 0 {
		taskRetention = 7 * 24 * time.Hour
	}

	return &Worker{
		taskQueue:      cfg.TaskQueue,
		converter:      cfg.Converter,
		logger:         logger,
		concurrency:    concurrency,
		dequeueTimeout: dequeueTimeout,
		purgeInterval:  cfg.PurgeInterval,
		taskRetention:  taskRetention,
	}
}

// Start begins the worker loop.
// It runs until Stop is called or context is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	w.logger.Info("worker starting",
		"concurrency", w.concurrency,
		"dequeue_timeout", w.dequeueTimeout,
		"purge_interval", w.purgeInterval,
	)

	// Start worker goroutines
	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			w.processLoop(ctx, workerID)
		}(i)
	}

	if w.purgeInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.purgeLoop(ctx)
		}()
	}

	// Wait for all workers to finish
	go func() {
		wg.Wait()
		close(w.doneCh)
	}()

	return nil
}

// Stop gracefully stops the worker.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	close(w.stopCh)
	w.mu.Unlock()

	// Wait for workers to finish
	<-w.doneCh

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	w.logger.Info("worker stopped")
}

// Wait blocks until the worker stops.
func (w *Worker) Wait() {
	<-w.doneCh
}

// processLoop is the main processing loop for a worker goroutine.
func (w *Worker) processLoop(ctx context.Context, workerID int) {
	logger := w.logger.With("worker_id", workerID)
	logger.Info("worker goroutine started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("worker context cancelled")
			return
		case <-w.stopCh:
			logger.Info("worker stop signal received")
			return
		default:
		}

		// Dequeue a task with timeout
		task, err := w.taskQueue.DequeueWithTimeout(ctx, w.dequeueTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			logger.Error("failed to dequeue task", "error", err)
			time.Sleep(time.Second) // Back off on error
			continue
		}

		if task == nil {
			// No task available, continue
			continue
		}

		// Process the task
		w.processTask(ctx, task, logger)
	}
}

// purgeLoop periodically removes finished tasks past their retention.
func (w *Worker) purgeLoop(ctx context.Context) {
	ticker := time.NewTicker(w.purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.purge(ctx)
		}
	}
}

// purge removes completed and failed tasks older than the retention period.
func (w *Worker) purge(ctx context.Context) {
	purged, err := w.taskQueue.PurgeTasks(ctx, int(w.taskRetention.Seconds()))
	if err != nil {
		w.logger.Error("failed to purge finished tasks", "error", err)
		return
	}
	if purged > 0 {
		w.logger.Info("purged finished tasks", "count", purged, "retention", w.taskRetention)
	}
}

// processTask processes a single task.
func (w *Worker) processTask(ctx context.Context, task *domain.Task, logger *slog.Logger) {
	logger = logger.With("task_id", task.ID, "task_type", task.Type, "user_id", task.UserID)
	logger.Info("processing task")

	startTime := time.Now()
	var err error

	switch task.Type {
	case domain.TaskTypeConvertDocument:
		err = w.handleConvertDocument(ctx, task, logger)
	default:
		err = fmt.Errorf("unknown task type: %s", task.Type)
	}

	duration := time.Since(startTime)

	if err != nil {
		logger.Error("task failed",
			"duration", duration,
			"attempt", task.Attempts,
			"error", err,
		)

		// Nack the task so it can be retried
		if nackErr := w.taskQueue.Nack(ctx, task.ID, err.Error()); nackErr != nil {
			logger.Error("failed to nack task", "nack_error", nackErr)
		}
		return
	}

	logger.Info("task completed", "duration", duration)

	// Ack the task
	if ackErr := w.taskQueue.Ack(ctx, task.ID); ackErr != nil {
		logger.Error("failed to ack task", "ack_error", ackErr)
	}
}

// handleConvertDocument handles a convert_document task.
// Failed conversions are business outcomes already recorded on the document,
// so only storage failures and lock contention are returned for retry.
func (w *Worker) handleConvertDocument(ctx context.Context, task *domain.Task, logger *slog.Logger) error {
	if w.converter == nil {
		return errors.New("no conversion service configured")
	}

	req, err := task.ConvertRequest()
	if err != nil {
		return err
	}

	result := w.converter.Convert(ctx, req)
	if result.OK() {
		logger.Info("document converted", "document_id", req.DocumentID, "lesson_id", *result.LessonID)
		return nil
	}

	switch result.Code {
	case domain.CodeStorageFailure, domain.CodeInProgress:
		return fmt.Errorf("conversion failed (%s): %s", result.Code, result.Error)
	default:
		logger.Warn("conversion not performed",
			"document_id", req.DocumentID,
			"code", result.Code,
			"reason", result.Error,
		)
		return nil
	}
}

// Health returns health status of the worker.
type Health struct {
	Running     bool   `json:"running"`
	QueueHealth bool   `json:"queue_health"`
	Error       string `json:"error,omitempty"`
}

// Health returns the health status of the worker.
func (w *Worker) Health(ctx context.Context) Health {
	w.mu.RLock()
	running := w.running
	w.mu.RUnlock()

	health := Health{
		Running: running,
	}

	// Check queue health
	if err := w.taskQueue.Ping(ctx); err != nil {
		health.QueueHealth = false
		health.Error = err.Error()
	} else {
		health.QueueHealth = true
	}

	return health
}
