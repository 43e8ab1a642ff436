package domain

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strconv"
	"time"
)

// GenerateID creates a unique random ID.
func GenerateID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// TaskType identifies the type of background task
type TaskType string

const (
	// TaskTypeConvertDocument converts one document into a lesson
	TaskTypeConvertDocument TaskType = "convert_document"
)

// TaskStatus represents the current state of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task represents a background job to be processed by workers
type Task struct {
	// ID is the unique identifier for this task
	ID string `json:"id"`

	// Type identifies what kind of task this is
	Type TaskType `json:"type"`

	// UserID is the user on whose behalf the task runs
	UserID int64 `json:"user_id"`

	// Payload contains task-specific data
	// For convert_document: {"document_id": "12", "category_id": "3", "generate_summary": "true"}
	Payload map[string]string `json:"payload"`

	// Status is the current state of the task
	Status TaskStatus `json:"status"`

	// Priority determines processing order (higher = more urgent)
	// Default is 0, range is -100 to 100
	Priority int `json:"priority"`

	// Attempts is how many times this task has been attempted
	Attempts int `json:"attempts"`

	// MaxAttempts is the maximum retry count before giving up
	MaxAttempts int `json:"max_attempts"`

	// Error contains the last error message if failed
	Error string `json:"error,omitempty"`

	// CreatedAt is when the task was enqueued
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the task was last modified
	UpdatedAt time.Time `json:"updated_at"`

	// StartedAt is when processing began (nil if not started)
	StartedAt *time.Time `json:"started_at,omitempty"`

	// CompletedAt is when processing finished (nil if not complete)
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// ScheduledFor is when the task should be processed (for delayed tasks)
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewTask creates a new task with default values
func NewTask(taskType TaskType, userID int64, payload map[string]string) *Task {
	now := time.Now()
	return &Task{
		ID:           GenerateID(),
		Type:         taskType,
		UserID:       userID,
		Payload:      payload,
		Status:       TaskStatusPending,
		Priority:     0,
		Attempts:     0,
		MaxAttempts:  3,
		CreatedAt:    now,
		UpdatedAt:    now,
		ScheduledFor: now,
	}
}

// NewConvertDocumentTask creates a task that runs a conversion in the background
func NewConvertDocumentTask(req ConvertRequest) *Task {
	payload := map[string]string{
		"document_id":      strconv.FormatInt(req.DocumentID, 10),
		"generate_summary": strconv.FormatBool(req.GenerateSummary),
	}
	if req.CategoryID != nil {
		payload["category_id"] = strconv.FormatInt(*req.CategoryID, 10)
	}
	return NewTask(TaskTypeConvertDocument, req.UserID, payload)
}

// ConvertRequest rebuilds the conversion inputs from a convert_document payload
func (t *Task) ConvertRequest() (ConvertRequest, error) {
	req := ConvertRequest{UserID: t.UserID, GenerateSummary: true}
	if t.Payload == nil {
		return req, fmt.Errorf("%w: empty payload", ErrInvalidInput)
	}

	id, err := strconv.ParseInt(t.Payload["document_id"], 10, 64)
	if err != nil {
		return req, fmt.Errorf("%w: document_id: %v", ErrInvalidInput, err)
	}
	req.DocumentID = id

	if raw, ok := t.Payload["category_id"]; ok && raw != "" {
		cid, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return req, fmt.Errorf("%w: category_id: %v", ErrInvalidInput, err)
		}
		req.CategoryID = &cid
	}

	if raw, ok := t.Payload["generate_summary"]; ok && raw != "" {
		gen, err := strconv.ParseBool(raw)
		if err != nil {
			return req, fmt.Errorf("%w: generate_summary: %v", ErrInvalidInput, err)
		}
		req.GenerateSummary = gen
	}

	return req, nil
}

// CanRetry returns true if the task can be retried
func (t *Task) CanRetry() bool {
	return t.Attempts < t.MaxAttempts
}

// IsReady returns true if the task is ready to be processed
func (t *Task) IsReady() bool {
	return t.Status == TaskStatusPending && time.Now().After(t.ScheduledFor)
}

// MarkProcessing updates the task to processing state
func (t *Task) MarkProcessing() {
	now := time.Now()
	t.Status = TaskStatusProcessing
	t.StartedAt = &now
	t.UpdatedAt = now
	t.Attempts++
}

// MarkCompleted updates the task to completed state
func (t *Task) MarkCompleted() {
	now := time.Now()
	t.Status = TaskStatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now
	t.Error = ""
}

// MarkFailed updates the task to failed state
func (t *Task) MarkFailed(err string) {
	now := time.Now()
	t.Status = TaskStatusFailed
	t.UpdatedAt = now
	t.Error = err
}

// Retry resets the task for retry with exponential backoff
func (t *Task) Retry(err string) {
	now := time.Now()
	t.Status = TaskStatusPending
	t.UpdatedAt = now
	t.Error = err

	// Exponential backoff: 1s, 2s, 4s, 8s, etc.
	backoff := time.Duration(1<<t.Attempts) * time.Second
	if backoff > 5*time.Minute {
		backoff = 5 * time.Minute // Cap at 5 minutes
	}
	t.ScheduledFor = now.Add(backoff)
}

// TaskResult represents the outcome of processing a task
type TaskResult struct {
	TaskID   string        `json:"task_id"`
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
	LessonID *int64        `json:"lesson_id,omitempty"`
}
