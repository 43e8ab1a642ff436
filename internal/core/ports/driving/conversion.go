package driving

import (
	"context"

	"github.com/edutech/edutech-core/internal/core/domain"
)

// ConversionService turns documents into lessons
type ConversionService interface {
	// Convert runs a conversion synchronously. It never returns a Go error;
	// every outcome is described by the result.
	Convert(ctx context.Context, req domain.ConvertRequest) *domain.ConversionResult

	// Enqueue schedules a conversion for a background worker
	Enqueue(ctx context.Context, req domain.ConvertRequest) (*domain.Task, error)

	// EnqueueLesson schedules a conversion for every document of the lesson
	// that can still be converted and has a parseable format
	EnqueueLesson(ctx context.Context, req domain.ConvertLessonRequest) ([]*domain.Task, error)
}
