package driven

import (
	"context"

	"github.com/edutech/edutech-core/internal/core/domain"
)

// DocumentStore handles document persistence (PostgreSQL)
type DocumentStore interface {
	// Create inserts a document and assigns its ID
	Create(ctx context.Context, doc *domain.Document) error

	// Get retrieves a document by ID
	Get(ctx context.Context, id int64) (*domain.Document, error)

	// ListByLesson retrieves all documents attached to a container lesson
	ListByLesson(ctx context.Context, lessonID int64) ([]*domain.Document, error)

	// Delete deletes a document
	Delete(ctx context.Context, id int64) error

	// MarkConverted records a successful conversion and clears any error.
	// The update only applies while the document is unconverted; otherwise
	// it returns domain.ErrAlreadyConverted.
	MarkConverted(ctx context.Context, id, lessonID int64) error

	// SetConversionError records why a conversion failed.
	// Converted documents are left untouched.
	SetConversionError(ctx context.Context, id int64, message string) error

	// ClearConversionError removes a recorded error so the document can be retried
	ClearConversionError(ctx context.Context, id int64) error
}
