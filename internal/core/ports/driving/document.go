package driving

import (
	"context"
	"io"

	"github.com/edutech/edutech-core/internal/core/domain"
)

// UploadRequest carries an uploaded file destined for a lesson
type UploadRequest struct {
	UserID   int64
	LessonID int64
	FileName string
	Content  io.Reader
}

// DocumentService manages uploaded documents.
// Every operation is scoped to the user owning the container lesson.
type DocumentService interface {
	// Upload stores a file and attaches it to a lesson
	Upload(ctx context.Context, req UploadRequest) (*domain.Document, error)

	// Get retrieves a document by ID
	Get(ctx context.Context, userID, id int64) (*domain.Document, error)

	// ListByLesson retrieves all documents attached to a lesson
	ListByLesson(ctx context.Context, userID, lessonID int64) ([]*domain.Document, error)

	// Delete removes a document and its stored file
	Delete(ctx context.Context, userID, id int64) error

	// Parse previews what a conversion would extract, without persisting anything
	Parse(ctx context.Context, userID, id int64) (*domain.ParseResult, error)

	// ConversionStatus returns the conversion state of a document
	ConversionStatus(ctx context.Context, userID, id int64) (*domain.ConversionStatus, error)

	// ClearConversionError forgets a recorded failure so conversion can be offered again
	ClearConversionError(ctx context.Context, userID, id int64) (*domain.ConversionStatus, error)
}
