package driven

import (
	"context"

	"github.com/edutech/edutech-core/internal/core/domain"
)

// LessonStore handles lesson persistence (PostgreSQL)
type LessonStore interface {
	// Create inserts a lesson and assigns its ID
	Create(ctx context.Context, lesson *domain.Lesson) error

	// Get retrieves a lesson by ID
	Get(ctx context.Context, id int64) (*domain.Lesson, error)

	// GetOwned retrieves a lesson only if it belongs to the user.
	// Returns domain.ErrNotFound when the lesson is missing or owned by someone else.
	GetOwned(ctx context.Context, id, userID int64) (*domain.Lesson, error)
}

// CategoryStore handles category persistence (PostgreSQL)
type CategoryStore interface {
	// Create inserts a category and assigns its ID
	Create(ctx context.Context, category *domain.Category) error

	// GetOwned retrieves a category only if it belongs to the user
	GetOwned(ctx context.Context, id, userID int64) (*domain.Category, error)

	// FindByName returns the oldest category of the user with the given name
	FindByName(ctx context.Context, userID int64, name string) (*domain.Category, error)

	// ListByUser retrieves all categories of a user
	ListByUser(ctx context.Context, userID int64) ([]*domain.Category, error)
}
