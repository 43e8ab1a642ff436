package driving

import (
	"context"

	"github.com/edutech/edutech-core/internal/core/domain"
)

// CreateLessonRequest represents a request to create a lesson by hand
type CreateLessonRequest struct {
	Title      string  `json:"title"`
	Content    *string `json:"content,omitempty"`
	CategoryID *int64  `json:"category_id,omitempty"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// LessonService manages lessons
type LessonService interface {
	// Create creates a lesson owned by the user
	Create(ctx context.Context, userID int64, req CreateLessonRequest) (*domain.Lesson, error)

	// Get retrieves a lesson owned by the user
	Get(ctx context.Context, userID, id int64) (*domain.Lesson, error)
}

// CategoryService manages lesson categories
type CategoryService interface {
	// Create creates a category owned by the user
	Create(ctx context.Context, userID int64, req CreateCategoryRequest) (*domain.Category, error)

	// List retrieves all categories of the user
	List(ctx context.Context, userID int64) ([]*domain.Category, error)
}
