package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/edutech/edutech-core/internal/core/domain"
	"github.com/edutech/edutech-core/internal/core/ports/driven"
	"github.com/edutech/edutech-core/internal/core/ports/driving"
)

// Ensure lessonService implements LessonService
var _ driving.LessonService = (*lessonService)(nil)

const maxLessonTitleLength = 200

// lessonService implements the LessonService interface
type lessonService struct {
	lessons    driven.LessonStore
	categories driven.CategoryStore
}

// NewLessonService creates a new LessonService
func NewLessonService(lessons driven.LessonStore, categories driven.CategoryStore) driving.LessonService {
	return &lessonService{lessons: lessons, categories: categories}
}

// Create creates a lesson owned by the user
func (s *lessonService) Create(ctx context.Context, userID int64, req driving.CreateLessonRequest) (*domain.Lesson, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || len([]rune(title)) > maxLessonTitleLength {
		return nil, domain.ErrInvalidInput
	}

	if req.CategoryID != nil {
		if _, err := s.categories.GetOwned(ctx, *req.CategoryID, userID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	lesson := &domain.Lesson{
		UserID:     userID,
		CategoryID: req.CategoryID,
		Title:      title,
		Content:    req.Content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.lessons.Create(ctx, lesson); err != nil {
		return nil, fmt.Errorf("failed to create lesson: %w", err)
	}
	return lesson, nil
}

// Get retrieves a lesson owned by the user
func (s *lessonService) Get(ctx context.Context, userID, id int64) (*domain.Lesson, error) {
	return s.lessons.GetOwned(ctx, id, userID)
}
