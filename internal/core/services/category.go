package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/edutech/edutech-core/internal/core/domain"
	"github.com/edutech/edutech-core/internal/core/ports/driven"
	"github.com/edutech/edutech-core/internal/core/ports/driving"
)

// Ensure categoryService implements CategoryService
var _ driving.CategoryService = (*categoryService)(nil)

const maxCategoryNameLength = 100

// categoryService implements the CategoryService interface
type categoryService struct {
	categories driven.CategoryStore
	logger     *slog.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categories driven.CategoryStore, logger *slog.Logger) driving.CategoryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &categoryService{categories: categories, logger: logger}
}

// Create creates a category owned by the user
func (s *categoryService) Create(ctx context.Context, userID int64, req driving.CreateCategoryRequest) (*domain.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || len([]rune(name)) > maxCategoryNameLength {
		return nil, domain.ErrInvalidInput
	}

	category := &domain.Category{
		UserID:      userID,
		Name:        name,
		Description: req.Description,
		CreatedAt:   time.Now(),
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// List retrieves all categories of the user
func (s *categoryService) List(ctx context.Context, userID int64) ([]*domain.Category, error) {
	return s.categories.ListByUser(ctx, userID)
}

// resolveCategory looks up an owned category, falling back to get-or-create
// of the default category when id is nil or refers to someone else's category.
// logger is expected to carry the user already.
func resolveCategory(
	ctx context.Context,
	store driven.CategoryStore,
	logger *slog.Logger,
	userID int64,
	id *int64,
) (*domain.Category, error) {
	if id != nil {
		category, err := store.GetOwned(ctx, *id, userID)
		if err == nil {
			return category, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		logger.Debug("category not owned by user, using default", "category_id", *id)
	}

	category, err := store.FindByName(ctx, userID, domain.DefaultCategoryName)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	category = domain.NewDefaultCategory(userID)
	if err := store.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create default category: %w", err)
	}
	logger.Info("created default category", "category_id", category.ID)
	return category, nil
}
