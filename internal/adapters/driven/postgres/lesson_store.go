package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/edutech/edutech-core/internal/core/domain"
	"github.com/edutech/edutech-core/internal/core/ports/driven"
)

// Verify interface compliance
var (
	_ driven.LessonStore   = (*LessonStore)(nil)
	_ driven.CategoryStore = (*CategoryStore)(nil)
)

const lessonColumns = `id, user_id, category_id, title, content, summary, created_at, updated_at`

// LessonStore implements driven.LessonStore using PostgreSQL
type LessonStore struct {
	db *DB
}

// NewLessonStore creates a new LessonStore
func NewLessonStore(db *DB) *LessonStore {
	return &LessonStore{db: db}
}

// Create inserts a lesson and assigns its ID
func (s *LessonStore) Create(ctx context.Context, lesson *domain.Lesson) error {
	query := `
		INSERT INTO lessons (user_id, category_id, title, content, summary, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	return s.db.conn(ctx).QueryRowContext(ctx, query,
		lesson.UserID,
		NullInt64(lesson.CategoryID),
		lesson.Title,
		NullString(lesson.Content),
		NullString(lesson.Summary),
		lesson.CreatedAt,
		lesson.UpdatedAt,
	).Scan(&lesson.ID)
}

// Get retrieves a lesson by ID
func (s *LessonStore) Get(ctx context.Context, id int64) (*domain.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = $1`
	return s.queryLesson(ctx, query, id)
}

// GetOwned retrieves a lesson only if it belongs to the user
func (s *LessonStore) GetOwned(ctx context.Context, id, userID int64) (*domain.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = $1 AND user_id = $2`
	return s.queryLesson(ctx, query, id, userID)
}

func (s *LessonStore) queryLesson(ctx context.Context, query string, args ...any) (*domain.Lesson, error) {
	var lesson domain.Lesson
	var categoryID sql.NullInt64
	var content, summary sql.NullString

	err := s.db.conn(ctx).QueryRowContext(ctx, query, args...).Scan(
		&lesson.ID,
		&lesson.UserID,
		&categoryID,
		&lesson.Title,
		&content,
		&summary,
		&lesson.CreatedAt,
		&lesson.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	lesson.CategoryID = Int64Ptr(categoryID)
	lesson.Content = StringPtr(content)
	lesson.Summary = StringPtr(summary)
	return &lesson, nil
}

const categoryColumns = `id, user_id, name, description, created_at`

// CategoryStore implements driven.CategoryStore using PostgreSQL
type CategoryStore struct {
	db *DB
}

// NewCategoryStore creates a new CategoryStore
func NewCategoryStore(db *DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// Create inserts a category and assigns its ID
func (s *CategoryStore) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (user_id, name, description, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	return s.db.conn(ctx).QueryRowContext(ctx, query,
		category.UserID,
		category.Name,
		NullString(category.Description),
		category.CreatedAt,
	).Scan(&category.ID)
}

// GetOwned retrieves a category only if it belongs to the user
func (s *CategoryStore) GetOwned(ctx context.Context, id, userID int64) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND user_id = $2`
	return scanOneCategory(s.db.conn(ctx).QueryRowContext(ctx, query, id, userID))
}

// FindByName returns the oldest category of the user with the given name
func (s *CategoryStore) FindByName(ctx context.Context, userID int64, name string) (*domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE user_id = $1 AND name = $2
		ORDER BY id ASC
		LIMIT 1
	`
	return scanOneCategory(s.db.conn(ctx).QueryRowContext(ctx, query, userID, name))
}

// ListByUser retrieves all categories of a user
func (s *CategoryStore) ListByUser(ctx context.Context, userID int64) ([]*domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE user_id = $1
		ORDER BY id ASC
	`

	rows, err := s.db.conn(ctx).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

func scanOneCategory(row rowScanner) (*domain.Category, error) {
	category, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return category, err
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	var category domain.Category
	var description sql.NullString

	err := row.Scan(
		&category.ID,
		&category.UserID,
		&category.Name,
		&description,
		&category.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	category.Description = StringPtr(description)
	return &category, nil
}
