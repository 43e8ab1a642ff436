package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/edutech/edutech-core/internal/core/domain"
	"github.com/edutech/edutech-core/internal/core/ports/driven"
)

var (
	_ driven.LessonStore   = (*MockLessonStore)(nil)
	_ driven.CategoryStore = (*MockCategoryStore)(nil)
)

// MockLessonStore is a mock implementation of LessonStore for testing
type MockLessonStore struct {
	mu      sync.RWMutex
	lessons map[int64]domain.Lesson
	nextID  int64

	// CreateFn overrides Create when set
	CreateFn func(lesson *domain.Lesson) error
}

// NewMockLessonStore creates a new MockLessonStore
func NewMockLessonStore() *MockLessonStore {
	return &MockLessonStore{
		lessons: make(map[int64]domain.Lesson),
	}
}

func (m *MockLessonStore) Create(ctx context.Context, lesson *domain.Lesson) error {
	if m.CreateFn != nil {
		return m.CreateFn(lesson)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	lesson.ID = m.nextID
	m.lessons[lesson.ID] = *lesson
	return nil
}

func (m *MockLessonStore) Get(ctx context.Context, id int64) (*domain.Lesson, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lesson, ok := m.lessons[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &lesson, nil
}

func (m *MockLessonStore) GetOwned(ctx context.Context, id, userID int64) (*domain.Lesson, error) {
	lesson, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !lesson.IsOwnedBy(userID) {
		return nil, domain.ErrNotFound
	}
	return lesson, nil
}

// Snapshot captures the current state and returns a function restoring it
func (m *MockLessonStore) Snapshot() func() {
	m.mu.RLock()
	saved := make(map[int64]domain.Lesson, len(m.lessons))
	for k, v := range m.lessons {
		saved[k] = v
	}
	m.mu.RUnlock()
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.lessons = saved
	}
}

// Put stores a lesson with a caller-chosen ID
func (m *MockLessonStore) Put(lesson *domain.Lesson) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lessons[lesson.ID] = *lesson
	if lesson.ID > m.nextID {
		m.nextID = lesson.ID
	}
}

func (m *MockLessonStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.lessons)
}

// MockCategoryStore is a mock implementation of CategoryStore for testing
type MockCategoryStore struct {
	mu         sync.RWMutex
	categories map[int64]domain.Category
	nextID     int64

	// CreateFn overrides Create when set
	CreateFn func(category *domain.Category) error
}

// NewMockCategoryStore creates a new MockCategoryStore
func NewMockCategoryStore() *MockCategoryStore {
	return &MockCategoryStore{
		categories: make(map[int64]domain.Category),
	}
}

func (m *MockCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	if m.CreateFn != nil {
		return m.CreateFn(category)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	category.ID = m.nextID
	m.categories[category.ID] = *category
	return nil
}

func (m *MockCategoryStore) GetOwned(ctx context.Context, id, userID int64) (*domain.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	category, ok := m.categories[id]
	if !ok || category.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return &category, nil
}

func (m *MockCategoryStore) FindByName(ctx context.Context, userID int64, name string) (*domain.Category, error) {
	categories, _ := m.ListByUser(ctx, userID)
	for _, category := range categories {
		if category.Name == name {
			return category, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockCategoryStore) ListByUser(ctx context.Context, userID int64) ([]*domain.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Category
	for _, category := range m.categories {
		if category.UserID == userID {
			c := category
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Snapshot captures the current state and returns a function restoring it
func (m *MockCategoryStore) Snapshot() func() {
	m.mu.RLock()
	saved := make(map[int64]domain.Category, len(m.categories))
	for k, v := range m.categories {
		saved[k] = v
	}
	m.mu.RUnlock()
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.categories = saved
	}
}

// Put stores a category with a caller-chosen ID
func (m *MockCategoryStore) Put(category *domain.Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[category.ID] = *category
	if category.ID > m.nextID {
		m.nextID = category.ID
	}
}

func (m *MockCategoryStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.categories)
}
