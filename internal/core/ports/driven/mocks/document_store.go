package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/edutech/edutech-core/internal/core/domain"
	"github.com/edutech/edutech-core/internal/core/ports/driven"
)

var _ driven.DocumentStore = (*MockDocumentStore)(nil)

// MockDocumentStore is a mock implementation of DocumentStore for testing.
// It stores copies so callers cannot mutate state behind its back.
type MockDocumentStore struct {
	mu        sync.RWMutex
	documents map[int64]domain.Document
	nextID    int64

	// Custom behavior hooks (optional)
	GetFn                func(id int64) (*domain.Document, error)
	MarkConvertedFn      func(id, lessonID int64) error
	SetConversionErrorFn func(id int64, message string) error
}

// NewMockDocumentStore creates a new MockDocumentStore
func NewMockDocumentStore() *MockDocumentStore {
	return &MockDocumentStore{
		documents: make(map[int64]domain.Document),
	}
}

func (m *MockDocumentStore) Create(ctx context.Context, doc *domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	doc.ID = m.nextID
	m.documents[doc.ID] = *doc
	return nil
}

func (m *MockDocumentStore) Get(ctx context.Context, id int64) (*domain.Document, error) {
	if m.GetFn != nil {
		return m.GetFn(id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

func (m *MockDocumentStore) ListByLesson(ctx context.Context, lessonID int64) ([]*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Document
	for _, doc := range m.documents {
		if doc.LessonID == lessonID {
			d := doc
			result = append(result, &d)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockDocumentStore) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.documents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.documents, id)
	return nil
}

func (m *MockDocumentStore) MarkConverted(ctx context.Context, id, lessonID int64) error {
	if m.MarkConvertedFn != nil {
		return m.MarkConvertedFn(id, lessonID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	if doc.Converted {
		return domain.ErrAlreadyConverted
	}
	doc.Converted = true
	doc.ConvertedLessonID = &lessonID
	doc.ConversionError = nil
	m.documents[id] = doc
	return nil
}

func (m *MockDocumentStore) SetConversionError(ctx context.Context, id int64, message string) error {
	if m.SetConversionErrorFn != nil {
		return m.SetConversionErrorFn(id, message)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	if doc.Converted {
		return nil
	}
	doc.ConversionError = &message
	m.documents[id] = doc
	return nil
}

func (m *MockDocumentStore) ClearConversionError(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	doc.ConversionError = nil
	m.documents[id] = doc
	return nil
}

// Snapshot captures the current state and returns a function restoring it
func (m *MockDocumentStore) Snapshot() func() {
	m.mu.RLock()
	saved := make(map[int64]domain.Document, len(m.documents))
	for k, v := range m.documents {
		saved[k] = v
	}
	m.mu.RUnlock()
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.documents = saved
	}
}

// Helper methods for testing

// Put stores a document with a caller-chosen ID
func (m *MockDocumentStore) Put(doc *domain.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[doc.ID] = *doc
	if doc.ID > m.nextID {
		m.nextID = doc.ID
	}
}

func (m *MockDocumentStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.documents)
}
