package mocks

import (
	"context"
	"io"
	"sync"

	"github.com/edutech/edutech-core/internal/core/domain"
	"github.com/edutech/edutech-core/internal/core/ports/driven"
)

var _ driven.FileStore = (*MockFileStore)(nil)

// MockFileStore keeps file contents in memory
type MockFileStore struct {
	mu    sync.RWMutex
	files map[string][]byte

	// ReadCount counts Read calls, letting tests assert no I/O happened
	ReadCount int

	// ReadFn overrides Read when set
	ReadFn func(path string) ([]byte, error)
}

// NewMockFileStore creates a new MockFileStore
func NewMockFileStore() *MockFileStore {
	return &MockFileStore{files: make(map[string][]byte)}
}

func (m *MockFileStore) Write(ctx context.Context, path string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
	return int64(len(data)), nil
}

func (m *MockFileStore) Read(ctx context.Context, path string) ([]byte, error) {
	m.mu.Lock()
	m.ReadCount++
	m.mu.Unlock()
	if m.ReadFn != nil {
		return m.ReadFn(path)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *MockFileStore) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
	return nil
}

// Put stores raw bytes under path
func (m *MockFileStore) Put(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
}

// Has reports whether something is stored under path
func (m *MockFileStore) Has(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[path]
	return ok
}
