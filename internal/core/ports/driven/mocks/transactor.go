package mocks

import (
	"context"
	"sync"

	"github.com/edutech/edutech-core/internal/core/ports/driven"
)

var _ driven.Transactor = (*MockTransactor)(nil)

// Snapshotter is implemented by mock stores that can take part in a mock transaction
type Snapshotter interface {
	Snapshot() func()
}

// MockTransactor emulates transactions over in-memory stores.
// Participants are snapshotted before fn runs and restored if it fails.
type MockTransactor struct {
	mu           sync.Mutex
	participants []Snapshotter

	Commits   int
	Rollbacks int
}

// NewMockTransactor creates a transactor covering the given stores
func NewMockTransactor(participants ...Snapshotter) *MockTransactor {
	return &MockTransactor{participants: participants}
}

func (m *MockTransactor) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	restores := make([]func(), 0, len(m.participants))
	for _, p := range m.participants {
		restores = append(restores, p.Snapshot())
	}

	if err := fn(ctx); err != nil {
		for _, restore := range restores {
			restore()
		}
		m.Rollbacks++
		return err
	}
	m.Commits++
	return nil
}
