package mocks

import (
	"context"

	"github.com/edutech/edutech-core/internal/core/domain"
	"github.com/edutech/edutech-core/internal/core/ports/driven"
)

var _ driven.DocumentParser = (*MockDocumentParser)(nil)

// MockDocumentParser returns canned parse results
type MockDocumentParser struct {
	Result *domain.ParseResult
	Err    error

	// SupportsFn overrides Supports, which otherwise accepts every file
	SupportsFn func(fileName string) bool

	// Calls records the (filePath, fileName) pairs seen
	Calls [][2]string
}

// NewMockDocumentParser creates a parser that returns result
func NewMockDocumentParser(result *domain.ParseResult) *MockDocumentParser {
	return &MockDocumentParser{Result: result}
}

func (m *MockDocumentParser) Parse(ctx context.Context, filePath, fileName string) (*domain.ParseResult, error) {
	m.Calls = append(m.Calls, [2]string{filePath, fileName})
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

func (m *MockDocumentParser) Supports(fileName string) bool {
	if m.SupportsFn != nil {
		return m.SupportsFn(fileName)
	}
	return true
}
