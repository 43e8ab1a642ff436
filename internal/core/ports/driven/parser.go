package driven

import (
	"context"

	"github.com/edutech/edutech-core/internal/core/domain"
)

// DocumentParser turns a stored file into title, content and summary.
// Failures are *domain.ParseError values.
type DocumentParser interface {
	Parse(ctx context.Context, filePath, fileName string) (*domain.ParseResult, error)

	// Supports reports whether fileName has a parseable format, without any I/O
	Supports(fileName string) bool
}
